// Package handler provides HTTP request handlers for the Notes API.
//
// Each handler decodes one request body, calls one service operation and
// writes either a success payload or an RFC 9457 problem document.
//
// # Response Format
//
//   - WriteData: {"data": ...} for listings
//   - WriteMessage: {"message": ..., "id": ...} for mutations
//   - WriteError: application/problem+json with a numeric code
//
// Service errors are translated by MapServiceError. Validation failures,
// unknown users or notes and empty listings are all 400 and are told apart
// by the problem's code.
//
// # Example Usage
//
//	notes := handler.NewNoteHandler(handler.NoteHandlerConfig{
//	    Queries:   noteQueries,
//	    Mutations: noteMutations,
//	})
//	r.Get("/notes", notes.List)
//	r.Post("/notes", notes.Create)
package handler
