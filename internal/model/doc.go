// Package model defines domain entities and data structures for the Notes API.
//
// The model package contains the struct definitions for domain objects,
// request types, and error definitions. Models are used across all layers of
// the application.
//
// # Domain Entities
//
//   - User: staff account that owns notes
//   - Note: titled text owned by exactly one user, with a completion flag
//     and a ticket number
//   - NoteWithUsername: a note annotated with its owner's username
//
// # Validation
//
// Request types carry validator tags (`validate:"required"`); the service
// layer checks them before touching the store.
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go:
//
//	type ProblemDetails struct {
//	    Type    string    `json:"type"`
//	    Title   string    `json:"title"`
//	    Status  int       `json:"status"`
//	    Detail  string    `json:"detail"`
//	    Code    ErrorCode `json:"code"`
//	}
package model
