// Package service implements the business logic layer for the Notes API.
//
// Services validate requests, run the ownership and uniqueness checks, and
// orchestrate repository calls. Each service declares the repository
// interfaces it needs, so tests substitute in-memory or function-field fakes.
//
// # Services
//
//   - NoteQueryService: ListAll, ListForUser
//   - NoteMutationService: Create, Update, Delete
//   - UserService: List, Create, Update, Delete
//   - AuthService: Login, Refresh
//
// # Errors
//
// Failures are sentinel errors from errors.go, matched with errors.Is.
// Field validation failures arrive as *ValidationError, which matches the
// sentinel of every field it reports:
//
//	_, err := mutations.Create(ctx, model.CreateNoteRequest{UserID: id})
//	errors.Is(err, service.ErrTitleRequired) // true
package service
