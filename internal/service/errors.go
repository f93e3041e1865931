package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here so handlers can
// map them to responses with errors.Is.

// ===== Validation Errors =====
var (
	ErrUserIDRequired   = errors.New("user id is required")
	ErrNoteIDRequired   = errors.New("note id is required")
	ErrTitleRequired    = errors.New("title is required")
	ErrTextRequired     = errors.New("text is required")
	ErrUsernameRequired = errors.New("username is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrRolesRequired    = errors.New("at least one role is required")
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidInput     = errors.New("invalid input")
)

// ===== Lookup Errors =====
var (
	ErrUserNotFound = errors.New("user not found")
	ErrNoteNotFound = errors.New("note not found")
)

// ===== Empty Result Errors =====
var (
	ErrNoNotes = errors.New("no notes found")
	ErrNoUsers = errors.New("no users found")
)

// ===== Ownership Errors =====
var (
	ErrNotNoteOwner = errors.New("note belongs to another user")
)

// ===== Conflict Errors =====
var (
	ErrDuplicateTitle    = errors.New("duplicate note title")
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrUserHasNotes      = errors.New("user has assigned notes")
)

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)
