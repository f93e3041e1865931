package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/forgo/notes/api/internal/database"
	"github.com/forgo/notes/api/internal/middleware"
	"github.com/forgo/notes/api/internal/model"
	"github.com/forgo/notes/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	// ===== Validation Errors → 400 =====
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		fields := make([]model.FieldError, len(verr.Violations))
		for i, v := range verr.Violations {
			fields[i] = model.FieldError{Field: v.Field, Message: v.Message}
		}
		return model.NewValidationError(fields)
	}

	switch {
	// ===== Authentication Errors → 401 =====
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewUnauthorizedError(err.Error())

	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrInvalidRefreshToken):
		return model.NewForbiddenError(err.Error())
	case errors.Is(err, service.ErrNotNoteOwner):
		return model.NewNotOwnerError(err.Error())

	// ===== Not Found Errors → 400 =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("User")
	case errors.Is(err, service.ErrNoteNotFound):
		return model.NewNotFoundError("Note")

	// ===== Empty Results → 400 =====
	case errors.Is(err, service.ErrNoNotes):
		return model.NewNoResultsError("No notes found")
	case errors.Is(err, service.ErrNoUsers):
		return model.NewNoResultsError("No users found")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrDuplicateTitle):
		return model.NewConflictError("Duplicate note title")
	case errors.Is(err, service.ErrDuplicateUsername):
		return model.NewConflictError("Duplicate username")
	case errors.Is(err, service.ErrUserHasNotes):
		return model.NewConflictError("User has assigned notes")

	// ===== Input Errors → 400 =====
	case errors.Is(err, service.ErrInvalidInput):
		return model.NewBadRequestError(err.Error())

	// ===== Store Unavailable → 503 =====
	case errors.Is(err, database.ErrConnection):
		return model.NewServiceUnavailableError("The data store is temporarily unavailable")

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}

// MapServiceErrorWithContext converts a service error to a ProblemDetails response
// with additional context about the operation that failed.
func MapServiceErrorWithContext(err error, operation string) *model.ProblemDetails {
	pd := MapServiceError(err)
	if pd != nil && pd.Status == http.StatusInternalServerError {
		pd.Detail = operation + ": an unexpected error occurred"
	}
	return pd
}

// handleError writes the mapped problem for err. Server-side failures are
// logged with the request id since their detail is hidden from the client.
func handleError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	pd := MapServiceErrorWithContext(err, operation)
	if pd.Status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"operation", operation,
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
	}
	WriteError(w, pd)
}
