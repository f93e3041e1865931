package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names, which is what callers send.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldSentinels ties a failing struct field to the sentinel that names it.
// Keys are "<Struct>.<Field>" without any slice index.
var fieldSentinels = map[string]error{
	"CreateNoteRequest.UserID": ErrUserIDRequired,
	"CreateNoteRequest.Title":  ErrTitleRequired,
	"CreateNoteRequest.Text":   ErrTextRequired,
	"UpdateNoteRequest.UserID": ErrUserIDRequired,
	"UpdateNoteRequest.NoteID": ErrNoteIDRequired,
	"UpdateNoteRequest.Title":  ErrTitleRequired,
	"UpdateNoteRequest.Text":   ErrTextRequired,
	"DeleteNoteRequest.ID":     ErrNoteIDRequired,

	"CreateUserRequest.Username": ErrUsernameRequired,
	"CreateUserRequest.Password": ErrPasswordRequired,
	"CreateUserRequest.Roles":    ErrInvalidRole,
	"UpdateUserRequest.ID":       ErrUserIDRequired,
	"UpdateUserRequest.Username": ErrUsernameRequired,
	"UpdateUserRequest.Roles":    ErrRolesRequired,
	"DeleteUserRequest.ID":       ErrUserIDRequired,

	"LoginRequest.Username": ErrUsernameRequired,
	"LoginRequest.Password": ErrPasswordRequired,
}

// FieldViolation is one field that failed validation
type FieldViolation struct {
	Field   string
	Message string
	Err     error
}

// ValidationError reports every field of a request that failed validation.
// errors.Is matches each violated field's sentinel.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the violated fields' sentinels to errors.Is
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Violations))
	for i, v := range e.Violations {
		errs[i] = v.Err
	}
	return errs
}

// validateStruct validates s by its struct tags
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	out := &ValidationError{Violations: make([]FieldViolation, 0, len(verrs))}
	for _, fe := range verrs {
		sentinel, ok := fieldSentinels[sentinelKey(fe)]
		if !ok {
			sentinel = ErrInvalidInput
		}
		out.Violations = append(out.Violations, FieldViolation{
			Field:   fe.Field(),
			Message: formatFieldError(fe, sentinel),
			Err:     sentinel,
		})
	}
	return out
}

// sentinelKey turns "CreateUserRequest.Roles[1]" into "CreateUserRequest.Roles"
func sentinelKey(fe validator.FieldError) string {
	key := fe.StructNamespace()
	if i := strings.IndexByte(key, '['); i >= 0 {
		key = key[:i]
	}
	return key
}

// formatFieldError formats a single field validation error
func formatFieldError(fe validator.FieldError, sentinel error) string {
	switch fe.Tag() {
	case "required", "min":
		return sentinel.Error()
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
