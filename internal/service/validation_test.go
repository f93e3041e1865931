package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/forgo/notes/api/internal/model"
)

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	err := validateStruct(model.CreateNoteRequest{UserID: "user:1", Title: "T", Text: "x"})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestValidateStruct_ReportsEveryMissingField(t *testing.T) {
	t.Parallel()

	err := validateStruct(model.UpdateNoteRequest{})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(verr.Violations) != 4 {
		t.Fatalf("expected 4 violations, got %d: %v", len(verr.Violations), verr)
	}
	for _, sentinel := range []error{ErrUserIDRequired, ErrNoteIDRequired, ErrTitleRequired, ErrTextRequired} {
		if !errors.Is(err, sentinel) {
			t.Errorf("expected errors.Is(err, %v)", sentinel)
		}
	}
	if errors.Is(err, ErrUsernameRequired) {
		t.Error("unrelated sentinel must not match")
	}
}

func TestValidateStruct_UsesJSONFieldNames(t *testing.T) {
	t.Parallel()

	err := validateStruct(model.CreateNoteRequest{Title: "T", Text: "x"})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Violations[0].Field != "id" {
		t.Errorf("field = %q, want id", verr.Violations[0].Field)
	}
	if verr.Violations[0].Message != ErrUserIDRequired.Error() {
		t.Errorf("message = %q", verr.Violations[0].Message)
	}
}

func TestValidateStruct_InvalidRole(t *testing.T) {
	t.Parallel()

	err := validateStruct(model.CreateUserRequest{
		Username: "alice",
		Password: "secret",
		Roles:    []model.Role{model.RoleEmployee, "Owner"},
	})

	if !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	var verr *ValidationError
	errors.As(err, &verr)
	if !strings.HasPrefix(verr.Violations[0].Field, "roles") {
		t.Errorf("field = %q, want roles[...]", verr.Violations[0].Field)
	}
	if !strings.Contains(verr.Violations[0].Message, "Employee Manager Admin") {
		t.Errorf("message should list allowed roles, got %q", verr.Violations[0].Message)
	}
}

func TestValidateStruct_EmptyRolesOnUpdate(t *testing.T) {
	t.Parallel()

	for name, roles := range map[string][]model.Role{"nil": nil, "empty": {}} {
		t.Run(name, func(t *testing.T) {
			err := validateStruct(model.UpdateUserRequest{ID: "user:1", Username: "alice", Roles: roles})
			if !errors.Is(err, ErrRolesRequired) {
				t.Errorf("expected ErrRolesRequired, got %v", err)
			}
		})
	}
}

func TestValidationError_ErrorJoinsMessages(t *testing.T) {
	t.Parallel()

	err := &ValidationError{Violations: []FieldViolation{
		{Field: "title", Message: "title is required", Err: ErrTitleRequired},
		{Field: "text", Message: "text is required", Err: ErrTextRequired},
	}}

	if got := err.Error(); got != "title is required; text is required" {
		t.Errorf("Error() = %q", got)
	}
}
