package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/forgo/notes/api/internal/model"
	"github.com/forgo/notes/api/internal/service"
)

// ============================================================================
// Mock services
// ============================================================================

type mockNoteQuerier struct {
	listAllFunc     func(ctx context.Context) ([]*model.NoteWithUsername, error)
	listForUserFunc func(ctx context.Context, userID string) ([]*model.NoteWithUsername, error)
}

func (m *mockNoteQuerier) ListAll(ctx context.Context) ([]*model.NoteWithUsername, error) {
	if m.listAllFunc != nil {
		return m.listAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockNoteQuerier) ListForUser(ctx context.Context, userID string) ([]*model.NoteWithUsername, error) {
	if m.listForUserFunc != nil {
		return m.listForUserFunc(ctx, userID)
	}
	return nil, nil
}

type mockNoteMutator struct {
	createFunc func(ctx context.Context, req model.CreateNoteRequest) (*model.Note, error)
	updateFunc func(ctx context.Context, req model.UpdateNoteRequest) (*model.Note, error)
	deleteFunc func(ctx context.Context, req model.DeleteNoteRequest) (string, error)
}

func (m *mockNoteMutator) Create(ctx context.Context, req model.CreateNoteRequest) (*model.Note, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockNoteMutator) Update(ctx context.Context, req model.UpdateNoteRequest) (*model.Note, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockNoteMutator) Delete(ctx context.Context, req model.DeleteNoteRequest) (string, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, req)
	}
	return "", nil
}

type mockUserManager struct {
	listFunc   func(ctx context.Context) ([]*model.User, error)
	createFunc func(ctx context.Context, req model.CreateUserRequest) (*model.User, error)
	updateFunc func(ctx context.Context, req model.UpdateUserRequest) (*model.User, error)
	deleteFunc func(ctx context.Context, req model.DeleteUserRequest) (string, error)
}

func (m *mockUserManager) List(ctx context.Context) ([]*model.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockUserManager) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockUserManager) Update(ctx context.Context, req model.UpdateUserRequest) (*model.User, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockUserManager) Delete(ctx context.Context, req model.DeleteUserRequest) (string, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, req)
	}
	return "", nil
}

type mockAuthenticator struct {
	loginFunc   func(ctx context.Context, req model.LoginRequest) (*service.LoginResult, error)
	refreshFunc func(ctx context.Context, refreshToken string) (string, error)
}

func (m *mockAuthenticator) Login(ctx context.Context, req model.LoginRequest) (*service.LoginResult, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockAuthenticator) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if m.refreshFunc != nil {
		return m.refreshFunc(ctx, refreshToken)
	}
	return "", nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.err
}

// ============================================================================
// Test Helpers
// ============================================================================

func makeJSONRequest(method, path string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseErrorResponse(t *testing.T, body []byte) *model.ProblemDetails {
	t.Helper()
	var problem model.ProblemDetails
	if err := json.Unmarshal(body, &problem); err != nil {
		t.Fatalf("failed to parse error response: %v", err)
	}
	return &problem
}

func parseMessageResponse(t *testing.T, body []byte) MessageResponse {
	t.Helper()
	var msg MessageResponse
	if err := json.Unmarshal(body, &msg); err != nil {
		t.Fatalf("failed to parse message response: %v", err)
	}
	return msg
}

func validationErr(field string, sentinel error) error {
	return &service.ValidationError{Violations: []service.FieldViolation{
		{Field: field, Message: sentinel.Error(), Err: sentinel},
	}}
}
