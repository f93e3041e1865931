package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/forgo/notes/api/internal/model"
)

// UserManager lists and maintains user accounts
type UserManager interface {
	List(ctx context.Context) ([]*model.User, error)
	Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error)
	Update(ctx context.Context, req model.UpdateUserRequest) (*model.User, error)
	Delete(ctx context.Context, req model.DeleteUserRequest) (string, error)
}

// UserHandler handles the /users endpoints
type UserHandler struct {
	users UserManager
}

// NewUserHandler creates a new user handler
func NewUserHandler(users UserManager) *UserHandler {
	return &UserHandler{users: users}
}

// List handles GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		handleError(w, r, err, "list users")
		return
	}

	WriteData(w, http.StatusOK, users, nil)
}

// Create handles POST /users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	user, err := h.users.Create(r.Context(), req)
	if err != nil {
		handleError(w, r, err, "create user")
		return
	}

	WriteMessage(w, http.StatusCreated, fmt.Sprintf("New user %s created", user.Username), user.ID)
}

// Update handles PATCH /users
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	user, err := h.users.Update(r.Context(), req)
	if err != nil {
		handleError(w, r, err, "update user")
		return
	}

	WriteMessage(w, http.StatusOK, fmt.Sprintf("%s updated", user.Username), "")
}

// Delete handles DELETE /users
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req model.DeleteUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	msg, err := h.users.Delete(r.Context(), req)
	if err != nil {
		handleError(w, r, err, "delete user")
		return
	}

	WriteMessage(w, http.StatusOK, msg, "")
}
