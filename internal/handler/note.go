package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/forgo/notes/api/internal/model"
)

// NoteQuerier reads notes enriched with their owner's username
type NoteQuerier interface {
	ListAll(ctx context.Context) ([]*model.NoteWithUsername, error)
	ListForUser(ctx context.Context, userID string) ([]*model.NoteWithUsername, error)
}

// NoteMutator creates, updates and deletes notes
type NoteMutator interface {
	Create(ctx context.Context, req model.CreateNoteRequest) (*model.Note, error)
	Update(ctx context.Context, req model.UpdateNoteRequest) (*model.Note, error)
	Delete(ctx context.Context, req model.DeleteNoteRequest) (string, error)
}

// NoteHandler handles the /notes endpoints
type NoteHandler struct {
	queries   NoteQuerier
	mutations NoteMutator
}

// NoteHandlerConfig holds the note handler dependencies
type NoteHandlerConfig struct {
	Queries   NoteQuerier
	Mutations NoteMutator
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(cfg NoteHandlerConfig) *NoteHandler {
	return &NoteHandler{
		queries:   cfg.Queries,
		mutations: cfg.Mutations,
	}
}

// List handles GET /notes. With a user id (query ?id= or body) only that
// user's notes are returned, otherwise every note. When both carry an id
// the query parameter wins.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	var req model.ListNotesRequest
	if err := DecodeOptionalJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if id := r.URL.Query().Get("id"); id != "" {
		req.UserID = id
	}

	var (
		notes []*model.NoteWithUsername
		err   error
	)
	if req.UserID == "" {
		notes, err = h.queries.ListAll(r.Context())
	} else {
		notes, err = h.queries.ListForUser(r.Context(), req.UserID)
	}
	if err != nil {
		handleError(w, r, err, "list notes")
		return
	}

	WriteData(w, http.StatusOK, notes, nil)
}

// Create handles POST /notes
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateNoteRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	note, err := h.mutations.Create(r.Context(), req)
	if err != nil {
		handleError(w, r, err, "create note")
		return
	}

	WriteMessage(w, http.StatusCreated, "New note created", note.ID)
}

// Update handles PATCH /notes
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateNoteRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	note, err := h.mutations.Update(r.Context(), req)
	if err != nil {
		handleError(w, r, err, "update note")
		return
	}

	WriteMessage(w, http.StatusOK, fmt.Sprintf("'%s' updated", note.Title), "")
}

// Delete handles DELETE /notes
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req model.DeleteNoteRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	msg, err := h.mutations.Delete(r.Context(), req)
	if err != nil {
		handleError(w, r, err, "delete note")
		return
	}

	WriteMessage(w, http.StatusOK, msg, "")
}
