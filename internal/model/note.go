package model

import "time"

// Note represents a note owned by a user
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Ticket    int       `json:"ticket"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// NoteWithUsername is a note annotated with its owner's username
type NoteWithUsername struct {
	Note
	Username string `json:"username"`
}

// UnknownUsername is reported for notes whose owner no longer exists.
const UnknownUsername = "[deleted user]"

// FirstTicket is the ticket number given to the first note ever created.
const FirstTicket = 500

// CreateNoteRequest represents a request to create a note.
// The owning user's id travels as "id".
type CreateNoteRequest struct {
	UserID string `json:"id" validate:"required"`
	Title  string `json:"title" validate:"required"`
	Text   string `json:"text" validate:"required"`
}

// UpdateNoteRequest represents a request to update a note
type UpdateNoteRequest struct {
	UserID    string `json:"userId" validate:"required"`
	NoteID    string `json:"noteId" validate:"required"`
	Title     string `json:"title" validate:"required"`
	Text      string `json:"text" validate:"required"`
	Completed bool   `json:"completed"`
}

// DeleteNoteRequest represents a request to delete a note
type DeleteNoteRequest struct {
	ID string `json:"id" validate:"required"`
}

// ListNotesRequest optionally scopes a listing to one user
type ListNotesRequest struct {
	UserID string `json:"id,omitempty"`
}
