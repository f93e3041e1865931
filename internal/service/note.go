package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/notes/api/internal/database"
	"github.com/forgo/notes/api/internal/model"
)

// NoteRepository defines the interface for note storage
type NoteRepository interface {
	Create(ctx context.Context, note *model.Note) error
	GetByID(ctx context.Context, id string) (*model.Note, error)
	GetByTitle(ctx context.Context, title string) (*model.Note, error)
	List(ctx context.Context) ([]*model.Note, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Note, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Update(ctx context.Context, note *model.Note) error
	Delete(ctx context.Context, id string) error
}

// UserReader is the part of user storage the note services read from
type UserReader interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*model.User, error)
}

// NoteQueryService resolves sets of notes
type NoteQueryService struct {
	noteRepo NoteRepository
	userRepo UserReader
}

// NoteQueryServiceConfig holds configuration for the note query service
type NoteQueryServiceConfig struct {
	NoteRepo NoteRepository
	UserRepo UserReader
}

// NewNoteQueryService creates a new note query service
func NewNoteQueryService(cfg NoteQueryServiceConfig) *NoteQueryService {
	return &NoteQueryService{
		noteRepo: cfg.NoteRepo,
		userRepo: cfg.UserRepo,
	}
}

// ListAll returns every note annotated with its owner's username.
// Owners are fetched with one batched lookup; a note whose owner no longer
// exists is annotated with model.UnknownUsername.
func (s *NoteQueryService) ListAll(ctx context.Context) ([]*model.NoteWithUsername, error) {
	notes, err := s.noteRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, ErrNoNotes
	}

	seen := make(map[string]struct{}, len(notes))
	ownerIDs := make([]string, 0, len(notes))
	for _, n := range notes {
		if _, ok := seen[n.UserID]; ok {
			continue
		}
		seen[n.UserID] = struct{}{}
		ownerIDs = append(ownerIDs, n.UserID)
	}

	owners, err := s.userRepo.GetByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}
	usernames := make(map[string]string, len(owners))
	for _, u := range owners {
		usernames[u.ID] = u.Username
	}

	result := make([]*model.NoteWithUsername, len(notes))
	for i, n := range notes {
		username, ok := usernames[n.UserID]
		if !ok {
			username = model.UnknownUsername
		}
		result[i] = &model.NoteWithUsername{Note: *n, Username: username}
	}
	return result, nil
}

// ListForUser returns the notes owned by userID
func (s *NoteQueryService) ListForUser(ctx context.Context, userID string) ([]*model.NoteWithUsername, error) {
	if userID == "" {
		return nil, &ValidationError{Violations: []FieldViolation{{
			Field:   "id",
			Message: ErrUserIDRequired.Error(),
			Err:     ErrUserIDRequired,
		}}}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	notes, err := s.noteRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, ErrNoNotes
	}

	result := make([]*model.NoteWithUsername, len(notes))
	for i, n := range notes {
		result[i] = &model.NoteWithUsername{Note: *n, Username: user.Username}
	}
	return result, nil
}

// NoteMutationService creates, updates and deletes notes
type NoteMutationService struct {
	noteRepo NoteRepository
	userRepo UserReader
}

// NoteMutationServiceConfig holds configuration for the note mutation service
type NoteMutationServiceConfig struct {
	NoteRepo NoteRepository
	UserRepo UserReader
}

// NewNoteMutationService creates a new note mutation service
func NewNoteMutationService(cfg NoteMutationServiceConfig) *NoteMutationService {
	return &NoteMutationService{
		noteRepo: cfg.NoteRepo,
		userRepo: cfg.UserRepo,
	}
}

// Create creates a note owned by req.UserID. Titles are unique across all
// notes.
func (s *NoteMutationService) Create(ctx context.Context, req model.CreateNoteRequest) (*model.Note, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	if err := s.requireUser(ctx, req.UserID); err != nil {
		return nil, err
	}

	existing, err := s.noteRepo.GetByTitle(ctx, req.Title)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateTitle
	}

	note := &model.Note{
		UserID:    req.UserID,
		Title:     req.Title,
		Text:      req.Text,
		Completed: false,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		// Lost a race with a concurrent create of the same title
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrDuplicateTitle
		}
		return nil, err
	}
	return note, nil
}

// Update overwrites a note's title, text and completed flag. Only the note's
// owner may update it, and the new title may not be held by another note.
func (s *NoteMutationService) Update(ctx context.Context, req model.UpdateNoteRequest) (*model.Note, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	if err := s.requireUser(ctx, req.UserID); err != nil {
		return nil, err
	}

	note, err := s.noteRepo.GetByID(ctx, req.NoteID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}
	if note.UserID != req.UserID {
		return nil, ErrNotNoteOwner
	}

	holder, err := s.noteRepo.GetByTitle(ctx, req.Title)
	if err != nil {
		return nil, err
	}
	if holder != nil && holder.ID != note.ID {
		return nil, ErrDuplicateTitle
	}

	note.Title = req.Title
	note.Text = req.Text
	note.Completed = req.Completed
	if err := s.noteRepo.Update(ctx, note); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrDuplicateTitle
		}
		return nil, err
	}
	return note, nil
}

// Delete removes a note and returns a confirmation naming it
func (s *NoteMutationService) Delete(ctx context.Context, req model.DeleteNoteRequest) (string, error) {
	if err := validateStruct(req); err != nil {
		return "", err
	}

	note, err := s.noteRepo.GetByID(ctx, req.ID)
	if err != nil {
		return "", err
	}
	if note == nil {
		return "", ErrNoteNotFound
	}

	if err := s.noteRepo.Delete(ctx, note.ID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Note '%s' with ID %s deleted", note.Title, note.ID), nil
}

func (s *NoteMutationService) requireUser(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return nil
}
