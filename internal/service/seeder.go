package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	mrand "math/rand/v2"
	"strings"
	"time"

	"github.com/forgo/notes/api/internal/model"
)

// DefaultSeedPassword is the password of seeded users created without one
const DefaultSeedPassword = "seedpass123"

// SeederService generates demo users and notes for development.
// It writes through the regular services, so every seeded record obeys the
// same validation, ownership and uniqueness rules as API traffic.
type SeederService struct {
	users     *UserService
	queries   *NoteQueryService
	mutations *NoteMutationService
}

// SeederServiceConfig holds the services the seeder writes through
type SeederServiceConfig struct {
	Users     *UserService
	Queries   *NoteQueryService
	Mutations *NoteMutationService
}

// NewSeederService creates a new seeder service
func NewSeederService(cfg SeederServiceConfig) *SeederService {
	return &SeederService{
		users:     cfg.Users,
		queries:   cfg.Queries,
		mutations: cfg.Mutations,
	}
}

// SeedRequest configures a seeding run
type SeedRequest struct {
	Users        int    `json:"users"`
	NotesPerUser int    `json:"notes_per_user"`
	Prefix       string `json:"prefix,omitempty"` // Generated when empty; used by Cleanup
	Password     string `json:"password,omitempty"`
}

// SeedResult reports what a seeding run created
type SeedResult struct {
	Prefix   string   `json:"prefix"`
	UserIDs  []string `json:"user_ids"`
	NoteIDs  []string `json:"note_ids"`
	Duration int64    `json:"duration_ms"`
}

// CleanupResult reports what a cleanup removed
type CleanupResult struct {
	Users    int   `json:"users"`
	Notes    int   `json:"notes"`
	Duration int64 `json:"duration_ms"`
}

// Seed creates req.Users users named "<prefix>_user_<n>", each owning
// req.NotesPerUser notes. Roughly a third of the notes are marked completed.
func (s *SeederService) Seed(ctx context.Context, req SeedRequest) (*SeedResult, error) {
	start := time.Now()

	if req.Users <= 0 {
		return nil, fmt.Errorf("%w: users must be positive", ErrInvalidInput)
	}
	if req.NotesPerUser < 0 {
		return nil, fmt.Errorf("%w: notes per user must not be negative", ErrInvalidInput)
	}
	if req.Prefix == "" {
		req.Prefix = "seed_" + randomTag()
	}
	if req.Password == "" {
		req.Password = DefaultSeedPassword
	}

	result := &SeedResult{Prefix: req.Prefix}
	for u := 1; u <= req.Users; u++ {
		user, err := s.users.Create(ctx, model.CreateUserRequest{
			Username: fmt.Sprintf("%s_user_%d", req.Prefix, u),
			Password: req.Password,
		})
		if err != nil {
			return result, fmt.Errorf("seed user %d: %w", u, err)
		}
		result.UserIDs = append(result.UserIDs, user.ID)

		for n := 1; n <= req.NotesPerUser; n++ {
			title := fmt.Sprintf("%s note %d.%d", req.Prefix, u, n)
			note, err := s.mutations.Create(ctx, model.CreateNoteRequest{
				UserID: user.ID,
				Title:  title,
				Text:   fmt.Sprintf("Seeded note %d for %s", n, user.Username),
			})
			if err != nil {
				return result, fmt.Errorf("seed note %q: %w", title, err)
			}
			result.NoteIDs = append(result.NoteIDs, note.ID)

			if mrand.IntN(3) == 0 {
				if _, err := s.mutations.Update(ctx, model.UpdateNoteRequest{
					UserID:    user.ID,
					NoteID:    note.ID,
					Title:     note.Title,
					Text:      note.Text,
					Completed: true,
				}); err != nil {
					return result, fmt.Errorf("complete note %q: %w", title, err)
				}
			}
		}
	}

	result.Duration = time.Since(start).Milliseconds()
	return result, nil
}

// Cleanup deletes every user whose username starts with "<prefix>_" along
// with the notes they own
func (s *SeederService) Cleanup(ctx context.Context, prefix string) (*CleanupResult, error) {
	start := time.Now()

	if prefix == "" {
		return nil, fmt.Errorf("%w: prefix is required", ErrInvalidInput)
	}

	users, err := s.users.List(ctx)
	if err != nil {
		if errors.Is(err, ErrNoUsers) {
			return &CleanupResult{}, nil
		}
		return nil, err
	}

	result := &CleanupResult{}
	for _, user := range users {
		if !strings.HasPrefix(user.Username, prefix+"_") {
			continue
		}

		notes, err := s.queries.ListForUser(ctx, user.ID)
		if err != nil && !errors.Is(err, ErrNoNotes) {
			return result, err
		}
		for _, note := range notes {
			if _, err := s.mutations.Delete(ctx, model.DeleteNoteRequest{ID: note.ID}); err != nil {
				return result, fmt.Errorf("delete note %s: %w", note.ID, err)
			}
			result.Notes++
		}

		if _, err := s.users.Delete(ctx, model.DeleteUserRequest{ID: user.ID}); err != nil {
			return result, fmt.Errorf("delete user %s: %w", user.ID, err)
		}
		result.Users++
	}

	result.Duration = time.Since(start).Milliseconds()
	return result, nil
}

func randomTag() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
