// Package fixtures provides test data factories for store-backed tests.
//
// Each factory method creates entities with sensible defaults while allowing
// customization via option functions. Factories write through the real
// repositories and return fully populated models.
//
// Usage:
//
//	f := fixtures.New(tdb.DB)
//	user := f.CreateUser(t)
//	note := f.CreateNote(t, user)
package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/forgo/notes/api/internal/database"
	"github.com/forgo/notes/api/internal/model"
	"github.com/forgo/notes/api/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the plaintext password of users created without one
const DefaultPassword = "testpass123"

// Factory creates test entities in the database
type Factory struct {
	users *repository.UserRepository
	notes *repository.NoteRepository
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{
		users: repository.NewUserRepository(db),
		notes: repository.NewNoteRepository(db),
	}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 6)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

// ============================================================================
// User Fixtures
// ============================================================================

// UserOpts customizes user creation
type UserOpts struct {
	Username string
	Password string
	Roles    []model.Role
	Inactive bool
}

// CreateUser creates a user with optional customizations
func (f *Factory) CreateUser(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()

	o := &UserOpts{
		Username: fmt.Sprintf("user_%s", randomID()),
		Password: DefaultPassword,
		Roles:    model.DefaultRoles(),
	}
	for _, fn := range opts {
		fn(o)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash password: %v", err)
	}

	user := &model.User{
		Username: o.Username,
		Password: string(hash),
		Roles:    o.Roles,
	}
	if err := f.users.Create(ctx(t), user); err != nil {
		t.Fatalf("fixtures: failed to create user: %v", err)
	}

	if o.Inactive {
		user.Active = false
		user.Password = ""
		if err := f.users.Update(ctx(t), user); err != nil {
			t.Fatalf("fixtures: failed to deactivate user: %v", err)
		}
	}

	user.Password = ""
	return user
}

// CreateAdmin creates a user holding every role
func (f *Factory) CreateAdmin(t *testing.T) *model.User {
	return f.CreateUser(t, func(o *UserOpts) {
		o.Roles = []model.Role{model.RoleEmployee, model.RoleManager, model.RoleAdmin}
	})
}

// ============================================================================
// Note Fixtures
// ============================================================================

// NoteOpts customizes note creation
type NoteOpts struct {
	Title     string
	Text      string
	Completed bool
}

// CreateNote creates a note owned by owner
func (f *Factory) CreateNote(t *testing.T, owner *model.User, opts ...func(*NoteOpts)) *model.Note {
	t.Helper()

	o := &NoteOpts{
		Title: fmt.Sprintf("Note %s", randomID()),
		Text:  "fixture note",
	}
	for _, fn := range opts {
		fn(o)
	}

	note := &model.Note{
		UserID: owner.ID,
		Title:  o.Title,
		Text:   o.Text,
	}
	if err := f.notes.Create(ctx(t), note); err != nil {
		t.Fatalf("fixtures: failed to create note: %v", err)
	}

	if o.Completed {
		note.Completed = true
		if err := f.notes.Update(ctx(t), note); err != nil {
			t.Fatalf("fixtures: failed to complete note: %v", err)
		}
	}
	return note
}

// WithTitle sets the note title
func WithTitle(title string) func(*NoteOpts) {
	return func(o *NoteOpts) { o.Title = title }
}

// WithUsername sets the username
func WithUsername(username string) func(*UserOpts) {
	return func(o *UserOpts) { o.Username = username }
}
