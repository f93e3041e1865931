package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/forgo/notes/api/internal/database"
	"github.com/forgo/notes/api/internal/model"
)

// Mock implementations
//
// The in-memory repositories behave like the SurrealDB ones: missing records
// are (nil, nil), note titles and lowercase usernames are unique indexes, and
// records are copied in and out so callers never alias stored state.

type mockUserRepo struct {
	users  map[string]*model.User
	nextID int

	createErr error
	getErr    error
	listErr   error
	updateErr error
	deleteErr error

	getByIDsCalls int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) add(username string, roles ...model.Role) *model.User {
	if len(roles) == 0 {
		roles = model.DefaultRoles()
	}
	u := &model.User{Username: username, Roles: roles, Active: true}
	if err := m.Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if strings.EqualFold(u.Username, user.Username) {
			return fmt.Errorf("%w: username already exists", database.ErrDuplicate)
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user:u%d", m.nextID)
	user.CreatedOn = time.Now()
	user.UpdatedOn = user.CreatedOn
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) GetByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	m.getByIDsCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			c := *u
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *mockUserRepo) List(ctx context.Context) ([]*model.User, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*model.User, 0, len(m.users))
	for _, u := range m.users {
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Username) < strings.ToLower(out[j].Username)
	})
	return out, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	existing, ok := m.users[user.ID]
	if !ok {
		return nil
	}
	for id, u := range m.users {
		if id != user.ID && strings.EqualFold(u.Username, user.Username) {
			return fmt.Errorf("%w: username already exists", database.ErrDuplicate)
		}
	}
	updated := *user
	if updated.Password == "" {
		updated.Password = existing.Password
	}
	updated.UpdatedOn = time.Now()
	m.users[user.ID] = &updated
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.users, id)
	return nil
}

type mockNoteRepo struct {
	notes  map[string]*model.Note
	nextID int
	ticket int

	createErr error
	getErr    error
	listErr   error
	updateErr error
	deleteErr error
	countErr  error

	// hideTitles makes GetByTitle miss, as if a concurrent writer took the
	// title between the check and the write
	hideTitles bool
}

func newMockNoteRepo() *mockNoteRepo {
	return &mockNoteRepo{
		notes:  make(map[string]*model.Note),
		ticket: model.FirstTicket - 1,
	}
}

func (m *mockNoteRepo) Create(ctx context.Context, note *model.Note) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, n := range m.notes {
		if n.Title == note.Title {
			return fmt.Errorf("%w: note title already exists", database.ErrDuplicate)
		}
	}
	m.nextID++
	m.ticket++
	note.ID = fmt.Sprintf("note:n%d", m.nextID)
	note.Ticket = m.ticket
	note.Completed = false
	note.CreatedOn = time.Now()
	note.UpdatedOn = note.CreatedOn
	stored := *note
	m.notes[note.ID] = &stored
	return nil
}

func (m *mockNoteRepo) GetByID(ctx context.Context, id string) (*model.Note, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	n, ok := m.notes[id]
	if !ok {
		return nil, nil
	}
	out := *n
	return &out, nil
}

func (m *mockNoteRepo) GetByTitle(ctx context.Context, title string) (*model.Note, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.hideTitles {
		return nil, nil
	}
	for _, n := range m.notes {
		if n.Title == title {
			out := *n
			return &out, nil
		}
	}
	return nil, nil
}

func (m *mockNoteRepo) List(ctx context.Context) ([]*model.Note, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.filter(func(*model.Note) bool { return true }), nil
}

func (m *mockNoteRepo) ListByUser(ctx context.Context, userID string) ([]*model.Note, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.filter(func(n *model.Note) bool { return n.UserID == userID }), nil
}

func (m *mockNoteRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return len(m.filter(func(n *model.Note) bool { return n.UserID == userID })), nil
}

func (m *mockNoteRepo) Update(ctx context.Context, note *model.Note) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	existing, ok := m.notes[note.ID]
	if !ok {
		return nil
	}
	for id, n := range m.notes {
		if id != note.ID && n.Title == note.Title {
			return fmt.Errorf("%w: note title already exists", database.ErrDuplicate)
		}
	}
	existing.Title = note.Title
	existing.Text = note.Text
	existing.Completed = note.Completed
	existing.UpdatedOn = time.Now()
	return nil
}

func (m *mockNoteRepo) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.notes, id)
	return nil
}

func (m *mockNoteRepo) filter(keep func(*model.Note) bool) []*model.Note {
	out := make([]*model.Note, 0, len(m.notes))
	for _, n := range m.notes {
		if keep(n) {
			c := *n
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticket < out[j].Ticket })
	return out
}

// newNoteServices wires both note services over the same repositories
func newNoteServices(users *mockUserRepo, notes *mockNoteRepo) (*NoteQueryService, *NoteMutationService) {
	q := NewNoteQueryService(NoteQueryServiceConfig{NoteRepo: notes, UserRepo: users})
	m := NewNoteMutationService(NoteMutationServiceConfig{NoteRepo: notes, UserRepo: users})
	return q, m
}
