package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/notes/api/internal/database"
	"github.com/forgo/notes/api/internal/model"
)

// NoteRepository handles note data access
type NoteRepository struct {
	db database.Database
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db database.Database) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create inserts a note and assigns it the next ticket number. The title
// check, the ticket increment and the insert run as one transaction, so a
// title taken concurrently aborts the whole batch with ErrDuplicate.
func (r *NoteRepository) Create(ctx context.Context, note *model.Note) error {
	owner, ok := recordID("user", note.UserID)
	if !ok {
		return database.ErrNotFound
	}

	tb := database.NewTxBuilder()
	tb.Add(`IF array::len((SELECT id FROM note WHERE title = $title LIMIT 1)) > 0 {
		THROW "duplicate title"
	}`, map[string]interface{}{"title": note.Title})
	tb.Add(`LET $seq = (UPSERT counter:note_ticket SET value = (value ?? $before) + 1 RETURN VALUE value)[0]`,
		map[string]interface{}{"before": model.FirstTicket - 1})
	tb.Add(`CREATE note CONTENT {
		user: $user_id,
		title: $title,
		text: $text,
		completed: false,
		ticket: $seq,
		created_on: time::now(),
		updated_on: time::now()
	}`, map[string]interface{}{
		"user_id": owner,
		"title":   note.Title,
		"text":    note.Text,
	})

	results, err := database.ExecuteTransaction(ctx, r.db, tb)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: note title already exists", database.ErrDuplicate)
		}
		return err
	}

	rec, err := lastRecord(results)
	if err != nil {
		return err
	}
	created := parseNote(rec)

	note.ID = created.ID
	note.Completed = created.Completed
	note.Ticket = created.Ticket
	note.CreatedOn = created.CreatedOn
	note.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a note by ID. A missing note, or an id outside the note
// table, is reported as (nil, nil).
func (r *NoteRepository) GetByID(ctx context.Context, id string) (*model.Note, error) {
	rid, ok := recordID("note", id)
	if !ok {
		return nil, nil
	}
	query := `SELECT * FROM $id`
	vars := map[string]interface{}{"id": rid}

	return r.getOne(ctx, query, vars)
}

// GetByTitle retrieves the note holding an exact title, if any
func (r *NoteRepository) GetByTitle(ctx context.Context, title string) (*model.Note, error) {
	query := `SELECT * FROM note WHERE title = $title LIMIT 1`
	vars := map[string]interface{}{"title": title}

	return r.getOne(ctx, query, vars)
}

// List retrieves every note, oldest ticket first
func (r *NoteRepository) List(ctx context.Context) ([]*model.Note, error) {
	return r.getMany(ctx, `SELECT * FROM note ORDER BY ticket`, nil)
}

// ListByUser retrieves the notes owned by a user, oldest ticket first
func (r *NoteRepository) ListByUser(ctx context.Context, userID string) ([]*model.Note, error) {
	owner, ok := recordID("user", userID)
	if !ok {
		return []*model.Note{}, nil
	}
	query := `SELECT * FROM note WHERE user = $user_id ORDER BY ticket`
	vars := map[string]interface{}{"user_id": owner}

	return r.getMany(ctx, query, vars)
}

// CountByUser counts the notes owned by a user
func (r *NoteRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	owner, ok := recordID("user", userID)
	if !ok {
		return 0, nil
	}
	query := `SELECT count() AS count FROM note WHERE user = $user_id GROUP ALL`
	vars := map[string]interface{}{"user_id": owner}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return extractCount(result), nil
}

// CountOrphaned counts notes whose owning user no longer exists
func (r *NoteRepository) CountOrphaned(ctx context.Context) (int, error) {
	query := `SELECT count() AS count FROM note WHERE user.id IS NONE GROUP ALL`

	result, err := r.db.QueryOne(ctx, query, nil)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return extractCount(result), nil
}

// Update overwrites a note's title, text and completed flag. The owner is
// never changed.
func (r *NoteRepository) Update(ctx context.Context, note *model.Note) error {
	rid, ok := recordID("note", note.ID)
	if !ok {
		return database.ErrNotFound
	}
	query := `
		UPDATE $id SET
			title = $title,
			text = $text,
			completed = $completed,
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":        rid,
		"title":     note.Title,
		"text":      note.Text,
		"completed": note.Completed,
	}

	if err := r.db.Execute(ctx, query, vars); err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: note title already exists", database.ErrDuplicate)
		}
		return err
	}
	return nil
}

// Delete deletes a note
func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	rid, ok := recordID("note", id)
	if !ok {
		return database.ErrNotFound
	}
	query := `DELETE $id`
	vars := map[string]interface{}{"id": rid}

	return r.db.Execute(ctx, query, vars)
}

func (r *NoteRepository) getOne(ctx context.Context, query string, vars map[string]interface{}) (*model.Note, error) {
	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, err := unwrapRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseNote(data), nil
}

func (r *NoteRepository) getMany(ctx context.Context, query string, vars map[string]interface{}) ([]*model.Note, error) {
	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows := extractQueryResults(results)
	notes := make([]*model.Note, 0, len(rows))
	for _, row := range rows {
		if data, ok := row.(map[string]interface{}); ok {
			notes = append(notes, parseNote(data))
		}
	}
	return notes, nil
}

func parseNote(data map[string]interface{}) *model.Note {
	return &model.Note{
		ID:        convertSurrealID(data["id"]),
		UserID:    convertSurrealID(data["user"]),
		Title:     getString(data, "title"),
		Text:      getString(data, "text"),
		Completed: getBool(data, "completed"),
		Ticket:    getInt(data, "ticket"),
		CreatedOn: parseTime(data["created_on"]),
		UpdatedOn: parseTime(data["updated_on"]),
	}
}
