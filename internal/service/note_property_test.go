package service

import (
	"context"
	"errors"
	"testing"

	"github.com/forgo/notes/api/internal/model"
	"pgregory.net/rapid"
)

// =============================================================================
// Note lifecycle properties, each run against fresh in-memory repositories
// =============================================================================

func titleGen() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Za-z0-9][A-Za-z0-9 ]{0,23}`)
}

func textGen() *rapid.Generator[string] {
	return rapid.StringMatching(`[a-z ]{1,40}`)
}

// Property: a valid create is visible in the owner's listing, incomplete
func TestNotes_CreateThenListForUser_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		users := newMockUserRepo()
		query, mutations := newNoteServices(users, newMockNoteRepo())
		owner := users.add(rapid.StringMatching(`[a-z]{3,12}`).Draw(rt, "username"))
		title := titleGen().Draw(rt, "title")
		text := textGen().Draw(rt, "text")

		if _, err := mutations.Create(ctx, model.CreateNoteRequest{UserID: owner.ID, Title: title, Text: text}); err != nil {
			rt.Fatalf("create failed: %v", err)
		}

		listed, err := query.ListForUser(ctx, owner.ID)
		if err != nil {
			rt.Fatalf("list failed: %v", err)
		}
		found := false
		for _, n := range listed {
			if n.Title == title && n.Text == text && !n.Completed {
				found = true
			}
		}
		if !found {
			rt.Fatalf("created note %q not listed for its owner: %+v", title, listed)
		}
	})
}

// Property: a colliding title is rejected and nothing is added
func TestNotes_DuplicateTitleRejected_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		users := newMockUserRepo()
		notes := newMockNoteRepo()
		_, mutations := newNoteServices(users, notes)
		first := users.add("first")
		second := users.add("second")
		title := titleGen().Draw(rt, "title")

		if _, err := mutations.Create(ctx, model.CreateNoteRequest{UserID: first.ID, Title: title, Text: "a"}); err != nil {
			rt.Fatalf("create failed: %v", err)
		}
		creator := rapid.SampledFrom([]*model.User{first, second}).Draw(rt, "creator")

		_, err := mutations.Create(ctx, model.CreateNoteRequest{
			UserID: creator.ID, Title: title, Text: textGen().Draw(rt, "text"),
		})

		if !errors.Is(err, ErrDuplicateTitle) {
			rt.Fatalf("expected ErrDuplicateTitle, got %v", err)
		}
		if len(notes.notes) != 1 {
			rt.Fatalf("expected 1 note, got %d", len(notes.notes))
		}
	})
}

// Property: only the owner can update; a rejected update changes nothing
func TestNotes_NonOwnerUpdateForbidden_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		users := newMockUserRepo()
		notes := newMockNoteRepo()
		_, mutations := newNoteServices(users, notes)
		owner := users.add("owner")
		other := users.add("other")
		note, err := mutations.Create(ctx, model.CreateNoteRequest{
			UserID: owner.ID, Title: titleGen().Draw(rt, "title"), Text: "a",
		})
		if err != nil {
			rt.Fatalf("create failed: %v", err)
		}
		before := *notes.notes[note.ID]

		_, err = mutations.Update(ctx, model.UpdateNoteRequest{
			UserID:    other.ID,
			NoteID:    note.ID,
			Title:     titleGen().Draw(rt, "new_title"),
			Text:      textGen().Draw(rt, "new_text"),
			Completed: rapid.Bool().Draw(rt, "completed"),
		})

		if !errors.Is(err, ErrNotNoteOwner) {
			rt.Fatalf("expected ErrNotNoteOwner, got %v", err)
		}
		if after := *notes.notes[note.ID]; after != before {
			rt.Fatalf("note changed: before %+v after %+v", before, after)
		}
	})
}

// Property: renaming a note to its own title is never a conflict
func TestNotes_SelfRenameAllowed_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		users := newMockUserRepo()
		_, mutations := newNoteServices(users, newMockNoteRepo())
		owner := users.add("owner")
		title := titleGen().Draw(rt, "title")
		note, err := mutations.Create(ctx, model.CreateNoteRequest{UserID: owner.ID, Title: title, Text: "a"})
		if err != nil {
			rt.Fatalf("create failed: %v", err)
		}

		completed := rapid.Bool().Draw(rt, "completed")
		updated, err := mutations.Update(ctx, model.UpdateNoteRequest{
			UserID: owner.ID, NoteID: note.ID, Title: title, Text: textGen().Draw(rt, "text"), Completed: completed,
		})

		if err != nil {
			rt.Fatalf("self rename failed: %v", err)
		}
		if updated.Completed != completed {
			rt.Fatalf("expected completed=%v, got %v", completed, updated.Completed)
		}
	})
}

// Property: delete of an unknown id is NotFound; delete of a known id removes it
func TestNotes_Delete_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		users := newMockUserRepo()
		notes := newMockNoteRepo()
		_, mutations := newNoteServices(users, notes)
		owner := users.add("owner")

		missing := "note:" + rapid.StringMatching(`zz[a-z0-9]{1,10}`).Draw(rt, "missing")
		if _, err := mutations.Delete(ctx, model.DeleteNoteRequest{ID: missing}); !errors.Is(err, ErrNoteNotFound) {
			rt.Fatalf("expected ErrNoteNotFound for %s, got %v", missing, err)
		}

		note, err := mutations.Create(ctx, model.CreateNoteRequest{
			UserID: owner.ID, Title: titleGen().Draw(rt, "title"), Text: "a",
		})
		if err != nil {
			rt.Fatalf("create failed: %v", err)
		}
		if _, err := mutations.Delete(ctx, model.DeleteNoteRequest{ID: note.ID}); err != nil {
			rt.Fatalf("delete failed: %v", err)
		}
		if got, _ := notes.GetByID(ctx, note.ID); got != nil {
			rt.Fatalf("note %s still present after delete", note.ID)
		}
	})
}

// Property: an empty store has no results; one create yields one enriched note
func TestNotes_ListAllAfterOneCreate_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		users := newMockUserRepo()
		query, mutations := newNoteServices(users, newMockNoteRepo())

		if _, err := query.ListAll(ctx); !errors.Is(err, ErrNoNotes) {
			rt.Fatalf("expected ErrNoNotes on empty store, got %v", err)
		}

		username := rapid.StringMatching(`[a-z]{3,12}`).Draw(rt, "username")
		owner := users.add(username)
		if _, err := mutations.Create(ctx, model.CreateNoteRequest{
			UserID: owner.ID, Title: titleGen().Draw(rt, "title"), Text: "a",
		}); err != nil {
			rt.Fatalf("create failed: %v", err)
		}

		listed, err := query.ListAll(ctx)
		if err != nil {
			rt.Fatalf("list failed: %v", err)
		}
		if len(listed) != 1 || listed[0].Username != username {
			rt.Fatalf("expected one note by %q, got %+v", username, listed)
		}
	})
}
