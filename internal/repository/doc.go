// Package repository implements the data access layer for the Notes API.
//
// Each repository wraps a database.Database and maps SurrealDB records to
// model structs. Ids travel as full record ids ("user:abc", "note:xyz") and
// are bound as record ids pinned to the repository's table, so an id naming
// another table never resolves.
//
// # Conventions
//
//   - Lookups of a single record return (nil, nil) when it does not exist
//     or the id belongs to another table
//   - Unique index violations are reported as database.ErrDuplicate
//   - Note creation runs as one transaction that checks the title, bumps the
//     ticket counter and creates the note, so racing creates cannot both win
//
// # Example Usage
//
//	repo := NewNoteRepository(db)
//	note, err := repo.GetByID(ctx, "note:abc123")
//	if err != nil {
//	    return err
//	}
//	if note == nil {
//	    // no such note
//	}
package repository
