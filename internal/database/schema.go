package database

import (
	"context"
	_ "embed"
	"fmt"
)

// Schema holds the table, field and index definitions for the notes store.
// The unique index on note.title backs the title-uniqueness rule at the store
// level, so a create that races past the service check still fails.
//
//go:embed schema.surql
var Schema string

// ApplySchema defines tables and indexes if they do not exist yet.
func ApplySchema(ctx context.Context, db Database) error {
	if err := db.Execute(ctx, Schema, nil); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}
