// Package database provides database connectivity for the Notes API.
//
// The database package abstracts SurrealDB operations and provides
// a consistent interface for data access across the application.
//
// # Connection Management
//
// Connect to SurrealDB and make sure the schema exists:
//
//	db := database.NewSurrealDB(database.Config{
//	    Host:      "localhost",
//	    Port:      "8000",
//	    Namespace: "notes",
//	    Database:  "main",
//	    User:      "root",
//	    Password:  "secret",
//	})
//	if err := db.Connect(ctx); err != nil { ... }
//	if err := database.ApplySchema(ctx, db); err != nil { ... }
//
// # Decorators
//
// A Database can be wrapped without changing call sites:
//
//   - NewBreaker: fails fast with ErrConnection while the store keeps failing
//   - NewInstrumented: reports every operation to an Observer (metrics)
package database
