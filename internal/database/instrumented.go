package database

import (
	"context"
	"time"
)

// Observer receives one call per store operation
type Observer interface {
	ObserveQuery(operation string, duration time.Duration, err error)
}

// Instrumented wraps a Database and reports each operation to an Observer
type Instrumented struct {
	Database
	obs Observer
}

// NewInstrumented wraps db so every operation is reported to obs
func NewInstrumented(db Database, obs Observer) *Instrumented {
	return &Instrumented{Database: db, obs: obs}
}

// Query reports and forwards Query
func (i *Instrumented) Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	start := time.Now()
	results, err := i.Database.Query(ctx, query, vars)
	i.obs.ObserveQuery("query", time.Since(start), err)
	return results, err
}

// QueryOne reports and forwards QueryOne
func (i *Instrumented) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	start := time.Now()
	result, err := i.Database.QueryOne(ctx, query, vars)
	i.obs.ObserveQuery("query_one", time.Since(start), err)
	return result, err
}

// Execute reports and forwards Execute
func (i *Instrumented) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	start := time.Now()
	err := i.Database.Execute(ctx, query, vars)
	i.obs.ObserveQuery("execute", time.Since(start), err)
	return err
}
