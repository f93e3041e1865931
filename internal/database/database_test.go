package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDB is an in-memory Database whose every call returns err
type fakeDB struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeDB) Connect(ctx context.Context) error { return nil }
func (f *fakeDB) Close() error                      { return nil }
func (f *fakeDB) Ping(ctx context.Context) error    { return f.err }

func (f *fakeDB) Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []interface{}{map[string]interface{}{"status": "OK", "result": []interface{}{}}}, nil
}

func (f *fakeDB) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	results, err := f.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return firstRecord(results)
}

func (f *fakeDB) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	_, err := f.Query(ctx, query, vars)
	return err
}

func (f *fakeDB) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// ============================================================================
// TxBuilder
// ============================================================================

func TestTxBuilder_Empty(t *testing.T) {
	tb := NewTxBuilder()

	query, vars := tb.Build()

	assert.Empty(t, query)
	assert.Nil(t, vars)
	assert.Equal(t, 0, tb.Len())
}

func TestTxBuilder_NamespacesVariables(t *testing.T) {
	tb := NewTxBuilder()

	first := tb.Add(`IF $title != NONE { THROW "duplicate" }`, map[string]interface{}{"title": "a"})
	second := tb.Add(`CREATE note SET title = $title, title_lower = $title_lower`, map[string]interface{}{
		"title":       "b",
		"title_lower": "b",
	})
	tb.AddRaw("RETURN 1")

	query, vars := tb.Build()

	require.Equal(t, 3, tb.Len())
	assert.True(t, strings.HasPrefix(query, "BEGIN TRANSACTION;\n"))
	assert.True(t, strings.HasSuffix(query, "COMMIT TRANSACTION;"))
	assert.NotEqual(t, first["title"], second["title"])
	assert.Equal(t, "a", vars[first["title"]])
	assert.Equal(t, "b", vars[second["title"]])
	assert.Equal(t, "b", vars[second["title_lower"]])
	assert.Contains(t, query, "$"+second["title_lower"])
	assert.NotContains(t, query, "$title ")
	assert.Contains(t, query, "RETURN 1;")
}

func TestExecuteTransaction(t *testing.T) {
	db := &fakeDB{}

	results, err := ExecuteTransaction(context.Background(), db, NewTxBuilder())
	require.NoError(t, err)
	assert.Nil(t, results)
	assert.Equal(t, 0, db.callCount())

	tb := NewTxBuilder()
	tb.AddRaw("DELETE note")
	_, err = ExecuteTransaction(context.Background(), db, tb)
	require.NoError(t, err)
	assert.Equal(t, 1, db.callCount())
}

// ============================================================================
// firstRecord
// ============================================================================

func TestFirstRecord(t *testing.T) {
	_, err := firstRecord(nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = firstRecord([]interface{}{map[string]interface{}{"status": "OK", "result": []interface{}{}}})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = firstRecord([]interface{}{map[string]interface{}{"status": "OK", "result": nil}})
	assert.ErrorIs(t, err, ErrNotFound)

	rec, err := firstRecord([]interface{}{map[string]interface{}{
		"status": "OK",
		"result": []interface{}{map[string]interface{}{"title": "x"}},
	}})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"title": "x"}, rec)

	scalar, err := firstRecord([]interface{}{map[string]interface{}{"status": "OK", "result": float64(3)}})
	require.NoError(t, err)
	assert.Equal(t, float64(3), scalar)
}

func TestSchemaDefinesUniqueIndexes(t *testing.T) {
	assert.Contains(t, Schema, "note_title_unique ON TABLE note FIELDS title UNIQUE")
	assert.Contains(t, Schema, "user_username_unique ON TABLE user FIELDS username_lower UNIQUE")
}

func TestApplySchemaWrapsError(t *testing.T) {
	db := &fakeDB{err: ErrConnection}

	err := ApplySchema(context.Background(), db)

	assert.ErrorIs(t, err, ErrConnection)
	assert.Contains(t, err.Error(), "applying schema")
}

// ============================================================================
// Breaker
// ============================================================================

func testBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "test",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.5,
		MinRequests:      2,
	}
}

func TestBreaker_TripsOnFaults(t *testing.T) {
	inner := &fakeDB{err: errors.New("connection reset")}
	b := NewBreaker(inner, testBreakerConfig())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := b.Query(ctx, "SELECT * FROM note", nil)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrConnection)
	}
	assert.Equal(t, "open", b.State())

	err := b.Execute(ctx, "DELETE note", nil)
	assert.ErrorIs(t, err, ErrConnection)
	_, err = b.QueryOne(ctx, "SELECT * FROM note", nil)
	assert.ErrorIs(t, err, ErrConnection)
	assert.Equal(t, 2, inner.callCount(), "open breaker must not reach the store")
}

func TestBreaker_NormalOutcomesDoNotTrip(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"not found", ErrNotFound},
		{"classified duplicate", queryError("Database index `note_title_unique` already contains 'Printer'")},
		{"duplicate throw", queryError("An error occurred: duplicate title")},
		{"unclassified duplicate", fmt.Errorf("%w: An error occurred: duplicate title", ErrQuery)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := &fakeDB{err: tt.err}
			b := NewBreaker(inner, testBreakerConfig())

			for i := 0; i < 5; i++ {
				_, err := b.Query(context.Background(), "CREATE note", nil)
				assert.ErrorIs(t, err, tt.err)
			}

			assert.Equal(t, "closed", b.State())
			assert.Equal(t, 5, inner.callCount())
		})
	}
}

func TestQueryError_ClassifiesDuplicates(t *testing.T) {
	dup := queryError("Database index `note_title_unique` already contains 'Printer'")
	assert.ErrorIs(t, dup, ErrQuery)
	assert.ErrorIs(t, dup, ErrDuplicate)
	assert.Contains(t, dup.Error(), "note_title_unique")

	other := queryError("Parse error: unexpected token")
	assert.ErrorIs(t, other, ErrQuery)
	assert.NotErrorIs(t, other, ErrDuplicate)
}

func TestIsDuplicate(t *testing.T) {
	assert.True(t, IsDuplicate(ErrDuplicate))
	assert.True(t, IsDuplicate(fmt.Errorf("%w: duplicate title", ErrQuery)))
	assert.False(t, IsDuplicate(nil))
	assert.False(t, IsDuplicate(fmt.Errorf("%w: Parse error", ErrQuery)))
	assert.False(t, IsDuplicate(fmt.Errorf("%w: unique socket closed", ErrConnection)))
}

func TestBreaker_PassesResults(t *testing.T) {
	b := NewBreaker(&fakeDB{}, DefaultBreakerConfig())

	results, err := b.Query(context.Background(), "SELECT * FROM note", nil)

	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "closed", b.State())
}

// ============================================================================
// Instrumented
// ============================================================================

type recordingObserver struct {
	ops  []string
	errs []error
}

func (r *recordingObserver) ObserveQuery(operation string, duration time.Duration, err error) {
	r.ops = append(r.ops, operation)
	r.errs = append(r.errs, err)
}

func TestInstrumented_ReportsEachOperation(t *testing.T) {
	inner := &fakeDB{}
	obs := &recordingObserver{}
	db := NewInstrumented(inner, obs)
	ctx := context.Background()

	_, _ = db.Query(ctx, "SELECT * FROM note", nil)
	_, _ = db.QueryOne(ctx, "SELECT * FROM note", nil)
	_ = db.Execute(ctx, "DELETE note", nil)

	assert.Equal(t, []string{"query", "query_one", "execute"}, obs.ops)
	assert.NoError(t, obs.errs[0])
	assert.ErrorIs(t, obs.errs[1], ErrNotFound)
	assert.NoError(t, obs.errs[2])
}

func TestInstrumented_ForwardsErrors(t *testing.T) {
	obs := &recordingObserver{}
	db := NewInstrumented(&fakeDB{err: ErrQuery}, obs)

	err := db.Execute(context.Background(), "DELETE note", nil)

	assert.ErrorIs(t, err, ErrQuery)
	require.Len(t, obs.errs, 1)
	assert.ErrorIs(t, obs.errs[0], ErrQuery)
}

func TestSurrealDB_NotConnected(t *testing.T) {
	db := NewSurrealDB(Config{Host: "localhost", Port: "8000"})

	assert.ErrorIs(t, db.Ping(context.Background()), ErrConnection)
	_, err := db.Query(context.Background(), "SELECT * FROM note", nil)
	assert.ErrorIs(t, err, ErrConnection)
}
