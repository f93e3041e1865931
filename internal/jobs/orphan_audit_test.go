package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeCounter struct {
	mu    sync.Mutex
	n     int
	err   error
	calls int
}

func (f *fakeCounter) CountOrphaned(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.n, f.err
}

func (f *fakeCounter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeRecorder struct {
	mu   sync.Mutex
	last int
	sets int
}

func (f *fakeRecorder) SetOrphanedNotes(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = n
	f.sets++
}

func (f *fakeRecorder) snapshot() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last, f.sets
}

func TestOrphanAudit_RunOnceRecordsCount(t *testing.T) {
	counter := &fakeCounter{n: 3}
	recorder := &fakeRecorder{}
	audit := NewOrphanAudit(counter, recorder, time.Minute)

	require.NoError(t, audit.RunOnce(context.Background()))

	last, sets := recorder.snapshot()
	assert.Equal(t, 3, last)
	assert.Equal(t, 1, sets)
}

func TestOrphanAudit_RunOnceKeepsPreviousOnError(t *testing.T) {
	counter := &fakeCounter{n: 2}
	recorder := &fakeRecorder{}
	audit := NewOrphanAudit(counter, recorder, time.Minute)
	require.NoError(t, audit.RunOnce(context.Background()))

	counter.mu.Lock()
	counter.err = errors.New("store down")
	counter.mu.Unlock()

	err := audit.RunOnce(context.Background())

	assert.Error(t, err)
	last, sets := recorder.snapshot()
	assert.Equal(t, 2, last)
	assert.Equal(t, 1, sets)
}

func TestOrphanAudit_StartRunsImmediatelyAndStops(t *testing.T) {
	counter := &fakeCounter{}
	recorder := &fakeRecorder{}
	audit := NewOrphanAudit(counter, recorder, 10*time.Millisecond)

	audit.Start()
	audit.Start()
	assert.True(t, audit.IsRunning())

	assert.Eventually(t, func() bool { return counter.callCount() >= 2 }, time.Second, 5*time.Millisecond)

	audit.Stop()
	audit.Stop()
	assert.False(t, audit.IsRunning())

	calls := counter.callCount()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, counter.callCount(), "no audits after Stop")
}

func TestOrphanAudit_StopWithoutStart(t *testing.T) {
	audit := NewOrphanAudit(&fakeCounter{}, &fakeRecorder{}, 0)

	audit.Stop()

	assert.False(t, audit.IsRunning())
	assert.Equal(t, 10*time.Minute, audit.interval)
}
