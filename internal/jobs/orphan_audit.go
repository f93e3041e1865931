package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// OrphanCounter counts notes whose owner no longer exists
type OrphanCounter interface {
	CountOrphaned(ctx context.Context) (int, error)
}

// OrphanRecorder receives the result of each audit
type OrphanRecorder interface {
	SetOrphanedNotes(n int)
}

// OrphanAudit periodically counts notes left behind by deleted users.
// Those notes are listed under a placeholder username; the count lets an
// operator notice them.
type OrphanAudit struct {
	notes    OrphanCounter
	recorder OrphanRecorder
	interval time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// NewOrphanAudit creates the audit job
func NewOrphanAudit(notes OrphanCounter, recorder OrphanRecorder, interval time.Duration) *OrphanAudit {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &OrphanAudit{
		notes:    notes,
		recorder: recorder,
		interval: interval,
		timeout:  30 * time.Second,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the audit loop. Calling Start on a running audit does nothing.
func (a *OrphanAudit) Start() {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return
	}
	a.running = true
	a.mu.Unlock()

	a.wg.Add(1)
	go a.run()
	slog.Info("orphan audit started", slog.Duration("interval", a.interval))
}

// Stop ends the audit loop and waits for it to exit
func (a *OrphanAudit) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	a.running = false
	a.mu.Unlock()

	close(a.stopCh)
	a.wg.Wait()
	slog.Info("orphan audit stopped")
}

func (a *OrphanAudit) run() {
	defer a.wg.Done()

	a.audit()

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.audit()
		case <-a.stopCh:
			return
		}
	}
}

func (a *OrphanAudit) audit() {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	if err := a.RunOnce(ctx); err != nil {
		slog.Error("orphan audit failed", slog.String("error", err.Error()))
	}
}

// RunOnce counts orphaned notes once and records the result.
// On error the previous result is left in place.
func (a *OrphanAudit) RunOnce(ctx context.Context) error {
	n, err := a.notes.CountOrphaned(ctx)
	if err != nil {
		return err
	}
	a.recorder.SetOrphanedNotes(n)
	if n > 0 {
		slog.Warn("notes without an owner", slog.Int("count", n))
	}
	return nil
}

// IsRunning reports whether the audit loop is running
func (a *OrphanAudit) IsRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}
