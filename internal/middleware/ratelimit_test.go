package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type countingObserver struct{ n atomic.Int32 }

func (c *countingObserver) LoginThrottled() { c.n.Add(1) }

func TestLoginLimiter_AllowsAttemptsThenRefuses(t *testing.T) {
	t.Parallel()
	ll := NewLoginLimiter(LoginLimiterConfig{Attempts: 5, Window: time.Minute})
	defer ll.Stop()
	now := time.Now()

	for i := 0; i < 5; i++ {
		if ok, _ := ll.Reserve("10.0.0.1", now); !ok {
			t.Fatalf("attempt %d refused", i+1)
		}
	}

	ok, wait := ll.Reserve("10.0.0.1", now)
	if ok {
		t.Fatal("expected sixth attempt to be refused")
	}
	if wait <= 0 || wait > 13*time.Second {
		t.Errorf("expected wait in (0, 13s], got %v", wait)
	}
}

func TestLoginLimiter_RefillsOverWindow(t *testing.T) {
	t.Parallel()
	ll := NewLoginLimiter(LoginLimiterConfig{Attempts: 5, Window: time.Minute})
	defer ll.Stop()
	now := time.Now()

	for i := 0; i < 5; i++ {
		ll.Reserve("10.0.0.1", now)
	}

	if ok, _ := ll.Reserve("10.0.0.1", now.Add(13*time.Second)); !ok {
		t.Error("expected one attempt to be restored after window/attempts")
	}
}

func TestLoginLimiter_IsPerClient(t *testing.T) {
	t.Parallel()
	ll := NewLoginLimiter(LoginLimiterConfig{Attempts: 1, Window: time.Minute})
	defer ll.Stop()
	now := time.Now()

	ll.Reserve("10.0.0.1", now)

	if ok, _ := ll.Reserve("10.0.0.2", now); !ok {
		t.Error("expected a different client to be unaffected")
	}
}

func TestLoginLimiter_SweepDropsIdleClients(t *testing.T) {
	t.Parallel()
	ll := NewLoginLimiter(LoginLimiterConfig{Attempts: 5, Window: time.Minute})
	defer ll.Stop()
	now := time.Now()

	ll.Reserve("old", now.Add(-2*time.Minute))
	ll.Reserve("fresh", now)
	ll.Sweep(now)

	if ll.Len() != 1 {
		t.Errorf("expected 1 tracked client after sweep, got %d", ll.Len())
	}
}

func TestLoginLimiter_StopIsIdempotent(t *testing.T) {
	t.Parallel()
	ll := NewLoginLimiter(LoginLimiterConfig{})

	ll.Stop()
	ll.Stop()
}

func TestLoginLimiter_Middleware_Returns429WithMessage(t *testing.T) {
	t.Parallel()
	obs := &countingObserver{}
	ll := NewLoginLimiter(LoginLimiterConfig{Attempts: 2, Window: time.Minute, Observer: obs})
	defer ll.Stop()

	handler := ll.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth", nil)
		req.RemoteAddr = "192.0.2.7:5555"
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", last.Code)
	}
	if !strings.Contains(last.Body.String(), LoginLimitMessage) {
		t.Errorf("expected limit message in body, got %s", last.Body.String())
	}
	if last.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
	if obs.n.Load() != 1 {
		t.Errorf("expected 1 throttle observation, got %d", obs.n.Load())
	}
}

func TestClientIP_StripsPort(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.4:1234"

	if got := clientIP(req); got != "198.51.100.4" {
		t.Errorf("expected 198.51.100.4, got %s", got)
	}
}
