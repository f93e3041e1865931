package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/forgo/notes/api/internal/model"
	"golang.org/x/time/rate"
)

// LoginLimitMessage is returned to clients that exceed the login limit
const LoginLimitMessage = "Too many login attempts from this IP, please try again after a 60 second pause"

// ThrottleObserver is told about every rejected attempt
type ThrottleObserver interface {
	LoginThrottled()
}

// LoginLimiterConfig holds login limiter configuration
type LoginLimiterConfig struct {
	Attempts int           // Attempts allowed per window (default 5)
	Window   time.Duration // Window (default 60 seconds)
	Cleanup  time.Duration // Idle limiter sweep interval (default 5 minutes)
	Observer ThrottleObserver
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// LoginLimiter limits login attempts per client IP with a token bucket that
// holds Attempts tokens and refills one every Window/Attempts
type LoginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
	window   time.Duration
	cleanup  time.Duration
	observer ThrottleObserver

	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// NewLoginLimiter creates a login limiter and starts its cleanup goroutine.
// Call Stop when done.
func NewLoginLimiter(cfg LoginLimiterConfig) *LoginLimiter {
	if cfg.Attempts <= 0 {
		cfg.Attempts = 5
	}
	if cfg.Window <= 0 {
		cfg.Window = 60 * time.Second
	}
	if cfg.Cleanup <= 0 {
		cfg.Cleanup = 5 * time.Minute
	}

	ll := &LoginLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Every(cfg.Window / time.Duration(cfg.Attempts)),
		burst:    cfg.Attempts,
		window:   cfg.Window,
		cleanup:  cfg.Cleanup,
		observer: cfg.Observer,
		stopCh:   make(chan struct{}),
	}

	ll.wg.Add(1)
	go ll.cleanupLoop()

	return ll
}

// Stop stops the cleanup goroutine and waits for it to exit
func (ll *LoginLimiter) Stop() {
	ll.once.Do(func() { close(ll.stopCh) })
	ll.wg.Wait()
}

// Reserve takes one attempt for key. When the attempt is refused it returns
// false and how long until the next attempt would be allowed.
func (ll *LoginLimiter) Reserve(key string, now time.Time) (bool, time.Duration) {
	ll.mu.Lock()
	entry, ok := ll.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(ll.limit, ll.burst)}
		ll.limiters[key] = entry
	}
	entry.lastUsed = now
	ll.mu.Unlock()

	if entry.limiter.AllowN(now, 1) {
		return true, 0
	}
	r := entry.limiter.ReserveN(now, 1)
	wait := r.DelayFrom(now)
	r.CancelAt(now)
	return false, wait
}

// Len returns the number of tracked clients
func (ll *LoginLimiter) Len() int {
	ll.mu.Lock()
	defer ll.mu.Unlock()
	return len(ll.limiters)
}

// Sweep drops limiters idle for longer than the window; an idle limiter has
// refilled completely, so dropping it loses nothing
func (ll *LoginLimiter) Sweep(now time.Time) {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	cutoff := now.Add(-ll.window)
	for key, entry := range ll.limiters {
		if entry.lastUsed.Before(cutoff) {
			delete(ll.limiters, key)
		}
	}
}

func (ll *LoginLimiter) cleanupLoop() {
	defer ll.wg.Done()

	ticker := time.NewTicker(ll.cleanup)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			ll.Sweep(now)
		case <-ll.stopCh:
			return
		}
	}
}

// Middleware rejects requests from clients that exhausted their attempts
func (ll *LoginLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		allowed, wait := ll.Reserve(ip, time.Now())
		if !allowed {
			slog.Warn("login attempts throttled",
				slog.String("ip", ip),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("origin", r.Header.Get("Origin")),
				slog.String("request_id", GetRequestID(r.Context())),
			)
			if ll.observer != nil {
				ll.observer.LoginThrottled()
			}

			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			model.NewRateLimitError(LoginLimitMessage).WriteJSON(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP returns the host part of RemoteAddr, which chi's RealIP has
// already rewritten when the server sits behind a proxy
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
