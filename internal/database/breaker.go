package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig holds circuit breaker settings for store access
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32        // Requests allowed through while half-open
	Interval         time.Duration // Closed-state window after which counts reset
	Timeout          time.Duration // Open duration before trying half-open
	FailureThreshold float64       // Failure ratio that trips the breaker
	MinRequests      uint32        // Requests needed before the ratio is evaluated
}

// DefaultBreakerConfig returns breaker settings suitable for a single store connection
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "surrealdb",
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          15 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// Breaker wraps a Database with a circuit breaker. Only connection and query
// faults count as failures; not-found and duplicate results are normal outcomes.
type Breaker struct {
	Database
	cb *gobreaker.CircuitBreaker
}

// NewBreaker wraps db with a circuit breaker
func NewBreaker(db Database, cfg BreakerConfig) *Breaker {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || IsDuplicate(err)
		},
	})

	return &Breaker{Database: db, cb: cb}
}

// State reports the breaker state ("closed", "half-open", "open")
func (b *Breaker) State() string {
	return b.cb.State().String()
}

// Query runs Query through the breaker
func (b *Breaker) Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.Database.Query(ctx, query, vars)
	})
	if err != nil {
		return nil, breakerError(err)
	}
	results, _ := out.([]interface{})
	return results, nil
}

// QueryOne runs QueryOne through the breaker
func (b *Breaker) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.Database.QueryOne(ctx, query, vars)
	})
	if err != nil {
		return nil, breakerError(err)
	}
	return out, nil
}

// Execute runs Execute through the breaker
func (b *Breaker) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.Database.Execute(ctx, query, vars)
	})
	if err != nil {
		return breakerError(err)
	}
	return nil
}

func breakerError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return err
}
