// Package retry runs an operation with exponential backoff. Optional backends
// use it to ride out slow container start-up.
package retry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrMaxAttemptsExceeded wraps the last error once attempts run out.
	ErrMaxAttemptsExceeded = errors.New("max retry attempts exceeded")
	// ErrContextCancelled is returned when ctx ends between attempts.
	ErrContextCancelled = errors.New("context cancelled during retry")
)

// Config controls the backoff. Zero fields take the DefaultConfig values.
type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	IsRetryable  func(error) bool
}

// DefaultConfig is three attempts starting at 100ms.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		IsRetryable:  IsTransient,
	}
}

var transientMarkers = []string{
	"timeout",
	"deadline exceeded",
	"connection refused",
	"connection reset",
	"no such host",
	"temporary failure",
	"network is unreachable",
	"eof",
}

// IsTransient reports whether err looks like a network hiccup.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, m := range transientMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = d.InitialDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = d.MaxDelay
	}
	if c.Multiplier <= 0 {
		c.Multiplier = d.Multiplier
	}
	if c.IsRetryable == nil {
		c.IsRetryable = d.IsRetryable
	}
	return c
}

// Do calls fn until it succeeds, returns a non-retryable error, or the
// attempts are used up.
func Do(ctx context.Context, cfg Config, fn func(context.Context) error) error {
	cfg = cfg.withDefaults()

	var lastErr error
	delay := cfg.InitialDelay
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", ErrContextCancelled, ctx.Err())
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !cfg.IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w: %w", ErrContextCancelled, ctx.Err())
		case <-timer.C:
		}

		delay = min(time.Duration(float64(delay)*cfg.Multiplier), cfg.MaxDelay)
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrMaxAttemptsExceeded, cfg.MaxAttempts, lastErr)
}
