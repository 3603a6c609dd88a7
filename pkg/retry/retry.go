// Package retry repeats a fallible call with backoff. It is used at boot to
// wait for the catalog store and redis; request paths never retry.
package retry

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

const defaultDelay = 100 * time.Millisecond

// Backoff returns the wait after the given 1-based attempt.
type Backoff func(attempt int) time.Duration

type ShouldRetry func(error) bool

type Config struct {
	MaxAttempts int
	Backoff     Backoff
	ShouldRetry ShouldRetry
	// OnRetry is called before each wait.
	OnRetry func(attempt int, wait time.Duration, err error)
}

func (c *Config) normalize() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 1
	}
	if c.Backoff == nil {
		c.Backoff = Exponential(defaultDelay, 0)
	}
	if c.ShouldRetry == nil {
		c.ShouldRetry = func(error) bool { return true }
	}
}

// Exponential doubles delay per attempt with up to 50% jitter, capped at max
// when max is positive.
func Exponential(delay, max time.Duration) Backoff {
	return func(attempt int) time.Duration {
		base := delay << (attempt - 1)
		if max > 0 && (base > max || base <= 0) {
			base = max
		}
		if base <= 0 {
			base = delay
		}
		return base + time.Duration(rand.Int64N(int64(base/2)+1))
	}
}

func Constant(delay time.Duration) Backoff {
	return func(int) time.Duration { return delay }
}

func Do(ctx context.Context, c Config, fn func(ctx context.Context) error) error {
	_, err := DoWithResult(ctx, c, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// DoWithResult calls fn until it succeeds, returns a non-retryable error,
// exhausts MaxAttempts or ctx ends. The last error is returned.
func DoWithResult[T any](ctx context.Context, c Config, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	c.normalize()

	var err error
	for attempt := 1; ; attempt++ {
		var result T
		result, err = fn(ctx)
		if err == nil {
			return result, nil
		}
		if !c.ShouldRetry(err) || attempt >= c.MaxAttempts {
			return zero, err
		}

		wait := c.Backoff(attempt)
		if c.OnRetry != nil {
			c.OnRetry(attempt, wait, err)
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, fmt.Errorf("%w: %w", ctx.Err(), err)
		case <-timer.C:
		}
	}
}
