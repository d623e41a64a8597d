// Package retry provides a small configurable retry policy with
// exponential backoff, applied uniformly to outbound calls (page
// fetches, generative-text invocations) instead of bespoke per-site
// retry loops.
package retry

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Config controls retry behavior.
type Config struct {
	// MaxAttempts is the total number of attempts including the first
	// try. A value of 1 means no retries.
	MaxAttempts int

	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration

	// Multiplier scales the delay after each attempt.
	Multiplier float64

	// Jitter adds random jitter as a fraction of the computed delay
	// (0 = none, 0.5 = ±50%).
	Jitter float64
}

// Default returns the policy used for generative-text calls.
func Default() Config {
	return Config{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		Multiplier:  2.0,
		Jitter:      0.25,
	}
}

// None performs a single attempt. Page fetches default to this: a path
// that fails to load is skipped, not hammered.
func None() Config {
	return Config{MaxAttempts: 1}
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 1
	}

	if c.BaseDelay <= 0 {
		c.BaseDelay = 500 * time.Millisecond
	}

	if c.Multiplier <= 0 {
		c.Multiplier = 2.0
	}

	if c.Jitter < 0 {
		c.Jitter = 0
	}

	return c
}

// Do executes fn until it succeeds or the attempt budget is spent.
// Context cancellation stops retries immediately.
func Do(ctx context.Context, cfg Config, op string, fn func(ctx context.Context) error) error {
	_, err := DoVal(ctx, cfg, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})

	return err
}

// DoVal is Do for functions that return a value.
func DoVal[T any](ctx context.Context, cfg Config, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	cfg = cfg.withDefaults()

	var (
		zero    T
		lastErr error
	)

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}

		lastErr = err

		if ctx.Err() != nil {
			return zero, lastErr
		}

		if attempt >= cfg.MaxAttempts-1 {
			break
		}

		zap.L().Warn("retrying operation",
			zap.String("operation", op),
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr),
		)

		timer := time.NewTimer(backoff(attempt, cfg))
		select {
		case <-ctx.Done():
			timer.Stop()

			return zero, lastErr
		case <-timer.C:
		}
	}

	return zero, lastErr
}

func backoff(attempt int, cfg Config) time.Duration {
	delay := float64(cfg.BaseDelay) * math.Pow(cfg.Multiplier, float64(attempt))

	if cfg.Jitter > 0 {
		jitterRange := delay * cfg.Jitter
		delay += (rand.Float64()*2 - 1) * jitterRange
	}

	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay)
}
