// Package retry wraps a single fallible call with bounded attempts and
// exponential backoff. The wrapper is agnostic to what the call does: it
// never inspects or transforms the payload, and it reports exhaustion as an
// error value rather than panicking past its boundary.
package retry

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Config tunes the attempt budget and backoff schedule.
type Config struct {
	// MaxAttempts is the total number of attempts. Values below 1 mean a
	// single attempt.
	MaxAttempts int
	// InitialWait is the delay after the first failed attempt. Each
	// subsequent delay doubles. No jitter is applied.
	InitialWait time.Duration
	// Sleep replaces time.Sleep, for tests. Nil uses time.Sleep.
	Sleep func(time.Duration)
}

// Op is the call under retry.
type Op[T any] func(ctx context.Context) (T, error)

// Do runs op up to cfg.MaxAttempts times, sequentially. The first attempt
// executes immediately; after each failure with attempts remaining, Do
// blocks for InitialWait * 2^(failures-1) before trying again. The first
// successful attempt returns immediately. After the final failure the last
// error is returned, wrapped with the operation label and attempt count.
//
// Context cancellation is honored between attempts, not during an in-flight
// call or backoff wait.
func Do[T any](ctx context.Context, cfg Config, logger *zap.Logger, label string, op Op[T]) (T, error) {
	var zero T
	if logger == nil {
		logger = zap.NewNop()
	}
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("%s canceled before attempt %d: %w", label, attempt, err)
		}

		logger.Debug("invoking",
			zap.String("op", label),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts))

		result, err := op(ctx)
		if err == nil {
			if attempt > 1 {
				logger.Info("succeeded after retry",
					zap.String("op", label),
					zap.Int("attempt", attempt))
			}
			return result, nil
		}
		lastErr = err

		if attempt == attempts {
			break
		}

		wait := cfg.InitialWait << (attempt - 1)
		logger.Warn("attempt failed, backing off",
			zap.String("op", label),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))
		sleep(wait)
	}

	return zero, fmt.Errorf("%s failed after %d attempts: %w", label, attempts, lastErr)
}
