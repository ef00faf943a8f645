package sdp

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Reventlow/glass/internal/domain"
)

const (
	// maxRetryAttempts bounds the total number of attempts, including
	// the first one. Write operations share the same bound; callers
	// must treat every operation as safe to repeat under
	// transient-failure classification.
	maxRetryAttempts = 3

	// initialBackoff seeds the exponential delay used between
	// rate-limited attempts without a server hint.
	initialBackoff = 100 * time.Millisecond
)

// withRetry runs fn up to maxRetryAttempts times, sleeping between
// attempts when the error is retryable. Rate-limited errors use the
// server-suggested delay when present, otherwise an exponential delay
// starting at initialBackoff that doubles after each rate-limited
// attempt. Service unavailability and timeouts use their fixed hints.
// Non-retryable errors return immediately. Sleeps respect ctx.
func withRetry[T any](ctx context.Context, c *Client, operation string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	delay := initialBackoff

	for attempt := 1; ; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}

		var gerr *domain.Error
		if !errors.As(err, &gerr) || !gerr.IsRetryable() || attempt >= maxRetryAttempts {
			if attempt > 1 {
				c.logger.Debug("all retry attempts exhausted",
					slog.String("operation", operation),
					slog.Int("attempts", attempt),
				)
			}
			return zero, err
		}

		wait := delay
		if gerr.IsRateLimit() {
			if hint, ok := gerr.RetryDelay(); ok {
				wait = hint
			}
		} else if gerr.Kind == domain.KindServiceUnavailable {
			hint, _ := gerr.RetryDelay()
			wait = hint
		}

		c.logger.Debug("retrying after transient error",
			slog.String("operation", operation),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", maxRetryAttempts),
			slog.Duration("delay", wait),
			slog.String("error", gerr.Sanitized(c.apiKey)),
		)

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(wait):
		}

		if gerr.IsRateLimit() {
			delay *= 2
		}
	}
}
