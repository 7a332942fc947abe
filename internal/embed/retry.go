package embed

import (
	"context"
	"math"
	"math/rand"
	"time"

	eixoerrors "github.com/kaio-w-b/EixoAi/internal/errors"
)

// Retry timing constants.
const (
	retryBaseDelay = 500 * time.Millisecond
	retryMaxDelay  = 10 * time.Second
)

// withRetry runs fn up to maxRetries+1 times with exponential backoff and
// jitter. Only retryable errors are retried; the last error is returned.
func withRetry(ctx context.Context, maxRetries int, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !eixoerrors.IsRetryable(lastErr) {
			return lastErr
		}
	}

	return lastErr
}

// backoffDelay computes the delay before the given attempt (1-based),
// doubling each attempt with up to 25% jitter, capped at retryMaxDelay.
func backoffDelay(attempt int) time.Duration {
	delay := float64(retryBaseDelay) * math.Pow(2, float64(attempt-1))
	if delay > float64(retryMaxDelay) {
		delay = float64(retryMaxDelay)
	}
	jitter := delay * 0.25 * rand.Float64()
	return time.Duration(delay + jitter)
}
