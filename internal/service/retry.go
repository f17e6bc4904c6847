package service

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/pkordes/carrylink/internal/domain"
)

// RetryPolicy bounds the retries applied to idempotent repo reads.
// Writes are never retried here: the match status write relies on its
// compare-and-swap instead.
type RetryPolicy struct {
	// Attempts is the total number of tries, including the first.
	// Zero or one disables retrying.
	Attempts uint64
	// Base is the first backoff delay; each further delay doubles.
	Base time.Duration
}

// DefaultRetryPolicy is three attempts starting at 50ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Base: 50 * time.Millisecond}
}

// permanentErrors are outcomes a retry cannot change.
var permanentErrors = []error{
	domain.ErrNotFound,
	domain.ErrValidation,
	domain.ErrParse,
	domain.ErrDuplicateMatch,
	domain.ErrUnauthorized,
	domain.ErrInvalidTransition,
	domain.ErrConcurrentModification,
	context.Canceled,
	context.DeadlineExceeded,
}

func isPermanent(err error) bool {
	for _, target := range permanentErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// read runs fn under p. Only transient errors (connection resets, pool
// timeouts) are retried; the last error is returned unchanged.
func read[T any](ctx context.Context, p RetryPolicy, fn func(ctx context.Context) (T, error)) (T, error) {
	if p.Attempts <= 1 {
		return fn(ctx)
	}

	backoff := retry.WithMaxRetries(p.Attempts-1, retry.NewExponential(p.Base))
	return retry.DoValue(ctx, backoff, func(ctx context.Context) (T, error) {
		v, err := fn(ctx)
		if err != nil && !isPermanent(err) {
			return v, retry.RetryableError(err)
		}
		return v, err
	})
}
