package querycache

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	"mcommerce/internal/core/domain"
	"mcommerce/internal/metrics"
)

// RetryPolicy bounds how often a failing fetch is attempted.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Transient reports whether err is worth retrying. Only store failures are;
// missing rows, permission and validation errors never change on retry.
func Transient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return domain.KindOf(err) == domain.KindStore
}

func retry[T any](ctx context.Context, p RetryPolicy, m *metrics.Metrics, fetch func(ctx context.Context) (T, error)) (T, error) {
	if p.MaxAttempts <= 1 {
		return fetch(ctx)
	}
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	op := func() (T, error) {
		v, err := fetch(ctx)
		if err != nil && !Transient(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}
	v, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(p.MaxAttempts)),
		backoff.WithNotify(func(error, time.Duration) { m.CacheRetry() }),
	)
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Unwrap()
	}
	return v, err
}
