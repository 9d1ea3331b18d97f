package mdview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// RetryPolicy retries a failing operation after a fixed delay. An operation
// runs at most MaxRetries+1 times.
type RetryPolicy struct {
	MaxRetries int
	Delay      time.Duration
}

// Validate checks that p is usable.
func (p RetryPolicy) Validate() error {
	if p.MaxRetries < 0 {
		return fmt.Errorf("max retries must be non-negative, got %d: %w", p.MaxRetries, ErrValidation)
	}
	if p.Delay < 0 {
		return fmt.Errorf("retry delay must be non-negative, got %s: %w", p.Delay, ErrValidation)
	}
	return nil
}

// Do runs fn until it succeeds, the retries are used up, or ctx is done.
// onRetry, if non-nil, is called before each retry with the failure and the
// number of the attempt that failed. Context errors are never retried.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error, onRetry func(err error, attempt int)) error {
	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt > p.MaxRetries || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if onRetry != nil {
			onRetry(err, attempt)
		}
		timer := time.NewTimer(p.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}

// RetryResolver retries failed image fetches of the wrapped resolver.
// Peek and CacheImage pass straight through.
type RetryResolver struct {
	Resolver ImageResolver
	Policy   RetryPolicy
	Logger   *slog.Logger
}

var (
	_ ImageResolver = (*RetryResolver)(nil)
	_ Peeker        = (*RetryResolver)(nil)
)

func (r *RetryResolver) GetImage(ctx context.Context, url string) ([]byte, error) {
	var data []byte
	err := r.Policy.Do(ctx, func(ctx context.Context) error {
		var err error
		data, err = r.Resolver.GetImage(ctx, url)
		return err
	}, func(err error, attempt int) {
		loggerOrDiscard(r.Logger).Warn("image fetch failed, retrying", "url", url, "attempt", attempt, "error", err)
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *RetryResolver) CacheImage(ctx context.Context, url string, data []byte) error {
	return r.Resolver.CacheImage(ctx, url, data)
}

func (r *RetryResolver) Peek(url string) ([]byte, bool) {
	if p, ok := r.Resolver.(Peeker); ok {
		return p.Peek(url)
	}
	return nil, false
}
