package apiclient

import (
	"context"
	"time"
)

const (
	ProductsTTL    = 3 * time.Minute
	AdminOrdersTTL = time.Minute
)

// CachePolicy says whether a GET may be answered from the shared cache and
// for how long a fresh answer stays valid.
type CachePolicy struct {
	ttl time.Duration
}

func ServerCache(ttl time.Duration) CachePolicy {
	return CachePolicy{ttl: ttl}
}

func NoCache() CachePolicy {
	return CachePolicy{}
}

func (p CachePolicy) TTL() time.Duration {
	return p.ttl
}

func (p CachePolicy) Cached() bool {
	return p.ttl > 0
}

// RetryPolicy bounds how often a transient failure (transport error or 5xx)
// is retried. MaxAttempts counts the first try.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
}

// DefaultRetryPolicy is three attempts with 1s then 2s between them.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Backoff: LinearBackoff(time.Second)}
}

// NoRetry makes every failure final.
func NoRetry() RetryPolicy {
	return RetryPolicy{MaxAttempts: 1, Backoff: LinearBackoff(0)}
}

// LinearBackoff waits attempt*step after the given failed attempt.
func LinearBackoff(step time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * step
	}
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	if p.Backoff == nil {
		return 0
	}
	return p.Backoff(attempt)
}

// Sleeper waits between attempts. Tests swap in a recorder.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
