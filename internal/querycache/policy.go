package querycache

import (
	"context"
	"time"

	"github.com/dharmasatrya/farecalendar/internal/fareerr"
)

const (
	DefaultStaleTime  = 5 * time.Minute
	DefaultGCTime     = 30 * time.Minute
	DefaultMaxRetries = 2
	DefaultRetryDelay = time.Second
	maxRetryDelay     = 30 * time.Second

	DefaultSweepInterval = time.Minute
)

// RetryFunc decides whether a failed fetch is issued again. failureCount is
// the number of failures before err.
type RetryFunc func(failureCount int, err error) bool

type Policy struct {
	StaleTime  time.Duration
	GCTime     time.Duration
	Retry      RetryFunc
	RetryDelay time.Duration
}

// RetryTransient retries transient failures up to max times. Validation,
// not-found and permission errors settle on the first failure.
func RetryTransient(max int) RetryFunc {
	return func(failureCount int, err error) bool {
		return fareerr.Retryable(err) && failureCount < max
	}
}

func NoRetry(int, error) bool {
	return false
}

func (p Policy) staleTime() time.Duration {
	if p.StaleTime < 0 {
		return 0
	}
	return p.StaleTime
}

func (p Policy) gcTime() time.Duration {
	if p.GCTime <= 0 {
		return DefaultGCTime
	}
	return p.GCTime
}

func (p Policy) retry() RetryFunc {
	if p.Retry == nil {
		return RetryTransient(DefaultMaxRetries)
	}
	return p.Retry
}

func (p Policy) retryDelay() time.Duration {
	if p.RetryDelay <= 0 {
		return DefaultRetryDelay
	}
	return p.RetryDelay
}

type Fetcher func(ctx context.Context) (any, error)

// Query is one request for a key. A query that is not Enabled never reaches
// the network; Reason explains why it was disabled.
type Query struct {
	Key     Key
	Fetch   Fetcher
	Policy  Policy
	Enabled bool
	Reason  error
}
