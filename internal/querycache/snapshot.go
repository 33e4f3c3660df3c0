package querycache

import (
	"context"
	"time"
)

type State int

const (
	StateDisabled State = iota
	StatePending
	StateFresh
	StateStale
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StatePending:
		return "pending"
	case StateFresh:
		return "fresh"
	case StateStale:
		return "stale"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only view of an entry at the time it was taken. Value
// holds the last known value even while a refetch is pending.
type Snapshot struct {
	Key       Key
	State     State
	Value     any
	Err       error
	FetchedAt time.Time
	IsLoading bool
	Hit       bool

	flight *flight
}

func (s Snapshot) HasValue() bool {
	return s.Value != nil
}

// Wait blocks until the request observed by the snapshot settles and returns
// its outcome. Snapshots without an in-flight request return immediately.
func (s Snapshot) Wait(ctx context.Context) (any, error) {
	if s.flight == nil {
		return s.Value, s.Err
	}

	select {
	case <-s.flight.done:
		return s.flight.value, s.flight.err
	case <-ctx.Done():
		return s.Value, ctx.Err()
	}
}

type flight struct {
	seq   uint64
	done  chan struct{}
	value any
	err   error
}
