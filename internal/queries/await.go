package queries

import (
	"context"
	"errors"
	"fmt"

	"github.com/dharmasatrya/farecalendar/internal/fareerr"
	"github.com/dharmasatrya/farecalendar/internal/querycache"
)

// Await waits for the request observed by snap and returns its value as T.
func Await[T any](ctx context.Context, snap querycache.Snapshot) (T, error) {
	var zero T

	v, err := snap.Wait(ctx)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("query %s: unexpected value type %T", snap.Key, v)
	}
	return t, nil
}

// Value returns the last known value held by snap, if any.
func Value[T any](snap querycache.Snapshot) (T, bool) {
	t, ok := snap.Value.(T)
	return t, ok
}

// fetch adapts a typed source call to a cache fetcher. Errors the source did
// not classify are reported as transient.
func fetch[T any](fn func(ctx context.Context) (T, error)) querycache.Fetcher {
	return func(ctx context.Context) (any, error) {
		v, err := fn(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil, err
			}
			return nil, fareerr.Wrap(err)
		}
		return v, nil
	}
}

func isPermission(err error) bool {
	return fareerr.KindOf(err) == fareerr.KindPermission
}

func query(key querycache.Key, policy querycache.Policy, reason error, fetcher querycache.Fetcher) querycache.Query {
	return querycache.Query{
		Key:     key,
		Fetch:   fetcher,
		Policy:  policy,
		Enabled: reason == nil,
		Reason:  reason,
	}
}
