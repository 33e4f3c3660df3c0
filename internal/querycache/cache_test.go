package querycache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/farecalendar/internal/fareerr"
	"github.com/dharmasatrya/farecalendar/internal/querycache"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newCache(t *testing.T, opts ...querycache.Option) *querycache.Cache {
	t.Helper()
	c := querycache.New(opts...)
	t.Cleanup(c.Close)
	return c
}

func counting(calls *int32, value any) querycache.Fetcher {
	return func(context.Context) (any, error) {
		atomic.AddInt32(calls, 1)
		return value, nil
	}
}

var testPolicy = querycache.Policy{
	StaleTime:  5 * time.Minute,
	GCTime:     15 * time.Minute,
	RetryDelay: time.Millisecond,
}

func TestConcurrentResolvesShareOneFetch(t *testing.T) {
	c := newCache(t)

	var calls int32
	release := make(chan struct{})
	q := querycache.Query{
		Key:     querycache.Key{"fares", "cheapest-per-day", "DUB", "BCN", "2024-03-10", "EUR"},
		Enabled: true,
		Policy:  testPolicy,
		Fetch: func(context.Context) (any, error) {
			atomic.AddInt32(&calls, 1)
			<-release
			return "fares", nil
		},
	}

	var wg sync.WaitGroup
	results := make([]any, 10)
	for i := range results {
		snap := c.Resolve(q)
		assert.Equal(t, querycache.StatePending, snap.State)
		assert.True(t, snap.IsLoading)

		wg.Add(1)
		go func(i int, snap querycache.Snapshot) {
			defer wg.Done()
			v, err := snap.Wait(context.Background())
			assert.NoError(t, err)
			results[i] = v
		}(i, snap)
	}

	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, v := range results {
		assert.Equal(t, "fares", v)
	}
}

func TestFreshEntryIsServedWithoutFetching(t *testing.T) {
	clock := newFakeClock()
	c := newCache(t, querycache.WithClock(clock.Now))

	var calls int32
	q := querycache.Query{
		Key:     querycache.Key{"airports", "active"},
		Enabled: true,
		Policy:  testPolicy,
		Fetch:   counting(&calls, []string{"DUB", "BCN"}),
	}

	v, err := c.Fetch(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"DUB", "BCN"}, v)

	clock.Advance(4 * time.Minute)
	snap := c.Resolve(q)
	assert.Equal(t, querycache.StateFresh, snap.State)
	assert.True(t, snap.Hit)
	assert.Equal(t, []string{"DUB", "BCN"}, snap.Value)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestStaleEntryKeepsValueWhileRevalidating(t *testing.T) {
	clock := newFakeClock()
	c := newCache(t, querycache.WithClock(clock.Now))

	var calls int32
	key := querycache.Key{"airports", "detail", "DUB"}
	_, err := c.Fetch(context.Background(), querycache.Query{
		Key: key, Enabled: true, Policy: testPolicy, Fetch: counting(&calls, "v1"),
	})
	require.NoError(t, err)

	clock.Advance(6 * time.Minute)
	snap := c.Resolve(querycache.Query{
		Key: key, Enabled: true, Policy: testPolicy, Fetch: counting(&calls, "v2"),
	})
	assert.Equal(t, querycache.StatePending, snap.State)
	assert.Equal(t, "v1", snap.Value)
	assert.False(t, snap.Hit)

	v, err := snap.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v2", v)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestDisabledQueryNeverFetches(t *testing.T) {
	c := newCache(t)

	reason := fareerr.Validation("origin and destination must differ")
	var calls int32
	snap := c.Resolve(querycache.Query{
		Key:     querycache.Key{"fares", "daily-range", "DUB", "DUB"},
		Enabled: false,
		Reason:  reason,
		Fetch:   counting(&calls, "never"),
	})

	assert.Equal(t, querycache.StateDisabled, snap.State)
	assert.Equal(t, reason, snap.Err)
	assert.False(t, snap.IsLoading)
	assert.Zero(t, atomic.LoadInt32(&calls))
	assert.Zero(t, c.Len())

	v, err := snap.Wait(context.Background())
	assert.Nil(t, v)
	assert.Equal(t, reason, err)
}

func TestTransientFailuresAreRetriedTwice(t *testing.T) {
	c := newCache(t)

	t.Run("recovers on third attempt", func(t *testing.T) {
		var calls int32
		v, err := c.Fetch(context.Background(), querycache.Query{
			Key:     querycache.Key{"fares", "round-trip", "recover"},
			Enabled: true,
			Policy:  testPolicy,
			Fetch: func(context.Context) (any, error) {
				if atomic.AddInt32(&calls, 1) < 3 {
					return nil, fareerr.FromStatus(503, "", "unavailable", false)
				}
				return "ok", nil
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", v)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("gives up after two retries", func(t *testing.T) {
		var calls int32
		key := querycache.Key{"fares", "round-trip", "down"}
		_, err := c.Fetch(context.Background(), querycache.Query{
			Key:     key,
			Enabled: true,
			Policy:  testPolicy,
			Fetch: func(context.Context) (any, error) {
				atomic.AddInt32(&calls, 1)
				return nil, fareerr.FromStatus(500, "", "boom", false)
			},
		})
		require.Error(t, err)
		assert.Equal(t, fareerr.KindTransient, fareerr.KindOf(err))
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

		snap, ok := c.Peek(key)
		require.True(t, ok)
		assert.Equal(t, querycache.StateFailed, snap.State)
	})
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"not found", fareerr.FromStatus(404, "", "airport not found", false)},
		{"validation", fareerr.Validation("bad date")},
		{"permission", fareerr.FromStatus(403, "location_denied", "denied", true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCache(t)

			var calls int32
			q := querycache.Query{
				Key:     querycache.Key{"airports", "closest"},
				Enabled: true,
				Policy:  testPolicy,
				Fetch: func(context.Context) (any, error) {
					atomic.AddInt32(&calls, 1)
					return nil, tt.err
				},
			}

			_, err := c.Fetch(context.Background(), q)
			assert.Equal(t, tt.err, err)
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

			snap := c.Resolve(q)
			assert.Equal(t, querycache.StateFailed, snap.State)
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		})
	}
}

func TestCustomRetryPolicy(t *testing.T) {
	c := newCache(t)

	var calls int32
	_, err := c.Fetch(context.Background(), querycache.Query{
		Key:     querycache.Key{"airports", "nearby"},
		Enabled: true,
		Policy:  querycache.Policy{Retry: querycache.NoRetry, RetryDelay: time.Millisecond},
		Fetch: func(context.Context) (any, error) {
			atomic.AddInt32(&calls, 1)
			return nil, fareerr.Transient(errors.New("connection reset"))
		},
	})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestOlderCompletionDoesNotOverwriteNewer(t *testing.T) {
	c := newCache(t)

	key := querycache.Key{"fares", "daily-range", "DUB", "BCN", "2024-03-01", "2024-03-31", "EUR"}
	release := make(chan struct{})

	first := c.Resolve(querycache.Query{
		Key:     key,
		Enabled: true,
		Policy:  testPolicy,
		Fetch: func(context.Context) (any, error) {
			<-release
			return "old", nil
		},
	})

	second := c.Refetch(querycache.Query{
		Key:     key,
		Enabled: true,
		Policy:  testPolicy,
		Fetch: func(context.Context) (any, error) {
			return "new", nil
		},
	})

	v, err := second.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new", v)

	close(release)
	v, err = first.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "old", v)

	snap, ok := c.Peek(key)
	require.True(t, ok)
	assert.Equal(t, "new", snap.Value)
	assert.Equal(t, querycache.StateFresh, snap.State)
}

func TestInvalidateByPrefix(t *testing.T) {
	c := newCache(t)

	ctx := context.Background()
	var calls int32
	keys := []querycache.Key{
		{"fares", "cheapest-per-day", "DUB", "BCN", "2024-03-10", "EUR"},
		{"fares", "round-trip", "DUB", "BCN", "2024-03-10", "2024-03-17", "EUR"},
		{"airports", "active"},
	}
	for _, key := range keys {
		_, err := c.Fetch(ctx, querycache.Query{Key: key, Enabled: true, Policy: testPolicy, Fetch: counting(&calls, key.String())})
		require.NoError(t, err)
	}

	assert.Equal(t, 2, c.Invalidate(querycache.Key{"fares"}))

	snap, _ := c.Peek(keys[0])
	assert.Equal(t, querycache.StateStale, snap.State)
	assert.Equal(t, keys[0].String(), snap.Value)

	snap, _ = c.Peek(keys[2])
	assert.Equal(t, querycache.StateFresh, snap.State)

	v, err := c.Fetch(ctx, querycache.Query{Key: keys[1], Enabled: true, Policy: testPolicy, Fetch: counting(&calls, "refetched")})
	require.NoError(t, err)
	assert.Equal(t, "refetched", v)
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestSubscribersAreNotifiedOnSettle(t *testing.T) {
	c := newCache(t)

	key := querycache.Key{"airports", "destinations", "DUB"}
	got := make(chan querycache.Snapshot, 1)
	unsubscribe := c.Subscribe(key, func(s querycache.Snapshot) { got <- s })
	defer unsubscribe()

	var calls int32
	_, err := c.Fetch(context.Background(), querycache.Query{Key: key, Enabled: true, Policy: testPolicy, Fetch: counting(&calls, "BCN")})
	require.NoError(t, err)

	select {
	case s := <-got:
		assert.Equal(t, "BCN", s.Value)
		assert.Equal(t, querycache.StateFresh, s.State)
	case <-time.After(time.Second):
		t.Fatal("subscriber was not notified")
	}
}

func TestSweepEvictsIdleEntries(t *testing.T) {
	clock := newFakeClock()
	c := newCache(t, querycache.WithClock(clock.Now))

	ctx := context.Background()
	var calls int32
	idle := querycache.Key{"airports", "schedules", "DUB"}
	watched := querycache.Key{"airports", "schedules", "BCN"}

	for _, key := range []querycache.Key{idle, watched} {
		_, err := c.Fetch(ctx, querycache.Query{Key: key, Enabled: true, Policy: testPolicy, Fetch: counting(&calls, "s")})
		require.NoError(t, err)
	}
	unsubscribe := c.Subscribe(watched, func(querycache.Snapshot) {})

	clock.Advance(10 * time.Minute)
	assert.Zero(t, c.Sweep())

	clock.Advance(10 * time.Minute)
	assert.Equal(t, 1, c.Sweep())
	assert.Equal(t, 1, c.Len())

	_, ok := c.Peek(idle)
	assert.False(t, ok)

	unsubscribe()
	clock.Advance(20 * time.Minute)
	assert.Equal(t, 1, c.Sweep())
	assert.Zero(t, c.Len())
}

func TestCloseCancelsInFlightFetches(t *testing.T) {
	c := querycache.New()

	started := make(chan struct{})
	snap := c.Resolve(querycache.Query{
		Key:     querycache.Key{"fares", "cheapest-per-day", "slow"},
		Enabled: true,
		Policy:  testPolicy,
		Fetch: func(ctx context.Context) (any, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		},
	})

	<-started
	c.Close()

	_, err := snap.Wait(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMetricsAreRecorded(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newCache(t, querycache.WithRegisterer(reg))

	var calls int32
	q := querycache.Query{Key: querycache.Key{"airports", "active"}, Enabled: true, Policy: testPolicy, Fetch: counting(&calls, "a")}
	_, err := c.Fetch(context.Background(), q)
	require.NoError(t, err)
	c.Resolve(q)

	count, err := testutil.GatherAndCount(reg, "farecal_querycache_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "farecal_querycache_entries")
}
