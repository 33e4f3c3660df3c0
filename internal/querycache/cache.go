// Package querycache maps query keys to cached entries. It deduplicates
// concurrent requests for the same key, decides when an entry is stale,
// retries transient failures and discards completions that lost the race
// against a newer request for the same key.
package querycache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/dharmasatrya/farecalendar/internal/fareerr"
)

type entry struct {
	key    Key
	policy Policy

	value     any
	hasValue  bool
	fetchedAt time.Time
	err       error
	failedAt  time.Time
	failed    bool

	flight       *flight
	settledSeq   uint64
	staleThrough uint64
	lastAccess   time.Time

	subscribers map[uint64]func(Snapshot)
}

type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	seq     uint64
	subSeq  uint64

	now     func() time.Time
	log     zerolog.Logger
	metrics *metrics

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type Option func(*Cache)

func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Cache) {
		c.log = log
	}
}

// WithRegisterer registers the cache metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Cache) {
		c.metrics = newMetrics(reg)
	}
}

// New creates a cache. It lives until Close, which cancels fetches still in
// flight; create one per process at startup and pass it to the orchestrators.
func New(opts ...Option) *Cache {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache{
		entries: make(map[string]*entry),
		now:     time.Now,
		log:     zerolog.Nop(),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = newMetrics(nil)
	}
	return c
}

// Resolve returns the entry for q.Key, starting a fetch when the entry is
// absent, stale or failed and no request for the key is in flight. Callers
// arriving while a request is in flight join it. Fresh entries are served
// without calling q.Fetch.
func (c *Cache) Resolve(q Query) Snapshot {
	id := q.Key.id()
	family := q.Key.Family()

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	e := c.entries[id]

	if !q.Enabled {
		c.metrics.requests.WithLabelValues(family, "disabled").Inc()
		snap := Snapshot{Key: q.Key, State: StateDisabled, Err: q.Reason}
		if e != nil && e.hasValue {
			snap.Value = e.value
			snap.FetchedAt = e.fetchedAt
		}
		return snap
	}

	if e == nil {
		e = &entry{key: append(Key(nil), q.Key...)}
		c.entries[id] = e
		c.metrics.entries.Set(float64(len(c.entries)))
	}
	e.policy = q.Policy
	e.lastAccess = now

	switch c.state(e, now) {
	case StateFresh:
		c.metrics.requests.WithLabelValues(family, "hit").Inc()
		snap := c.snapshot(e, now)
		snap.Hit = true
		return snap
	case StatePending:
		c.metrics.requests.WithLabelValues(family, "join").Inc()
		return c.snapshot(e, now)
	case StateFailed:
		if !fareerr.Retryable(e.err) && now.Sub(e.failedAt) < e.policy.staleTime() {
			c.metrics.requests.WithLabelValues(family, "hit").Inc()
			return c.snapshot(e, now)
		}
	}

	c.metrics.requests.WithLabelValues(family, "miss").Inc()
	c.start(e, q)
	return c.snapshot(e, now)
}

// Fetch resolves q and waits for the outcome.
func (c *Cache) Fetch(ctx context.Context, q Query) (any, error) {
	return c.Resolve(q).Wait(ctx)
}

// Refetch marks q.Key stale and resolves it, issuing a new request even when
// one is in flight.
func (c *Cache) Refetch(q Query) Snapshot {
	c.invalidate(func(k Key) bool { return k.Equal(q.Key) })
	return c.Resolve(q)
}

// Invalidate marks every entry whose key starts with prefix as stale. A
// request in flight for such an entry is superseded: the next Resolve issues
// a newer request and the older completion can no longer overwrite it.
func (c *Cache) Invalidate(prefix Key) int {
	return c.invalidate(func(k Key) bool { return k.HasPrefix(prefix) })
}

func (c *Cache) invalidate(match func(Key) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, e := range c.entries {
		if !match(e.key) {
			continue
		}
		e.staleThrough = c.seq
		e.flight = nil
		n++
	}

	c.log.Debug().Int("entries", n).Msg("invalidated")
	return n
}

// Subscribe calls fn with a snapshot every time a request for key settles
// into the entry. Entries with subscribers are never swept.
func (c *Cache) Subscribe(key Key, fn func(Snapshot)) (unsubscribe func()) {
	id := key.id()

	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entries[id]
	if e == nil {
		e = &entry{key: append(Key(nil), key...), lastAccess: c.now()}
		c.entries[id] = e
		c.metrics.entries.Set(float64(len(c.entries)))
	}
	if e.subscribers == nil {
		e.subscribers = make(map[uint64]func(Snapshot))
	}
	c.subSeq++
	subID := c.subSeq
	e.subscribers[subID] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(e.subscribers, subID)
			e.lastAccess = c.now()
		})
	}
}

// Peek returns the current snapshot of key without touching the network.
func (c *Cache) Peek(key Key) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.id()]
	if !ok {
		return Snapshot{}, false
	}
	return c.snapshot(e, c.now()), true
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Sweep evicts entries that nobody referenced for longer than their GC time.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	evicted := 0
	for id, e := range c.entries {
		if e.flight != nil || len(e.subscribers) > 0 {
			continue
		}
		if now.Sub(e.lastAccess) < e.policy.gcTime() {
			continue
		}
		delete(c.entries, id)
		evicted++
	}
	c.metrics.entries.Set(float64(len(c.entries)))

	if evicted > 0 {
		c.log.Debug().Int("evicted", evicted).Int("remaining", len(c.entries)).Msg("cache swept")
	}
	return evicted
}

// Run sweeps the cache every interval until ctx is done.
func (c *Cache) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.Sweep()
		}
	}
}

// Close cancels in-flight fetches and waits for them to return.
func (c *Cache) Close() {
	c.cancel()
	c.wg.Wait()
}

func (c *Cache) state(e *entry, now time.Time) State {
	switch {
	case e.flight != nil:
		return StatePending
	case e.failed && e.settledSeq > e.staleThrough:
		return StateFailed
	case !e.hasValue:
		return StateStale
	case e.settledSeq <= e.staleThrough:
		return StateStale
	case now.Sub(e.fetchedAt) >= e.policy.staleTime():
		return StateStale
	default:
		return StateFresh
	}
}

func (c *Cache) snapshot(e *entry, now time.Time) Snapshot {
	snap := Snapshot{
		Key:       e.key,
		State:     c.state(e, now),
		FetchedAt: e.fetchedAt,
		Err:       e.err,
		flight:    e.flight,
	}
	if e.hasValue {
		snap.Value = e.value
	}
	snap.IsLoading = e.flight != nil
	return snap
}

func (c *Cache) start(e *entry, q Query) {
	c.seq++
	f := &flight{seq: c.seq, done: make(chan struct{})}
	e.flight = f

	c.log.Debug().Str("key", q.Key.String()).Uint64("seq", f.seq).Msg("fetch started")

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		value, err := c.fetchWithRetry(q)
		c.settle(e, f, value, err)
	}()
}

func (c *Cache) fetchWithRetry(q Query) (any, error) {
	retry := q.Policy.retry()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = q.Policy.retryDelay()
	b.MaxInterval = maxRetryDelay
	b.MaxElapsedTime = 0
	b.Reset()

	failures := 0
	operation := func() (any, error) {
		value, err := q.Fetch(c.ctx)
		if err == nil {
			return value, nil
		}
		failures++
		if !retry(failures-1, err) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}
	notify := func(err error, next time.Duration) {
		c.log.Warn().Err(err).
			Str("key", q.Key.String()).
			Int("failures", failures).
			Dur("backoff", next).
			Msg("fetch failed, retrying")
	}

	return backoff.RetryNotifyWithData(operation, backoff.WithContext(b, c.ctx), notify)
}

func (c *Cache) settle(e *entry, f *flight, value any, err error) {
	family := e.key.Family()

	c.mu.Lock()

	f.value, f.err = value, err

	if e.flight == f {
		e.flight = nil
	}

	if f.seq <= e.settledSeq {
		c.mu.Unlock()
		close(f.done)
		c.metrics.fetches.WithLabelValues(family, "discarded").Inc()
		c.log.Debug().Str("key", e.key.String()).Uint64("seq", f.seq).Msg("discarded out-of-order completion")
		return
	}

	now := c.now()
	e.settledSeq = f.seq
	e.lastAccess = now
	if err != nil {
		e.err = err
		e.failed = true
		e.failedAt = now
		c.metrics.fetches.WithLabelValues(family, "failed").Inc()
		if !errors.Is(err, context.Canceled) {
			c.log.Warn().Err(err).Str("key", e.key.String()).Msg("fetch failed")
		}
	} else {
		e.value = value
		e.hasValue = true
		e.fetchedAt = now
		e.err = nil
		e.failed = false
		c.metrics.fetches.WithLabelValues(family, "succeeded").Inc()
	}

	snap := c.snapshot(e, now)
	subscribers := make([]func(Snapshot), 0, len(e.subscribers))
	for _, fn := range e.subscribers {
		subscribers = append(subscribers, fn)
	}
	c.mu.Unlock()

	close(f.done)
	for _, fn := range subscribers {
		fn(snap)
	}
}
