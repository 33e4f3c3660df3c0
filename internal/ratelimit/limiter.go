package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// FamilyLimiter throttles outbound calls per resource family ("airports",
// "fares", ...) so that a calendar refetch burst cannot starve airport lookups.
type FamilyLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	defaults Limit
}

type Limit struct {
	RequestsPerSecond float64
	BurstSize         int
}

func DefaultLimit() Limit {
	return Limit{
		RequestsPerSecond: 10,
		BurstSize:         20,
	}
}

func NewFamilyLimiter(defaults Limit, overrides map[string]Limit) *FamilyLimiter {
	l := &FamilyLimiter{
		limiters: make(map[string]*rate.Limiter, len(overrides)),
		defaults: defaults,
	}
	for family, limit := range overrides {
		l.limiters[family] = newLimiter(limit)
	}
	return l
}

func newLimiter(limit Limit) *rate.Limiter {
	if limit.RequestsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(limit.RequestsPerSecond), limit.BurstSize)
}

func (l *FamilyLimiter) limiter(family string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[family]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists = l.limiters[family]; exists {
		return limiter
	}

	limiter = newLimiter(l.defaults)
	l.limiters[family] = limiter
	return limiter
}

func (l *FamilyLimiter) SetLimit(family string, limit Limit) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.limiters[family] = newLimiter(limit)
}

// Wait blocks until family may issue one request. A nil limiter never blocks.
func (l *FamilyLimiter) Wait(ctx context.Context, family string) error {
	if l == nil {
		return nil
	}
	return l.limiter(family).Wait(ctx)
}
