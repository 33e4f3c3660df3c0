package queries

import (
	"time"

	"github.com/dharmasatrya/farecalendar/internal/querycache"
)

var (
	activeAirportsPolicy = querycache.Policy{StaleTime: 30 * time.Minute, GCTime: time.Hour}
	airportDetailPolicy  = querycache.Policy{StaleTime: 30 * time.Minute, GCTime: time.Hour}
	destinationsPolicy   = querycache.Policy{StaleTime: time.Hour, GCTime: 2 * time.Hour}
	schedulesPolicy      = querycache.Policy{StaleTime: 15 * time.Minute, GCTime: 30 * time.Minute}
	routesPolicy         = querycache.Policy{StaleTime: time.Hour, GCTime: 2 * time.Hour}

	// Location lookups fail with a permission error when the caller's
	// position cannot be resolved. Those failures settle immediately.
	locationPolicy = querycache.Policy{
		StaleTime: 10 * time.Minute,
		GCTime:    30 * time.Minute,
		Retry:     locationRetry,
	}

	cheapestPerDayPolicy = querycache.Policy{StaleTime: 5 * time.Minute, GCTime: 15 * time.Minute}
	dailyRangePolicy     = querycache.Policy{StaleTime: 10 * time.Minute, GCTime: 30 * time.Minute}
	roundTripPolicy      = querycache.Policy{StaleTime: 5 * time.Minute, GCTime: 15 * time.Minute}
)

var retryTransient = querycache.RetryTransient(querycache.DefaultMaxRetries)

func locationRetry(failureCount int, err error) bool {
	if isPermission(err) {
		return false
	}
	return retryTransient(failureCount, err)
}
