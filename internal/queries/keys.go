package queries

import (
	"github.com/dharmasatrya/farecalendar/internal/models"
	"github.com/dharmasatrya/farecalendar/internal/querycache"
)

// Key prefixes of the two resource families. Invalidating a prefix covers
// every key built below it.
var (
	AirportsPrefix = querycache.Key{"airports"}
	FaresPrefix    = querycache.Key{"fares"}
)

type airportKeys struct{}

// AirportKeys builds the cache keys of the airport family.
var AirportKeys airportKeys

func (airportKeys) Active() querycache.Key {
	return querycache.Key{"airports", "active"}
}

func (airportKeys) Detail(code string) querycache.Key {
	return querycache.Key{"airports", "detail", code}
}

func (airportKeys) Closest() querycache.Key {
	return querycache.Key{"airports", "closest"}
}

func (airportKeys) Nearby() querycache.Key {
	return querycache.Key{"airports", "nearby"}
}

func (airportKeys) Destinations(code string) querycache.Key {
	return querycache.Key{"airports", "destinations", code}
}

func (airportKeys) Schedules(code string) querycache.Key {
	return querycache.Key{"airports", "schedules", code}
}

func (airportKeys) Routes(from, to string) querycache.Key {
	return querycache.Key{"airports", "routes", from, to}
}

type fareKeys struct{}

// FareKeys builds the cache keys of the fare family. Parameters are keyed
// after defaults are applied, so an omitted currency and "EUR" share an entry.
var FareKeys fareKeys

func (fareKeys) CheapestPerDay(p models.FareSearchParams) querycache.Key {
	p = p.WithDefaults()
	return querycache.Key{"fares", "cheapest-per-day", p.From, p.To, p.StartDate, p.Currency}
}

func (fareKeys) DailyRange(p models.DailyRangeParams) querycache.Key {
	p = p.WithDefaults()
	return querycache.Key{"fares", "daily-range", p.From, p.To, p.StartDate, p.EndDate, p.Currency}
}

func (fareKeys) RoundTrip(p models.RoundTripParams) querycache.Key {
	p = p.WithDefaults()
	return querycache.Key{"fares", "round-trip", p.From, p.To, p.OutboundDate, p.InboundDate, p.Currency}
}
