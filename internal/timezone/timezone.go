package timezone

import (
	"sync"
	"time"
)

var (
	locations   = map[string]*time.Location{}
	locationsMu sync.RWMutex
)

// LocationByName resolves an IANA zone such as "Europe/Dublin", caching the
// result. Unknown or empty names resolve to UTC.
func LocationByName(name string) *time.Location {
	if name == "" {
		return time.UTC
	}

	locationsMu.RLock()
	loc, ok := locations[name]
	locationsMu.RUnlock()
	if ok {
		return loc
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		loc = time.UTC
	}

	locationsMu.Lock()
	locations[name] = loc
	locationsMu.Unlock()

	return loc
}

// ParseTimeWithOffset parses fare timestamps. Values carrying an offset keep
// it; local values ("2024-03-10T06:25:00.000") are read in tzName.
func ParseTimeWithOffset(timeStr string, tzName string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.000-0700",
		"2006-01-02T15:04:05-0700",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, timeStr); err == nil {
			return t, nil
		}
	}

	loc := LocationByName(tzName)
	localFormats := []string{
		"2006-01-02T15:04:05.000",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
	}
	for _, format := range localFormats {
		if t, err := time.ParseInLocation(format, timeStr, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &time.ParseError{
		Value:   timeStr,
		Message: "unable to parse time string",
	}
}

// ClockTime renders the wall-clock "15:04" of a fare timestamp in the
// airport's zone, or "" when the timestamp is missing or unparseable.
func ClockTime(value *string, tzName string) string {
	if value == nil || *value == "" {
		return ""
	}
	t, err := ParseTimeWithOffset(*value, tzName)
	if err != nil {
		return ""
	}
	return t.In(LocationByName(tzName)).Format("15:04")
}
