package querycache

import "strings"

// Key identifies a cacheable request: the resource family followed by its
// parameters, in order. Two keys address the same entry iff every component
// is equal.
type Key []string

func (k Key) String() string {
	return strings.Join(k, "/")
}

func (k Key) id() string {
	return strings.Join(k, "\x00")
}

func (k Key) Equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	return k[:len(prefix)].Equal(prefix)
}

// Family is the metrics label of a key: its first two components.
func (k Key) Family() string {
	switch len(k) {
	case 0:
		return "unknown"
	case 1:
		return k[0]
	default:
		return k[0] + "." + k[1]
	}
}
