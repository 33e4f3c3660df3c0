// Package queries maps typed airport and fare parameters onto request cache
// queries: a key, a freshness policy and an enable predicate per resource.
package queries
