// Package cache provides a small generic LRU cache.
//
// Inside the notifier it backs the read-mostly preference cache: the
// preference store wraps itself in an LRU keyed by user id and invalidates
// the entry whenever a preference for that user is created or updated.
package cache
