// Package redis provides a retrying Connect helper and a health check for the
// go-redis client.
//
// The notifier uses Redis for the cross-process preference cache
// (preference.NewRedisCachedStore): preferences are read on every event
// resolution but change rarely, so they are cached per user with explicit
// invalidation on update.
package redis
