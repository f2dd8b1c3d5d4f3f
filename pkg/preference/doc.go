// Package preference stores per-user delivery rules: which channel and
// frequency each event type should use, and whether delivery is enabled at
// all.
//
// Users without stored rules get a synthesized default set (one in-app,
// real-time, enabled rule per known event type) declared in the embedded
// defaults.yaml and exposed through the pure function DefaultsFor, so every
// call site resolves identical defaults.
//
// The Store interface has an in-memory implementation for development, a
// Postgres implementation for production, and two caching decorators for the
// read-mostly access pattern of event resolution: NewCachedStore (per-process
// LRU) and NewRedisCachedStore (shared across instances). Both invalidate a
// user's entry on every rule mutation.
package preference
