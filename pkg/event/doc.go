// Package event defines the immutable domain facts the notifier ingests and
// the append-only log that retains them.
//
// An Event is created once by ingestion and never mutated. The resolution
// engine (pkg/resolver) is the only consumer that turns events into
// notifications; the log itself knows nothing about users or preferences.
package event
