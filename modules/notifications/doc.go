// Package notifications exposes the notification center over HTTP as a
// mountable chi module.
//
// The module is a thin adapter: handlers decode and validate transport
// input, delegate to the resolution engine, stores and view, and map domain
// sentinel errors onto HTTP status codes. No business rule lives here and
// the core packages never import this module.
//
// Usage:
//
//	svc := notifications.New(engine, storage, view, prefStore,
//	    notifications.WithEventLog(eventLog),
//	)
//
//	r := chi.NewRouter()
//	r.Mount("/", svc.Router())
package notifications
