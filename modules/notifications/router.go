package notifications

import (
	"github.com/go-chi/chi/v5"
)

// Router mounts the module's HTTP surface:
//
//	GET    /notifications/{userID}           list with filters + aggregates meta
//	PATCH  /notifications/{id}/read          mark one as read (idempotent)
//	POST   /notifications/{userID}/read-all  mark all as read, returns exact count
//	DELETE /notifications/{id}               hard delete
//	GET    /preferences/{userID}             list rules (persists defaults on first fetch)
//	POST   /preferences                      create rule
//	PATCH  /preferences/{id}                 partial update
//	POST   /events                           ingest + fan out
//	GET    /events                           list recorded events (when a log is attached)
//	GET    /events/{id}                      fetch one event
func (s *Service) Router() chi.Router {
	r := chi.NewRouter()

	r.Route("/notifications", func(r chi.Router) {
		r.Get("/{userID}", s.handleList)
		r.Patch("/{id}/read", s.handleMarkRead)
		r.Post("/{userID}/read-all", s.handleMarkAllRead)
		r.Delete("/{id}", s.handleDelete)
	})

	r.Route("/preferences", func(r chi.Router) {
		r.Get("/{userID}", s.handleListPreferences)
		r.Post("/", s.handleCreatePreference)
		r.Patch("/{id}", s.handleUpdatePreference)
	})

	r.Route("/events", func(r chi.Router) {
		r.Post("/", s.handleIngestEvent)
		r.Get("/", s.handleListEvents)
		r.Get("/{id}", s.handleGetEvent)
	})

	return r
}
