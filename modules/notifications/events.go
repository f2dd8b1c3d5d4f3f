package notifications

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/notifier/core"
	"github.com/dmitrymomot/notifier/pkg/event"
)

type ingestEventRequest struct {
	Type       string         `json:"type"`
	Payload    map[string]any `json:"payload"`
	Recipients []string       `json:"recipients"`
}

func (s *Service) handleIngestEvent(w http.ResponseWriter, r *http.Request) {
	var req ingestEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.Render(w, r, core.JSONError(core.ErrBadRequest))
		return
	}
	if len(req.Recipients) == 0 {
		verr := core.ValidationError{}
		verr.Add("recipients", "at least one recipient is required")
		core.Render(w, r, core.JSONError(verr))
		return
	}

	ev, created, err := s.engine.Ingest(r.Context(), event.Type(req.Type), req.Payload, req.Recipients)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	core.Render(w, r, core.JSONWithStatus(http.StatusCreated, "event", ev, map[string]any{
		"notifications_created": len(created),
	}))
}

func (s *Service) handleListEvents(w http.ResponseWriter, r *http.Request) {
	if s.log == nil {
		core.Render(w, r, core.JSONError(core.ErrNotFound))
		return
	}

	events, err := s.log.List(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	core.Render(w, r, core.JSON("events", events, nil))
}

func (s *Service) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	if s.log == nil {
		core.Render(w, r, core.JSONError(core.ErrNotFound))
		return
	}

	ev, err := s.log.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	core.Render(w, r, core.JSON("event", ev, nil))
}
