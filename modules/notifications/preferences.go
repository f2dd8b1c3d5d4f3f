package notifications

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/notifier/core"
	"github.com/dmitrymomot/notifier/pkg/event"
	"github.com/dmitrymomot/notifier/pkg/notification"
	"github.com/dmitrymomot/notifier/pkg/preference"
)

type createPreferenceRequest struct {
	UserID    string `json:"user_id"`
	EventType string `json:"event_type"`
	Channel   string `json:"channel"`
	Frequency string `json:"frequency"`
	Enabled   *bool  `json:"enabled"`
}

type updatePreferenceRequest struct {
	EventType *string `json:"event_type"`
	Channel   *string `json:"channel"`
	Frequency *string `json:"frequency"`
	Enabled   *bool   `json:"enabled"`
}

func (s *Service) handleListPreferences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		core.Render(w, r, core.JSONError(core.ErrBadRequest))
		return
	}

	prefs, err := s.prefs.ListForUser(r.Context(), userID)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	core.Render(w, r, core.JSON("preferences", prefs, nil))
}

func (s *Service) handleCreatePreference(w http.ResponseWriter, r *http.Request) {
	var req createPreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.Render(w, r, core.JSONError(core.ErrBadRequest))
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	created, err := s.prefs.Create(r.Context(), preference.Preference{
		UserID:    req.UserID,
		EventType: event.Type(req.EventType),
		Channel:   notification.Channel(req.Channel),
		Frequency: preference.Frequency(req.Frequency),
		Enabled:   enabled,
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	core.Render(w, r, core.JSONWithStatus(http.StatusCreated, "preference", created, nil))
}

func (s *Service) handleUpdatePreference(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updatePreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.Render(w, r, core.JSONError(core.ErrBadRequest))
		return
	}

	var upd preference.Update
	if req.EventType != nil {
		et := event.Type(*req.EventType)
		upd.EventType = &et
	}
	if req.Channel != nil {
		ch := notification.Channel(*req.Channel)
		upd.Channel = &ch
	}
	if req.Frequency != nil {
		f := preference.Frequency(*req.Frequency)
		upd.Frequency = &f
	}
	upd.Enabled = req.Enabled

	updated, err := s.prefs.Update(r.Context(), id, upd)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	core.Render(w, r, core.JSON("preference", updated, nil))
}
