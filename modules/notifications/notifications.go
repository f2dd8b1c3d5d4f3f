package notifications

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/notifier/core"
	"github.com/dmitrymomot/notifier/pkg/event"
	"github.com/dmitrymomot/notifier/pkg/logger"
	"github.com/dmitrymomot/notifier/pkg/notification"
)

func (s *Service) handleList(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		core.Render(w, r, core.JSONError(core.ErrBadRequest))
		return
	}

	q := r.URL.Query()
	filter := notification.Filter{
		SearchText: q.Get("search"),
	}
	if et := q.Get("eventType"); et != "" {
		filter.EventType = event.Type(et)
		if !filter.EventType.IsValid() {
			verr := core.ValidationError{}
			verr.Add("eventType", "unknown event type")
			core.Render(w, r, core.JSONError(verr))
			return
		}
	}
	if ch := q.Get("channel"); ch != "" {
		filter.Channel = notification.Channel(ch)
		if !filter.Channel.IsValid() {
			verr := core.ValidationError{}
			verr.Add("channel", "unknown channel")
			core.Render(w, r, core.JSONError(verr))
			return
		}
	}

	list, err := s.view.Query(r.Context(), userID, filter)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	agg, err := s.view.Aggregates(r.Context(), userID)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	core.Render(w, r, core.JSON("notifications", list, map[string]any{
		"unread":    agg.Unread,
		"total":     agg.Total,
		"read_rate": agg.ReadRate,
	}))
}

func (s *Service) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	n, err := s.storage.MarkRead(r.Context(), id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	core.Render(w, r, core.JSON("notification", n, nil))
}

func (s *Service) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		core.Render(w, r, core.JSONError(core.ErrBadRequest))
		return
	}

	count, err := s.storage.MarkAllRead(r.Context(), userID)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	core.Render(w, r, core.JSON("marked_all_read", map[string]int{"count": count}, nil))
}

func (s *Service) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.storage.Delete(r.Context(), id); err != nil {
		s.renderError(w, r, err)
		return
	}
	core.Render(w, r, core.JSON("deleted", nil, nil))
}

func (s *Service) renderError(w http.ResponseWriter, r *http.Request, err error) {
	mapped := asHTTPError(err)
	if mapped == err {
		s.logger.ErrorContext(r.Context(), "request failed", logger.Error(err))
	}
	core.Render(w, r, core.JSONError(mapped))
}
