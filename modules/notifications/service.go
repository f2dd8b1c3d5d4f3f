package notifications

import (
	"errors"
	"log/slog"

	"github.com/dmitrymomot/notifier/core"
	"github.com/dmitrymomot/notifier/pkg/event"
	"github.com/dmitrymomot/notifier/pkg/notification"
	"github.com/dmitrymomot/notifier/pkg/preference"
	"github.com/dmitrymomot/notifier/pkg/resolver"
)

// Service is the HTTP-facing notification module: a thin adapter over the
// core packages. It owns no business rules; every operation delegates to
// the engine, stores, or view.
type Service struct {
	engine  *resolver.Engine
	storage notification.Storage
	view    *notification.View
	prefs   preference.Store
	log     event.Log
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithEventLog exposes the event log through the events endpoints.
func WithEventLog(log event.Log) Option {
	return func(s *Service) {
		s.log = log
	}
}

// WithLogger sets the module logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New creates the notifications module service.
func New(engine *resolver.Engine, storage notification.Storage, view *notification.View, prefs preference.Store, opts ...Option) *Service {
	s := &Service{
		engine:  engine,
		storage: storage,
		view:    view,
		prefs:   prefs,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// asHTTPError maps domain sentinel errors onto transport-level responses.
// Unknown errors pass through and render as 500.
func asHTTPError(err error) error {
	switch {
	case errors.Is(err, notification.ErrNotificationNotFound),
		errors.Is(err, preference.ErrPreferenceNotFound),
		errors.Is(err, event.ErrEventNotFound):
		return core.ErrNotFound
	case errors.Is(err, notification.ErrConflict):
		return core.ErrConflict
	case errors.Is(err, event.ErrDuplicateEventID):
		return core.ErrConflict
	case errors.Is(err, notification.ErrEmptyUserID),
		errors.Is(err, notification.ErrInvalidChannel),
		errors.Is(err, event.ErrInvalidEventType),
		errors.Is(err, event.ErrEmptyEventID),
		errors.Is(err, event.ErrEmptyPayload),
		errors.Is(err, preference.ErrEmptyUserID),
		errors.Is(err, preference.ErrInvalidFrequency):
		return core.ErrUnprocessableEntity
	}
	return err
}
