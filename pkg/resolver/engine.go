package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifier/pkg/delivery"
	"github.com/dmitrymomot/notifier/pkg/digest"
	"github.com/dmitrymomot/notifier/pkg/event"
	"github.com/dmitrymomot/notifier/pkg/logger"
	"github.com/dmitrymomot/notifier/pkg/notification"
	"github.com/dmitrymomot/notifier/pkg/preference"
)

// channels is the fixed set the engine consults per recipient. A tuple with
// neither a stored rule nor a default is skipped, so the loop stays cheap.
var channels = []notification.Channel{
	notification.ChannelInApp,
	notification.ChannelEmail,
}

// Engine turns ingested events into per-user notifications according to each
// recipient's effective preferences. It is the only writer of notification
// records on the ingestion path.
type Engine struct {
	prefs   preference.Store
	storage notification.Storage
	log     event.Log
	sink    delivery.Sink
	digests *digest.Accumulator
	logger  *slog.Logger
	now     func() time.Time

	// wg tracks in-flight asynchronous email sends so callers can drain
	// them on shutdown.
	wg sync.WaitGroup
}

// Option configures an Engine.
type Option func(*Engine)

// WithEventLog attaches an append-only event log. When set, Ingest records
// the event before resolving it.
func WithEventLog(log event.Log) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithEmailSink routes EMAIL-channel real-time notifications through sink.
// Without a sink, email notifications are materialized directly, which keeps
// single-binary deployments working with in-app display of the email copy.
func WithEmailSink(sink delivery.Sink) Option {
	return func(e *Engine) {
		e.sink = sink
	}
}

// WithAccumulator attaches a digest accumulator for DAILY and WEEKLY
// frequencies. Without one, digest-frequency events are dropped with a
// warning.
func WithAccumulator(acc *digest.Accumulator) Option {
	return func(e *Engine) {
		e.digests = acc
	}
}

// WithLogger sets the engine logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.logger = log
		}
	}
}

// WithClock overrides the engine's time source for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates a resolution engine over the given preference store and
// notification storage.
func New(prefs preference.Store, storage notification.Storage, opts ...Option) *Engine {
	e := &Engine{
		prefs:   prefs,
		storage: storage,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Ingest validates and records an event, then resolves it for the given
// recipients. The returned notifications are the synchronously materialized
// ones; asynchronous email deliveries complete in the background.
func (e *Engine) Ingest(ctx context.Context, typ event.Type, payload map[string]any, recipients []string) (event.Event, []notification.Notification, error) {
	ev := event.Event{
		ID:        uuid.NewString(),
		Type:      typ,
		Payload:   payload,
		CreatedAt: e.now().UTC(),
	}
	if err := ev.Validate(); err != nil {
		return event.Event{}, nil, err
	}

	if e.log != nil {
		if err := e.log.Append(ctx, ev); err != nil {
			return event.Event{}, nil, fmt.Errorf("append event: %w", err)
		}
	}

	created, err := e.Resolve(ctx, ev, recipients)
	if err != nil {
		return ev, created, err
	}
	return ev, created, nil
}

// Resolve fans an event out to recipients. For each recipient and channel it
// looks up the effective preference and routes the event accordingly:
// disabled rules suppress silently, REAL_TIME materializes now (via the
// email sink for the EMAIL channel), DAILY and WEEKLY accumulate into digest
// buckets. Recipients are independent: one recipient's failure does not
// block the others.
func (e *Engine) Resolve(ctx context.Context, ev event.Event, recipients []string) ([]notification.Notification, error) {
	if err := ev.Validate(); err != nil {
		return nil, err
	}

	var created []notification.Notification
	var errs []error

	for _, userID := range recipients {
		if userID == "" {
			errs = append(errs, notification.ErrEmptyUserID)
			continue
		}
		for _, ch := range channels {
			n, err := e.resolveOne(ctx, ev, userID, ch)
			if err != nil {
				errs = append(errs, fmt.Errorf("resolve %s/%s: %w", userID, ch, err))
				continue
			}
			if n != nil {
				created = append(created, *n)
			}
		}
	}

	return created, errors.Join(errs...)
}

func (e *Engine) resolveOne(ctx context.Context, ev event.Event, userID string, ch notification.Channel) (*notification.Notification, error) {
	pref, err := e.prefs.GetEffective(ctx, userID, ev.Type, ch)
	if err != nil {
		if errors.Is(err, preference.ErrPreferenceNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if !pref.Enabled {
		e.logger.LogAttrs(ctx, slog.LevelDebug, "notification suppressed by preference",
			logger.UserID(userID),
			logger.EventID(ev.ID),
			logger.Channel(string(ch)),
		)
		return nil, nil
	}

	switch pref.Frequency {
	case preference.FrequencyRealTime:
		return e.materializeRealTime(ctx, ev, userID, ch)
	case preference.FrequencyDaily:
		return nil, e.accumulate(ctx, ev, userID, ch, digest.KindDaily)
	case preference.FrequencyWeekly:
		return nil, e.accumulate(ctx, ev, userID, ch, digest.KindWeekly)
	default:
		return nil, preference.ErrInvalidFrequency
	}
}

func (e *Engine) materializeRealTime(ctx context.Context, ev event.Event, userID string, ch notification.Channel) (*notification.Notification, error) {
	draft := draftFrom(ev, userID, ch)

	if ch == notification.ChannelEmail && e.sink != nil {
		e.dispatchEmail(ctx, draft)
		return nil, nil
	}

	n, err := e.storage.Create(ctx, draft)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// dispatchEmail hands the draft to the email sink without blocking the
// ingestion path. The notification record is persisted only after the sink
// acknowledges, so a failed send leaves no trace beyond a log line.
func (e *Engine) dispatchEmail(ctx context.Context, draft notification.Draft) {
	// Detach from the request's cancellation: the send outlives the
	// ingestion call that triggered it.
	bg := context.WithoutCancel(ctx)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		if err := e.sink.Send(bg, draft); err != nil {
			e.logger.LogAttrs(bg, slog.LevelError, "email delivery failed",
				logger.UserID(draft.UserID),
				logger.Channel(string(draft.Channel)),
				logger.Error(err),
			)
			return
		}

		if _, err := e.storage.Create(bg, draft); err != nil {
			e.logger.LogAttrs(bg, slog.LevelError, "failed to persist delivered email notification",
				logger.UserID(draft.UserID),
				logger.Error(err),
			)
		}
	}()
}

func (e *Engine) accumulate(ctx context.Context, ev event.Event, userID string, ch notification.Channel, kind digest.Kind) error {
	if e.digests == nil {
		e.logger.LogAttrs(ctx, slog.LevelWarn, "digest frequency requested but no accumulator configured",
			logger.UserID(userID),
			logger.EventID(ev.ID),
		)
		return nil
	}
	key := digest.KeyFor(userID, ch, kind, ev.CreatedAt)
	return e.digests.Add(ctx, key, ev)
}

// Materialize implements digest.Materializer: digest drafts follow the same
// channel routing as real-time notifications, except the email path is
// synchronous so the flusher can retry a failed bucket.
func (e *Engine) Materialize(ctx context.Context, draft notification.Draft) (*notification.Notification, error) {
	if draft.Channel == notification.ChannelEmail && e.sink != nil {
		if err := e.sink.Send(ctx, draft); err != nil {
			return nil, err
		}
	}
	n, err := e.storage.Create(ctx, draft)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Wait blocks until all in-flight asynchronous email deliveries finish.
// Intended for shutdown paths and tests.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// typeTitles provides display titles when the event payload carries none.
var typeTitles = map[event.Type]string{
	event.TypeNewAudit:        "New audit",
	event.TypeDocumentUpdated: "Document updated",
	event.TypeReportReady:     "Report ready",
}

func draftFrom(ev event.Event, userID string, ch notification.Channel) notification.Draft {
	title := typeTitles[ev.Type]
	if t, ok := ev.Payload["title"].(string); ok && t != "" {
		title = t
	}

	content := ev.Message()
	if raw, err := json.Marshal(ev.Payload); err == nil && len(ev.Payload) > 0 {
		content = string(raw)
	}

	eventID := ev.ID
	return notification.Draft{
		UserID:      userID,
		EventID:     &eventID,
		Channel:     ch,
		EventType:   ev.Type,
		Title:       title,
		Description: ev.Message(),
		Content:     content,
	}
}
