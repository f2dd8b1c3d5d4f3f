package digest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/notifier/pkg/event"
	"github.com/dmitrymomot/notifier/pkg/logger"
	"github.com/dmitrymomot/notifier/pkg/notification"
)

// Materializer turns a draft into a stored or delivered notification.
// The resolution engine implements it, so digests follow the same
// channel-routing rules as real-time notifications.
type Materializer interface {
	Materialize(ctx context.Context, draft notification.Draft) (*notification.Notification, error)
}

// Flusher drains pending digest buckets into aggregated notifications.
// Each bucket flush is mutually exclusive per key and idempotent: a drained
// bucket is empty, so flushing it again produces nothing.
type Flusher struct {
	acc    *Accumulator
	mat    Materializer
	logger *slog.Logger

	// keyLocks serializes concurrent flushes of the same bucket. Locks are
	// keyed without the period so the map stays bounded by active
	// user/channel/kind combinations instead of growing with every
	// calendar period the process lives through.
	keyLocks map[string]*sync.Mutex
	mu       sync.Mutex
}

// FlusherOption configures a Flusher.
type FlusherOption func(*Flusher)

// WithLogger sets the logger for the Flusher.
func WithLogger(log *slog.Logger) FlusherOption {
	return func(f *Flusher) {
		if log != nil {
			f.logger = log
		}
	}
}

// NewFlusher creates a flusher draining acc through mat.
func NewFlusher(acc *Accumulator, mat Materializer, opts ...FlusherOption) *Flusher {
	f := &Flusher{
		acc:      acc,
		mat:      mat,
		logger:   slog.Default(),
		keyLocks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FlushKind drains every non-empty bucket of the given kind, producing one
// aggregated notification per bucket. Returns the number of buckets flushed.
func (f *Flusher) FlushKind(ctx context.Context, kind Kind) (int, error) {
	flushed := 0
	for _, key := range f.acc.Keys(ctx, kind) {
		ok, err := f.FlushBucket(ctx, key)
		if err != nil {
			return flushed, err
		}
		if ok {
			flushed++
		}
	}
	return flushed, nil
}

// FlushBucket drains a single bucket. Returns false when the bucket was
// already empty (no-op).
func (f *Flusher) FlushBucket(ctx context.Context, key BucketKey) (bool, error) {
	lock := f.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	events := f.acc.Drain(ctx, key)
	if len(events) == 0 {
		return false, nil
	}

	draft, err := aggregate(key, events)
	if err != nil {
		return false, err
	}

	if _, err := f.mat.Materialize(ctx, draft); err != nil {
		// Put the events back so the next flush retries them rather than
		// dropping the digest on the floor.
		for _, ev := range events {
			_ = f.acc.Add(ctx, key, ev)
		}
		return false, fmt.Errorf("materialize digest for bucket %s: %w", key, err)
	}

	f.logger.LogAttrs(ctx, slog.LevelInfo, "flushed digest bucket",
		logger.UserID(key.UserID),
		logger.Channel(string(key.Channel)),
		logger.Bucket(key.String()),
		slog.Int("event_count", len(events)),
	)
	return true, nil
}

func (f *Flusher) lockFor(key BucketKey) *sync.Mutex {
	f.mu.Lock()
	defer f.mu.Unlock()

	k := fmt.Sprintf("%s/%s/%s", key.UserID, key.Channel, key.Kind)
	lock, exists := f.keyLocks[k]
	if !exists {
		lock = &sync.Mutex{}
		f.keyLocks[k] = lock
	}
	return lock
}

// digestContent is the JSON body of an aggregated notification. The
// dashboard parses notification content as JSON and prefers its title and
// message over the denormalized fields.
type digestContent struct {
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	EventIDs []string `json:"event_ids"`
}

func aggregate(key BucketKey, events []event.Event) (notification.Draft, error) {
	title := "Daily digest"
	if key.Kind == KindWeekly {
		title = "Weekly digest"
	}

	byType := make(map[event.Type]int)
	ids := make([]string, 0, len(events))
	for _, ev := range events {
		byType[ev.Type]++
		ids = append(ids, ev.ID)
	}

	message := fmt.Sprintf("%d update(s)", len(events))
	for _, et := range event.KnownTypes() {
		if n := byType[et]; n > 0 {
			message += fmt.Sprintf(", %d %s", n, et)
		}
	}

	body, err := json.Marshal(digestContent{
		Title:    title,
		Message:  message,
		EventIDs: ids,
	})
	if err != nil {
		return notification.Draft{}, fmt.Errorf("encode digest content: %w", err)
	}

	// EventID stays nil: the digest is synthetic, not tied to one event.
	return notification.Draft{
		UserID:      key.UserID,
		Channel:     key.Channel,
		Title:       title,
		Description: message,
		Content:     string(body),
	}, nil
}
