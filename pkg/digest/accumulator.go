package digest

import (
	"context"
	"sync"

	"github.com/dmitrymomot/notifier/pkg/event"
)

// Accumulator collects events awaiting aggregation into digest
// notifications, keyed by (user, channel, period bucket).
type Accumulator struct {
	buckets map[BucketKey][]event.Event
	mu      sync.Mutex
}

// NewAccumulator creates an empty digest accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		buckets: make(map[BucketKey][]event.Event),
	}
}

// Add registers an event in its bucket.
func (a *Accumulator) Add(ctx context.Context, key BucketKey, ev event.Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.buckets[key] = append(a.buckets[key], ev)
	return nil
}

// Drain atomically removes and returns the bucket's events. Draining an
// empty or unknown bucket returns nil, which makes a second flush of the
// same bucket a natural no-op.
func (a *Accumulator) Drain(ctx context.Context, key BucketKey) []event.Event {
	a.mu.Lock()
	defer a.mu.Unlock()

	events := a.buckets[key]
	delete(a.buckets, key)
	return events
}

// Keys returns the keys of all non-empty buckets of the given kind.
func (a *Accumulator) Keys(ctx context.Context, kind Kind) []BucketKey {
	a.mu.Lock()
	defer a.mu.Unlock()

	var keys []BucketKey
	for key, events := range a.buckets {
		if key.Kind == kind && len(events) > 0 {
			keys = append(keys, key)
		}
	}
	return keys
}

// Len reports how many buckets currently hold pending events.
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.buckets)
}
