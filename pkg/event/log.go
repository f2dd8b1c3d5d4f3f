package event

import (
	"context"
	"sort"
	"sync"
)

// Log is the append-only event store.
type Log interface {
	// Append stores a new event. Events are never updated or deleted.
	Append(ctx context.Context, ev Event) error

	// Get retrieves a single event by id.
	Get(ctx context.Context, id string) (*Event, error)

	// List returns all events, newest first.
	List(ctx context.Context) ([]Event, error)
}

// MemoryLog is an in-memory implementation of the Log interface.
// Suitable for development and testing.
type MemoryLog struct {
	events map[string]Event
	order  []string
	mu     sync.RWMutex
}

// NewMemoryLog creates a new in-memory event log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{
		events: make(map[string]Event),
	}
}

func (l *MemoryLog) Append(ctx context.Context, ev Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.events[ev.ID]; exists {
		return ErrDuplicateEventID
	}

	l.events[ev.ID] = ev
	l.order = append(l.order, ev.ID)
	return nil
}

func (l *MemoryLog) Get(ctx context.Context, id string) (*Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ev, exists := l.events[id]
	if !exists {
		return nil, ErrEventNotFound
	}
	// Return a copy to prevent external mutation of stored data.
	return &ev, nil
}

func (l *MemoryLog) List(ctx context.Context) ([]Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Event, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.events[id])
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}
