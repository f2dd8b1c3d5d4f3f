package notification

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage is an in-memory implementation of the Storage interface.
// A single store-wide mutex makes every mutation linearizable, which is
// stricter than the contract requires but keeps the reference implementation
// honest. Suitable for development and testing.
type MemoryStorage struct {
	records map[string]Notification  // id -> record
	byUser  map[string]map[string]struct{} // userID -> set of ids
	now     func() time.Time
	mu      sync.RWMutex
}

// MemoryStorageOption configures a MemoryStorage.
type MemoryStorageOption func(*MemoryStorage)

// WithClock overrides the time source, for deterministic tests.
func WithClock(now func() time.Time) MemoryStorageOption {
	return func(s *MemoryStorage) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStorage creates a new in-memory notification state store.
func NewMemoryStorage(opts ...MemoryStorageOption) *MemoryStorage {
	s := &MemoryStorage{
		records: make(map[string]Notification),
		byUser:  make(map[string]map[string]struct{}),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStorage) Create(ctx context.Context, draft Draft) (Notification, error) {
	if err := draft.Validate(); err != nil {
		return Notification{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := Notification{
		ID:          uuid.New().String(),
		UserID:      draft.UserID,
		EventID:     draft.EventID,
		Channel:     draft.Channel,
		EventType:   draft.EventType,
		Title:       draft.Title,
		Description: draft.Description,
		Content:     draft.Content,
		Read:        false,
		CreatedAt:   s.now(),
	}

	s.records[n.ID] = n
	ids, ok := s.byUser[n.UserID]
	if !ok {
		ids = make(map[string]struct{})
		s.byUser[n.UserID] = ids
	}
	ids[n.ID] = struct{}{}

	return n, nil
}

func (s *MemoryStorage) Get(ctx context.Context, id string) (*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, exists := s.records[id]
	if !exists {
		return nil, ErrNotificationNotFound
	}
	// Return a copy to prevent external mutation of stored state.
	return &n, nil
}

func (s *MemoryStorage) List(ctx context.Context, userID string) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUser[userID]
	out := make([]Notification, 0, len(ids))
	for id := range ids {
		out = append(out, s.records[id])
	}
	return out, nil
}

func (s *MemoryStorage) MarkRead(ctx context.Context, id string) (Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, exists := s.records[id]
	if !exists {
		return Notification{}, ErrNotificationNotFound
	}
	if n.Read {
		// Idempotent no-op success.
		return n, nil
	}

	n.markAsRead(s.now())
	s.records[id] = n
	return n, nil
}

func (s *MemoryStorage) MarkAllRead(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Snapshot and apply under the same critical section: the count is exact
	// for the rows this call touched, and a record racing with an individual
	// MarkRead transitions at most once.
	count := 0
	now := s.now()
	for id := range s.byUser[userID] {
		n := s.records[id]
		if n.Read {
			continue
		}
		n.markAsRead(now)
		s.records[id] = n
		count++
	}
	return count, nil
}

func (s *MemoryStorage) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, exists := s.records[id]
	if !exists {
		return ErrNotificationNotFound
	}

	delete(s.records, id)
	if ids, ok := s.byUser[n.UserID]; ok {
		delete(ids, id)
		if len(ids) == 0 {
			delete(s.byUser, n.UserID)
		}
	}
	return nil
}

func (s *MemoryStorage) CountUnread(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for id := range s.byUser[userID] {
		if !s.records[id].Read {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStorage) CountTotal(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.byUser[userID]), nil
}
