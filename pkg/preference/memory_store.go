package preference

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifier/pkg/event"
	"github.com/dmitrymomot/notifier/pkg/notification"
)

// MemoryStore is an in-memory implementation of the Store interface.
// Suitable for development and testing.
type MemoryStore struct {
	byUser map[string][]Preference
	byID   map[string]string // rule id -> userID
	now    func() time.Time
	mu     sync.RWMutex
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithClock overrides the time source, for deterministic tests.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore creates a new in-memory preference store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		byUser: make(map[string][]Preference),
		byID:   make(map[string]string),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) GetEffective(ctx context.Context, userID string, et event.Type, ch notification.Channel) (Preference, error) {
	s.mu.RLock()
	prefs := s.byUser[userID]
	if p, ok := effectiveFrom(prefs, et, ch); ok {
		s.mu.RUnlock()
		return p, nil
	}
	s.mu.RUnlock()

	if p, ok := defaultFor(userID, et, ch); ok {
		return p, nil
	}
	return Preference{}, ErrPreferenceNotFound
}

func (s *MemoryStore) ListForUser(ctx context.Context, userID string) ([]Preference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prefs, exists := s.byUser[userID]; exists {
		out := make([]Preference, len(prefs))
		copy(out, prefs)
		return out, nil
	}

	// First fetch for this user: persist the synthesized defaults so later
	// updates have concrete rule ids to target.
	now := s.now()
	defaults := DefaultsFor(userID)
	for i := range defaults {
		defaults[i].ID = uuid.New().String()
		defaults[i].CreatedAt = now
		defaults[i].UpdatedAt = now
		s.byID[defaults[i].ID] = userID
	}
	s.byUser[userID] = defaults

	out := make([]Preference, len(defaults))
	copy(out, defaults)
	return out, nil
}

func (s *MemoryStore) Create(ctx context.Context, p Preference) (Preference, error) {
	if err := p.Validate(); err != nil {
		return Preference{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p.ID = uuid.New().String()
	p.CreatedAt = now
	p.UpdatedAt = now

	s.byUser[p.UserID] = append(s.byUser[p.UserID], p)
	s.byID[p.ID] = p.UserID
	return p, nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, upd Update) (Preference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, exists := s.byID[id]
	if !exists {
		return Preference{}, ErrPreferenceNotFound
	}

	prefs := s.byUser[userID]
	for i := range prefs {
		if prefs[i].ID != id {
			continue
		}
		updated := prefs[i]
		if err := upd.apply(&updated, s.now()); err != nil {
			return Preference{}, err
		}
		prefs[i] = updated
		return updated, nil
	}
	return Preference{}, ErrPreferenceNotFound
}
