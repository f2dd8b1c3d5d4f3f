package preference

import (
	"context"

	"github.com/dmitrymomot/notifier/pkg/cache"
	"github.com/dmitrymomot/notifier/pkg/event"
	"github.com/dmitrymomot/notifier/pkg/notification"
)

// CachedStore decorates a Store with an in-process LRU cache of per-user rule
// lists. The cache entry for a user is dropped whenever one of their rules is
// created or updated, so a read after a mutation always sees current state.
type CachedStore struct {
	next  Store
	cache *cache.LRUCache[string, []Preference]
}

// NewCachedStore wraps next with an LRU of at most maxUsers cached rule lists.
func NewCachedStore(next Store, maxUsers int) *CachedStore {
	return &CachedStore{
		next:  next,
		cache: cache.NewLRUCache[string, []Preference](maxUsers),
	}
}

func (s *CachedStore) GetEffective(ctx context.Context, userID string, et event.Type, ch notification.Channel) (Preference, error) {
	if prefs, ok := s.cache.Get(userID); ok {
		if p, found := effectiveFrom(prefs, et, ch); found {
			return p, nil
		}
		if p, found := defaultFor(userID, et, ch); found {
			return p, nil
		}
		return Preference{}, ErrPreferenceNotFound
	}

	// Not cached: delegate, then warm the cache through ListForUser so the
	// next lookup for this user is served locally.
	p, err := s.next.GetEffective(ctx, userID, et, ch)
	if err != nil {
		return Preference{}, err
	}
	if prefs, listErr := s.next.ListForUser(ctx, userID); listErr == nil {
		s.cache.Put(userID, prefs)
	}
	return p, nil
}

func (s *CachedStore) ListForUser(ctx context.Context, userID string) ([]Preference, error) {
	if prefs, ok := s.cache.Get(userID); ok {
		out := make([]Preference, len(prefs))
		copy(out, prefs)
		return out, nil
	}

	prefs, err := s.next.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.Put(userID, prefs)
	return prefs, nil
}

func (s *CachedStore) Create(ctx context.Context, p Preference) (Preference, error) {
	created, err := s.next.Create(ctx, p)
	if err != nil {
		return Preference{}, err
	}
	s.cache.Remove(created.UserID)
	return created, nil
}

func (s *CachedStore) Update(ctx context.Context, id string, upd Update) (Preference, error) {
	updated, err := s.next.Update(ctx, id, upd)
	if err != nil {
		return Preference{}, err
	}
	s.cache.Remove(updated.UserID)
	return updated, nil
}
