package preference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/notifier/pkg/event"
	"github.com/dmitrymomot/notifier/pkg/notification"
)

// RedisCachedStore decorates a Store with a shared Redis cache of per-user
// rule lists, for deployments running several notifier instances. Mutations
// delete the user's key, so the staleness window is bounded by the TTL only
// for instances that never observe the mutation.
type RedisCachedStore struct {
	next   Store
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// RedisCachedStoreOption configures a RedisCachedStore.
type RedisCachedStoreOption func(*RedisCachedStore)

// WithTTL bounds how long a cached rule list may live without invalidation.
func WithTTL(ttl time.Duration) RedisCachedStoreOption {
	return func(s *RedisCachedStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithKeyPrefix namespaces the cache keys, default "notifier:prefs:".
func WithKeyPrefix(prefix string) RedisCachedStoreOption {
	return func(s *RedisCachedStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// NewRedisCachedStore wraps next with a Redis-backed rule list cache.
func NewRedisCachedStore(next Store, client *redis.Client, opts ...RedisCachedStoreOption) *RedisCachedStore {
	s := &RedisCachedStore{
		next:   next,
		client: client,
		ttl:    5 * time.Minute,
		prefix: "notifier:prefs:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisCachedStore) key(userID string) string {
	return s.prefix + userID
}

func (s *RedisCachedStore) cached(ctx context.Context, userID string) ([]Preference, bool) {
	raw, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err != nil {
		// Cache misses and Redis outages both degrade to the underlying store.
		return nil, false
	}
	var prefs []Preference
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return nil, false
	}
	return prefs, true
}

func (s *RedisCachedStore) store(ctx context.Context, userID string, prefs []Preference) {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return
	}
	// Best effort: a failed cache write only costs the next reader a trip to
	// the underlying store.
	_ = s.client.Set(ctx, s.key(userID), raw, s.ttl).Err()
}

func (s *RedisCachedStore) invalidate(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("invalidate preference cache: %w", err)
	}
	return nil
}

func (s *RedisCachedStore) GetEffective(ctx context.Context, userID string, et event.Type, ch notification.Channel) (Preference, error) {
	if prefs, ok := s.cached(ctx, userID); ok {
		if p, found := effectiveFrom(prefs, et, ch); found {
			return p, nil
		}
		if p, found := defaultFor(userID, et, ch); found {
			return p, nil
		}
		return Preference{}, ErrPreferenceNotFound
	}
	return s.next.GetEffective(ctx, userID, et, ch)
}

func (s *RedisCachedStore) ListForUser(ctx context.Context, userID string) ([]Preference, error) {
	if prefs, ok := s.cached(ctx, userID); ok {
		return prefs, nil
	}

	prefs, err := s.next.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.store(ctx, userID, prefs)
	return prefs, nil
}

func (s *RedisCachedStore) Create(ctx context.Context, p Preference) (Preference, error) {
	created, err := s.next.Create(ctx, p)
	if err != nil {
		return Preference{}, err
	}
	if err := s.invalidate(ctx, created.UserID); err != nil {
		return Preference{}, err
	}
	return created, nil
}

func (s *RedisCachedStore) Update(ctx context.Context, id string, upd Update) (Preference, error) {
	updated, err := s.next.Update(ctx, id, upd)
	if err != nil {
		return Preference{}, err
	}
	if err := s.invalidate(ctx, updated.UserID); err != nil {
		return Preference{}, err
	}
	return updated, nil
}
