package preference

import (
	"context"

	"github.com/dmitrymomot/notifier/pkg/event"
	"github.com/dmitrymomot/notifier/pkg/notification"
)

// Store holds per-user delivery rules. It is read-mostly: the resolution
// engine consults it for every (user, event type, channel) tuple an event
// touches, while updates arrive only from explicit settings changes. Cached
// decorators (NewCachedStore, NewRedisCachedStore) exploit that shape with
// explicit invalidation on update.
type Store interface {
	// GetEffective returns the rule governing the tuple. When duplicates
	// exist, the most recently updated wins. When the user has no stored
	// rule for the tuple, the synthesized default applies; tuples with
	// neither return ErrPreferenceNotFound.
	GetEffective(ctx context.Context, userID string, et event.Type, ch notification.Channel) (Preference, error)

	// ListForUser returns the user's rules. On first fetch for a user with
	// no stored rules, the default rule set is persisted and returned.
	ListForUser(ctx context.Context, userID string) ([]Preference, error)

	// Create persists a new rule, assigning identity and timestamps.
	Create(ctx context.Context, p Preference) (Preference, error)

	// Update applies a partial change to an existing rule. Rules are never
	// physically deleted; disable them via Update instead.
	Update(ctx context.Context, id string, upd Update) (Preference, error)
}
