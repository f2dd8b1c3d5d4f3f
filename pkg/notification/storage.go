package notification

import (
	"context"
)

// Storage is the notification state store: the single source of truth for
// read state. Identifiers are opaque; ownership is enforced at creation and
// every record is visible only through its own user's queries.
//
// All mutations are per-record atomic: no two concurrent mutations on the
// same id may interleave to produce a half-written record. Mutations are not
// cancellable once accepted; they either complete or fail atomically.
type Storage interface {
	// Create materializes a draft: assigns identity, sets read=false and
	// stamps createdAt with the ingestion time (not the event time) so
	// delayed digests sort correctly in chronological display.
	Create(ctx context.Context, draft Draft) (Notification, error)

	// Get retrieves a single notification by id.
	Get(ctx context.Context, id string) (*Notification, error)

	// List returns all notifications owned by the user, unordered.
	// The view layer applies filtering and ordering.
	List(ctx context.Context, userID string) ([]Notification, error)

	// MarkRead transitions a notification to read. Idempotent: marking an
	// already-read record is a no-op success returning the unchanged record.
	MarkRead(ctx context.Context, id string) (Notification, error)

	// MarkAllRead transitions every unread notification of the user in a
	// single snapshot-then-apply unit and returns the exact number of rows
	// this call transitioned. Each record transitions at most once per call.
	MarkAllRead(ctx context.Context, userID string) (int, error)

	// Delete removes the record permanently. Subsequent reads return
	// ErrNotificationNotFound and the record is excluded from all counts.
	Delete(ctx context.Context, id string) error

	// CountUnread returns the number of unread notifications for the user.
	CountUnread(ctx context.Context, userID string) (int, error)

	// CountTotal returns the total number of notifications for the user.
	CountTotal(ctx context.Context, userID string) (int, error)
}
