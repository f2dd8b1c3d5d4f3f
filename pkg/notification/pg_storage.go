package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/notifier/pkg/event"
	"github.com/dmitrymomot/notifier/pkg/pg"
)

// PGStorage is the Postgres implementation of the Storage interface.
//
// Per-record atomicity comes from single-statement conditional updates:
// MarkRead transitions only rows still unread, and MarkAllRead is one
// UPDATE whose affected-row count is exactly the number of rows this call
// transitioned. A concurrently deleted row simply matches no predicate, so a
// bulk mark can never resurrect it.
type PGStorage struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// PGStorageOption configures a PGStorage.
type PGStorageOption func(*PGStorage)

// WithPGClock overrides the time source, for deterministic tests.
func WithPGClock(now func() time.Time) PGStorageOption {
	return func(s *PGStorage) {
		if now != nil {
			s.now = now
		}
	}
}

// NewPGStorage creates a Postgres notification state store backed by the
// given pool. The notifications table must exist (see migrations/).
func NewPGStorage(pool *pgxpool.Pool, opts ...PGStorageOption) *PGStorage {
	s := &PGStorage{pool: pool, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const notificationColumns = `id, user_id, event_id, channel, event_type, title, description, content, read, read_at, created_at`

func scanNotification(row interface{ Scan(...any) error }) (Notification, error) {
	var (
		n         Notification
		eventType *string
	)
	err := row.Scan(
		&n.ID, &n.UserID, &n.EventID, &n.Channel, &eventType,
		&n.Title, &n.Description, &n.Content, &n.Read, &n.ReadAt, &n.CreatedAt,
	)
	if err != nil {
		return Notification{}, err
	}
	if eventType != nil {
		n.EventType = event.Type(*eventType)
	}
	return n, nil
}

func (s *PGStorage) Create(ctx context.Context, draft Draft) (Notification, error) {
	if err := draft.Validate(); err != nil {
		return Notification{}, err
	}

	var eventType *string
	if draft.EventType != "" {
		et := string(draft.EventType)
		eventType = &et
	}

	row := s.pool.QueryRow(ctx,
		`INSERT INTO notifications (id, user_id, event_id, channel, event_type, title, description, content, read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, $9)
		 RETURNING `+notificationColumns,
		uuid.New().String(), draft.UserID, draft.EventID, string(draft.Channel),
		eventType, draft.Title, draft.Description, draft.Content, s.now(),
	)

	n, err := scanNotification(row)
	if err != nil {
		return Notification{}, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

func (s *PGStorage) Get(ctx context.Context, id string) (*Notification, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id)

	n, err := scanNotification(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return &n, nil
}

func (s *PGStorage) List(ctx context.Context, userID string) ([]Notification, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *PGStorage) MarkRead(ctx context.Context, id string) (Notification, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE notifications SET read = TRUE, read_at = $2
		 WHERE id = $1 AND read = FALSE
		 RETURNING `+notificationColumns,
		id, s.now(),
	)

	n, err := scanNotification(row)
	if err == nil {
		return n, nil
	}
	if !pg.IsNotFoundError(err) {
		return Notification{}, fmt.Errorf("mark notification read: %w", err)
	}

	// No unread row matched: either the record is already read (idempotent
	// no-op success) or it does not exist.
	existing, getErr := s.Get(ctx, id)
	if getErr != nil {
		return Notification{}, getErr
	}
	return *existing, nil
}

func (s *PGStorage) MarkAllRead(ctx context.Context, userID string) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE notifications SET read = TRUE, read_at = $2
		 WHERE user_id = $1 AND read = FALSE`,
		userID, s.now(),
	)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PGStorage) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *PGStorage) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

func (s *PGStorage) CountTotal(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return count, nil
}
