package notification_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifier/pkg/event"
	"github.com/dmitrymomot/notifier/pkg/notification"
)

func draftFor(userID string) notification.Draft {
	return notification.Draft{
		UserID:    userID,
		Channel:   notification.ChannelInApp,
		EventType: event.TypeNewAudit,
		Title:     "New audit",
		Content:   "Audit #7",
	}
}

func TestMemoryStorage_Create(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := notification.NewMemoryStorage()

	n, err := s.Create(ctx, draftFor("u1"))
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "u1", n.UserID)
	assert.False(t, n.Read)
	assert.Nil(t, n.ReadAt)
	assert.False(t, n.CreatedAt.IsZero())

	got, err := s.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, n, *got)
}

func TestMemoryStorage_Create_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := notification.NewMemoryStorage()

	_, err := s.Create(ctx, notification.Draft{Channel: notification.ChannelInApp})
	assert.ErrorIs(t, err, notification.ErrEmptyUserID)

	_, err = s.Create(ctx, notification.Draft{UserID: "u1", Channel: "SMS"})
	assert.ErrorIs(t, err, notification.ErrInvalidChannel)

	total, err := s.CountTotal(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, total, "no partial notification may be left behind")
}

func TestMemoryStorage_CreatedAtIsIngestionTime(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ingestion := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	s := notification.NewMemoryStorage(notification.WithClock(func() time.Time { return ingestion }))

	// A digest materialized long after its events still sorts by the time it
	// entered the store.
	n, err := s.Create(ctx, draftFor("u1"))
	require.NoError(t, err)
	assert.Equal(t, ingestion, n.CreatedAt)
}

func TestMemoryStorage_MarkRead_Idempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := notification.NewMemoryStorage()

	n, err := s.Create(ctx, draftFor("u1"))
	require.NoError(t, err)

	first, err := s.MarkRead(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, first.Read)
	require.NotNil(t, first.ReadAt)

	second, err := s.MarkRead(ctx, n.ID)
	require.NoError(t, err, "second mark must be a no-op success, not an error")
	assert.Equal(t, first, second)
}

func TestMemoryStorage_MarkRead_NotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := notification.NewMemoryStorage()

	_, err := s.MarkRead(ctx, "missing")
	assert.ErrorIs(t, err, notification.ErrNotificationNotFound)
}

func TestMemoryStorage_MarkAllRead(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := notification.NewMemoryStorage()

	for range 5 {
		_, err := s.Create(ctx, draftFor("u1"))
		require.NoError(t, err)
	}
	other, err := s.Create(ctx, draftFor("u2"))
	require.NoError(t, err)

	count, err := s.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	unread, err := s.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, unread)

	// Other users are untouched.
	otherRecord, err := s.Get(ctx, other.ID)
	require.NoError(t, err)
	assert.False(t, otherRecord.Read)

	// A second bulk mark transitions nothing.
	count, err = s.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMemoryStorage_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := notification.NewMemoryStorage()

	n, err := s.Create(ctx, draftFor("u1"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, n.ID))

	_, err = s.Get(ctx, n.ID)
	assert.ErrorIs(t, err, notification.ErrNotificationNotFound)

	assert.ErrorIs(t, s.Delete(ctx, n.ID), notification.ErrNotificationNotFound)

	// Excluded from all aggregate counts immediately.
	total, err := s.CountTotal(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, total)
	unread, err := s.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestMemoryStorage_ConcurrentMarkAllReadAndMarkRead(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := notification.NewMemoryStorage()

	const total = 200
	ids := make([]string, 0, total)
	for range total {
		n, err := s.Create(ctx, draftFor("u1"))
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}

	var wg sync.WaitGroup
	individual := 0
	var mu sync.Mutex

	// Half the records race individual marks against one bulk mark.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for _, id := range ids[:total/2] {
			before, err := s.Get(ctx, id)
			if err != nil {
				continue
			}
			wasUnread := !before.Read
			if _, err := s.MarkRead(ctx, id); err == nil && wasUnread {
				mu.Lock()
				individual++
				mu.Unlock()
			}
		}
	}()

	var bulkCount int
	wg.Add(1)
	go func() {
		defer wg.Done()
		var err error
		bulkCount, err = s.MarkAllRead(ctx, "u1")
		assert.NoError(t, err)
	}()

	wg.Wait()

	// Whatever the interleaving, every record ends read and the bulk call's
	// count never exceeds the records it could have touched.
	unread, err := s.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, unread)
	assert.LessOrEqual(t, bulkCount, total)
	assert.GreaterOrEqual(t, bulkCount, total/2)
}

func TestMemoryStorage_ConcurrentMarkAllReadAndDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := notification.NewMemoryStorage()

	const total = 100
	ids := make([]string, 0, total)
	for range total {
		n, err := s.Create(ctx, draftFor("u1"))
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for _, id := range ids[:total/2] {
			_ = s.Delete(ctx, id)
		}
	}()
	go func() {
		defer wg.Done()
		_, err := s.MarkAllRead(ctx, "u1")
		assert.NoError(t, err)
	}()
	wg.Wait()

	// Deleted records must not be resurrected by the bulk mark.
	for _, id := range ids[:total/2] {
		_, err := s.Get(ctx, id)
		assert.ErrorIs(t, err, notification.ErrNotificationNotFound)
	}

	remaining, err := s.CountTotal(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, total/2, remaining)
}
