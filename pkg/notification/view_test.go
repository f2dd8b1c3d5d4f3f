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

func TestView_Query_Ordering(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	current := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	s := notification.NewMemoryStorage(notification.WithClock(func() time.Time { return current }))
	view := notification.NewView(s)

	first, err := s.Create(ctx, draftFor("u1"))
	require.NoError(t, err)

	current = current.Add(time.Minute)
	second, err := s.Create(ctx, draftFor("u1"))
	require.NoError(t, err)

	// Same timestamp as second: tie broken by id.
	third, err := s.Create(ctx, draftFor("u1"))
	require.NoError(t, err)

	got, err := view.Query(ctx, "u1", notification.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, first.ID, got[2].ID, "oldest last")
	tieIDs := []string{got[0].ID, got[1].ID}
	assert.ElementsMatch(t, []string{second.ID, third.ID}, tieIDs)
	assert.Less(t, got[0].ID, got[1].ID, "ties broken by id for determinism")
}

func TestView_Query_EventTypeFilter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := notification.NewMemoryStorage()
	log := event.NewMemoryLog()
	view := notification.NewView(s, notification.WithEventLog(log))

	// Denormalized type present.
	audit, err := s.Create(ctx, notification.Draft{
		UserID:    "u1",
		Channel:   notification.ChannelInApp,
		EventType: event.TypeNewAudit,
		Content:   "Audit #7",
	})
	require.NoError(t, err)

	// No denormalized type, resolved through the linked event.
	linked := event.Event{ID: "e1", Type: event.TypeReportReady, Payload: map[string]any{"message": "report"}, CreatedAt: time.Now()}
	require.NoError(t, log.Append(ctx, linked))
	eventID := linked.ID
	report, err := s.Create(ctx, notification.Draft{
		UserID:  "u1",
		EventID: &eventID,
		Channel: notification.ChannelInApp,
		Content: "Report ready",
	})
	require.NoError(t, err)

	// Denormalized field wins over the linked event's type.
	conflictingID := linked.ID
	_, err = s.Create(ctx, notification.Draft{
		UserID:    "u1",
		EventID:   &conflictingID,
		Channel:   notification.ChannelInApp,
		EventType: event.TypeDocumentUpdated,
		Content:   "Doc changed",
	})
	require.NoError(t, err)

	audits, err := view.Query(ctx, "u1", notification.Filter{EventType: event.TypeNewAudit})
	require.NoError(t, err)
	require.Len(t, audits, 1)
	assert.Equal(t, audit.ID, audits[0].ID)

	reports, err := view.Query(ctx, "u1", notification.Filter{EventType: event.TypeReportReady})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, report.ID, reports[0].ID)
}

func TestView_Query_Search(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := notification.NewMemoryStorage()
	view := notification.NewView(s)

	_, err := s.Create(ctx, notification.Draft{
		UserID:  "u1",
		Channel: notification.ChannelInApp,
		Title:   "New Audit",
		Content: "Quarterly numbers",
	})
	require.NoError(t, err)
	_, err = s.Create(ctx, notification.Draft{
		UserID:      "u1",
		Channel:     notification.ChannelInApp,
		Description: "report is READY",
		Content:     "irrelevant",
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		search string
		want   int
	}{
		{"case-insensitive title match", "audit", 1},
		{"case-insensitive description match", "Ready", 1},
		{"content match", "quarterly", 1},
		{"empty search matches everything", "", 2},
		{"no match", "billing", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := view.Query(ctx, "u1", notification.Filter{SearchText: tt.search})
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestView_Query_ConcurrentSearch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := notification.NewMemoryStorage()
	view := notification.NewView(s)

	_, err := s.Create(ctx, notification.Draft{
		UserID:  "u1",
		Channel: notification.ChannelInApp,
		Title:   "New Audit",
		Content: "Quarterly numbers",
	})
	require.NoError(t, err)

	// Case folding happens per call, so parallel searches must not
	// interfere with each other.
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := view.Query(ctx, "u1", notification.Filter{SearchText: "AUDIT"})
			assert.NoError(t, err)
			assert.Len(t, got, 1)
		}()
	}
	wg.Wait()
}

func TestView_Query_ChannelFilter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := notification.NewMemoryStorage()
	view := notification.NewView(s)

	_, err := s.Create(ctx, draftFor("u1"))
	require.NoError(t, err)
	email := draftFor("u1")
	email.Channel = notification.ChannelEmail
	_, err = s.Create(ctx, email)
	require.NoError(t, err)

	inApp, err := view.Query(ctx, "u1", notification.Filter{Channel: notification.ChannelInApp})
	require.NoError(t, err)
	assert.Len(t, inApp, 1)
}

func TestView_Aggregates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := notification.NewMemoryStorage()
	view := notification.NewView(s)

	// Empty store: readRate defined as 0, not a division by zero.
	agg, err := view.Aggregates(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, notification.Aggregates{Unread: 0, Total: 0, ReadRate: 0}, agg)

	var ids []string
	for range 4 {
		n, err := s.Create(ctx, draftFor("u1"))
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}

	_, err = s.MarkRead(ctx, ids[0])
	require.NoError(t, err)

	agg, err = view.Aggregates(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, notification.Aggregates{Unread: 3, Total: 4, ReadRate: 25}, agg)

	// All read: rate hits 100.
	_, err = s.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	agg, err = view.Aggregates(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, notification.Aggregates{Unread: 0, Total: 4, ReadRate: 100}, agg)

	// Deletion is reflected immediately.
	require.NoError(t, s.Delete(ctx, ids[0]))
	agg, err = view.Aggregates(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, agg.Total)
}

func TestReadRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		total  int
		unread int
		want   int
	}{
		{"empty store", 0, 0, 0},
		{"all unread", 10, 10, 0},
		{"all read", 10, 0, 100},
		{"two thirds read rounds", 3, 1, 67},
		{"one third read rounds", 3, 2, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, notification.ReadRate(tt.total, tt.unread))
		})
	}
}
