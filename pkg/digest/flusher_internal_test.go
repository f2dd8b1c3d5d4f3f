package digest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifier/pkg/event"
	"github.com/dmitrymomot/notifier/pkg/notification"
)

type discardMaterializer struct{}

func (discardMaterializer) Materialize(_ context.Context, _ notification.Draft) (*notification.Notification, error) {
	return &notification.Notification{}, nil
}

func TestFlusher_LockMapBoundedAcrossPeriods(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	acc := NewAccumulator()
	f := NewFlusher(acc, discardMaterializer{})

	// Same user, channel and kind across many calendar days must share one
	// lock entry, or a long-lived process leaks a mutex per period.
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := range 30 {
		at := base.AddDate(0, 0, i)
		key := KeyFor("user-1", notification.ChannelInApp, KindDaily, at)
		require.NoError(t, acc.Add(ctx, key, event.Event{
			ID:        key.Period,
			Type:      event.TypeNewAudit,
			Payload:   map[string]any{"message": "daily"},
			CreatedAt: at,
		}))
		flushed, err := f.FlushBucket(ctx, key)
		require.NoError(t, err)
		assert.True(t, flushed)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Len(t, f.keyLocks, 1)
}
