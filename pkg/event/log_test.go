package event_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifier/pkg/event"
)

func TestType_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		typ  event.Type
		want bool
	}{
		{"new audit", event.TypeNewAudit, true},
		{"document updated", event.TypeDocumentUpdated, true},
		{"report ready", event.TypeReportReady, true},
		{"unknown", event.Type("SOMETHING_ELSE"), false},
		{"empty", event.Type(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.typ.IsValid())
		})
	}
}

func TestEvent_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid event", func(t *testing.T) {
		t.Parallel()
		ev := event.Event{ID: "e1", Type: event.TypeNewAudit, Payload: map[string]any{"message": "Audit #7"}}
		assert.NoError(t, ev.Validate())
	})

	t.Run("missing id", func(t *testing.T) {
		t.Parallel()
		ev := event.Event{Type: event.TypeNewAudit}
		assert.ErrorIs(t, ev.Validate(), event.ErrEmptyEventID)
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()
		ev := event.Event{ID: "e1", Type: "BOGUS", Payload: map[string]any{"message": "x"}}
		assert.ErrorIs(t, ev.Validate(), event.ErrInvalidEventType)
	})

	t.Run("nil payload", func(t *testing.T) {
		t.Parallel()
		ev := event.Event{ID: "e1", Type: event.TypeNewAudit}
		assert.ErrorIs(t, ev.Validate(), event.ErrEmptyPayload)
	})

	t.Run("empty payload", func(t *testing.T) {
		t.Parallel()
		ev := event.Event{ID: "e1", Type: event.TypeNewAudit, Payload: map[string]any{}}
		assert.ErrorIs(t, ev.Validate(), event.ErrEmptyPayload)
	})
}

func TestEvent_Message(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Audit #7",
		event.Event{Payload: map[string]any{"message": "Audit #7"}}.Message())
	assert.Equal(t, "", event.Event{Payload: map[string]any{"message": 42}}.Message())
	assert.Equal(t, "", event.Event{}.Message())
}

func TestMemoryLog_AppendAndGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	log := event.NewMemoryLog()

	ev := event.Event{
		ID:        "e1",
		Type:      event.TypeNewAudit,
		Payload:   map[string]any{"message": "Audit #7"},
		CreatedAt: time.Now(),
	}
	require.NoError(t, log.Append(ctx, ev))

	got, err := log.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, ev.Type, got.Type)
	assert.Equal(t, "Audit #7", got.Message())

	_, err = log.Get(ctx, "missing")
	assert.ErrorIs(t, err, event.ErrEventNotFound)
}

func TestMemoryLog_AppendOnly(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	log := event.NewMemoryLog()

	ev := event.Event{ID: "e1", Type: event.TypeNewAudit, Payload: map[string]any{"message": "x"}, CreatedAt: time.Now()}
	require.NoError(t, log.Append(ctx, ev))

	err := log.Append(ctx, ev)
	assert.ErrorIs(t, err, event.ErrDuplicateEventID)
}

func TestMemoryLog_ListNewestFirst(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	log := event.NewMemoryLog()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"e1", "e2", "e3"} {
		require.NoError(t, log.Append(ctx, event.Event{
			ID:        id,
			Type:      event.TypeReportReady,
			Payload:   map[string]any{"message": id},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	events, err := log.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "e3", events[0].ID)
	assert.Equal(t, "e1", events[2].ID)
}

func TestMemoryLog_ValidatesBeforeAppend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	log := event.NewMemoryLog()

	err := log.Append(ctx, event.Event{ID: "e1", Type: "BOGUS"})
	require.ErrorIs(t, err, event.ErrInvalidEventType)

	// Rejected before any state mutation.
	events, err := log.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}
