package delivery_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifier/pkg/delivery"
	"github.com/dmitrymomot/notifier/pkg/email"
	"github.com/dmitrymomot/notifier/pkg/event"
	"github.com/dmitrymomot/notifier/pkg/notification"
)

type capturingSender struct {
	mu   sync.Mutex
	sent []email.SendEmailParams
	err  error
}

func (s *capturingSender) SendEmail(_ context.Context, params email.SendEmailParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, params)
	return nil
}

func staticResolver(addr string) delivery.AddressResolver {
	return func(_ context.Context, _ string) (string, error) {
		return addr, nil
	}
}

func TestEmailSink_Send(t *testing.T) {
	t.Parallel()

	draft := notification.Draft{
		UserID:      "user-1",
		Channel:     notification.ChannelEmail,
		EventType:   event.TypeReportReady,
		Title:       "Report ready",
		Description: "Your quarterly report <v2> is available",
		Content:     `{"message":"Your quarterly report is available"}`,
	}

	t.Run("delivers through sender", func(t *testing.T) {
		t.Parallel()

		sender := &capturingSender{}
		sink := delivery.NewEmailSink(sender, staticResolver("user@example.com"))

		require.NoError(t, sink.Send(context.Background(), draft))
		require.Len(t, sender.sent, 1)

		msg := sender.sent[0]
		assert.Equal(t, "user@example.com", msg.SendTo)
		assert.Equal(t, "Report ready", msg.Subject)
		assert.Equal(t, string(event.TypeReportReady), msg.Tag)
		assert.Contains(t, msg.BodyHTML, "Report ready")
		assert.Contains(t, msg.BodyHTML, "&lt;v2&gt;")
	})

	t.Run("sender failure maps to sink failure", func(t *testing.T) {
		t.Parallel()

		sender := &capturingSender{err: email.ErrFailedToSendEmail}
		sink := delivery.NewEmailSink(sender, staticResolver("user@example.com"))

		err := sink.Send(context.Background(), draft)
		assert.ErrorIs(t, err, delivery.ErrSinkFailure)
	})

	t.Run("unresolvable address", func(t *testing.T) {
		t.Parallel()

		sender := &capturingSender{}
		sink := delivery.NewEmailSink(sender, func(_ context.Context, _ string) (string, error) {
			return "", errors.New("user service unavailable")
		})

		err := sink.Send(context.Background(), draft)
		assert.ErrorIs(t, err, delivery.ErrNoAddress)
		assert.Empty(t, sender.sent)
	})

	t.Run("empty address", func(t *testing.T) {
		t.Parallel()

		sender := &capturingSender{}
		sink := delivery.NewEmailSink(sender, staticResolver(""))

		err := sink.Send(context.Background(), draft)
		assert.ErrorIs(t, err, delivery.ErrNoAddress)
	})
}

func TestRecorderSink(t *testing.T) {
	t.Parallel()

	sink := &delivery.RecorderSink{}
	draft := notification.Draft{UserID: "user-1", Channel: notification.ChannelEmail}

	require.NoError(t, sink.Send(context.Background(), draft))
	assert.Len(t, sink.Sent(), 1)

	sink.FailWith = delivery.ErrSinkFailure
	assert.ErrorIs(t, sink.Send(context.Background(), draft), delivery.ErrSinkFailure)
	assert.Len(t, sink.Sent(), 1)
}

func TestNoOpSink_AcknowledgesEverySend(t *testing.T) {
	t.Parallel()

	var sink delivery.Sink = delivery.NoOpSink{}
	assert.NoError(t, sink.Send(context.Background(), notification.Draft{
		UserID:  "user-1",
		Channel: notification.ChannelEmail,
	}))
}
