package delivery

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrymomot/notifier/pkg/notification"
)

// ErrSinkFailure indicates the external channel refused or failed the send.
// The caller treats it as a negative acknowledgment: nothing is persisted.
var ErrSinkFailure = errors.New("delivery.errors.sink_failure")

// Sink delivers a draft through an external channel. A nil error is the
// acknowledgment the resolution engine waits for before persisting an
// email-channel notification.
type Sink interface {
	Send(ctx context.Context, draft notification.Draft) error
}

// NoOpSink acknowledges every send without doing anything. Useful in
// environments where outbound email is disabled.
type NoOpSink struct{}

func (NoOpSink) Send(ctx context.Context, draft notification.Draft) error {
	return nil
}

// RecorderSink captures sent drafts for inspection in tests.
type RecorderSink struct {
	mu       sync.Mutex
	sent     []notification.Draft
	FailWith error
}

func (r *RecorderSink) Send(ctx context.Context, draft notification.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return r.FailWith
	}
	r.sent = append(r.sent, draft)
	return nil
}

// Sent returns a copy of the drafts acknowledged so far.
func (r *RecorderSink) Sent() []notification.Draft {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notification.Draft(nil), r.sent...)
}
