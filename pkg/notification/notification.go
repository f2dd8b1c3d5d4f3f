package notification

import (
	"time"

	"github.com/dmitrymomot/notifier/pkg/event"
)

// Channel is the delivery surface for a notification.
type Channel string

const (
	ChannelInApp Channel = "IN_APP"
	ChannelEmail Channel = "EMAIL"
)

// IsValid reports whether c is a known delivery channel.
func (c Channel) IsValid() bool {
	switch c {
	case ChannelInApp, ChannelEmail:
		return true
	}
	return false
}

func (c Channel) String() string { return string(c) }

// Notification is a per-user, per-channel record representing that a user
// should be informed. It carries its own read state: read only transitions
// false to true, never back.
//
// EventID is nil for synthetically created notifications (digests) that are
// not tied to a tracked event. EventType, Title and Description are
// denormalized from the source event at materialization time so a
// notification stays displayable even when it is not backed by a live event.
type Notification struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	EventID     *string    `json:"event_id"`
	Channel     Channel    `json:"channel"`
	EventType   event.Type `json:"event_type,omitempty"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Content     string     `json:"content"`
	Read        bool       `json:"read"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// markAsRead transitions the record to read at the given time.
// Callers must guarantee the record is currently unread.
func (n *Notification) markAsRead(now time.Time) {
	n.Read = true
	n.ReadAt = &now
}

// Draft describes a notification before identity assignment. The resolution
// engine produces drafts; the state store materializes them.
type Draft struct {
	UserID      string     `json:"user_id"`
	EventID     *string    `json:"event_id"`
	Channel     Channel    `json:"channel"`
	EventType   event.Type `json:"event_type,omitempty"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Content     string     `json:"content"`
}

// Validate rejects malformed drafts before any state mutation.
func (d Draft) Validate() error {
	if d.UserID == "" {
		return ErrEmptyUserID
	}
	if !d.Channel.IsValid() {
		return ErrInvalidChannel
	}
	return nil
}
