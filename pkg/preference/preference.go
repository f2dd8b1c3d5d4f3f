package preference

import (
	"time"

	"github.com/dmitrymomot/notifier/pkg/event"
	"github.com/dmitrymomot/notifier/pkg/notification"
)

// Frequency describes how often notifications for a rule are delivered.
type Frequency string

const (
	FrequencyRealTime Frequency = "REAL_TIME"
	FrequencyDaily    Frequency = "DAILY"
	FrequencyWeekly   Frequency = "WEEKLY"
)

// IsValid reports whether f is a known frequency.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyRealTime, FrequencyDaily, FrequencyWeekly:
		return true
	}
	return false
}

// Preference is a user's standing rule for how a given event type should be
// delivered on a given channel. Rules are never physically deleted, only
// disabled: enabled=false suppresses materialization entirely for the tuple
// regardless of frequency.
//
// At most one rule is effective per (user, event type, channel); when
// duplicates exist the most recently updated wins.
type Preference struct {
	ID        string               `json:"id"`
	UserID    string               `json:"user_id"`
	EventType event.Type           `json:"event_type"`
	Channel   notification.Channel `json:"channel"`
	Frequency Frequency            `json:"frequency"`
	Enabled   bool                 `json:"enabled"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// Validate rejects malformed rules before any state mutation.
func (p Preference) Validate() error {
	if p.UserID == "" {
		return ErrEmptyUserID
	}
	if !p.EventType.IsValid() {
		return event.ErrInvalidEventType
	}
	if !p.Channel.IsValid() {
		return notification.ErrInvalidChannel
	}
	if !p.Frequency.IsValid() {
		return ErrInvalidFrequency
	}
	return nil
}

// Update carries partial changes to an existing rule. Nil fields are left
// untouched.
type Update struct {
	EventType *event.Type
	Channel   *notification.Channel
	Frequency *Frequency
	Enabled   *bool
}

func (u Update) apply(p *Preference, now time.Time) error {
	if u.EventType != nil {
		if !u.EventType.IsValid() {
			return event.ErrInvalidEventType
		}
		p.EventType = *u.EventType
	}
	if u.Channel != nil {
		if !u.Channel.IsValid() {
			return notification.ErrInvalidChannel
		}
		p.Channel = *u.Channel
	}
	if u.Frequency != nil {
		if !u.Frequency.IsValid() {
			return ErrInvalidFrequency
		}
		p.Frequency = *u.Frequency
	}
	if u.Enabled != nil {
		p.Enabled = *u.Enabled
	}
	p.UpdatedAt = now
	return nil
}

// effectiveFrom picks the effective rule for (eventType, channel) out of a
// user's stored rules: last write wins when duplicates exist.
func effectiveFrom(prefs []Preference, et event.Type, ch notification.Channel) (Preference, bool) {
	var (
		winner Preference
		found  bool
	)
	for _, p := range prefs {
		if p.EventType != et || p.Channel != ch {
			continue
		}
		if !found || p.UpdatedAt.After(winner.UpdatedAt) {
			winner = p
			found = true
		}
	}
	return winner, found
}
