package event

import (
	"time"
)

// Type identifies the kind of domain fact an event describes.
type Type string

const (
	TypeNewAudit        Type = "NEW_AUDIT"
	TypeDocumentUpdated Type = "DOCUMENT_UPDATED"
	TypeReportReady     Type = "REPORT_READY"
)

// KnownTypes returns all event types the notifier understands, in a stable
// order. Preference defaults are synthesized from this list.
func KnownTypes() []Type {
	return []Type{TypeNewAudit, TypeDocumentUpdated, TypeReportReady}
}

// IsValid reports whether t is a known event type.
func (t Type) IsValid() bool {
	switch t {
	case TypeNewAudit, TypeDocumentUpdated, TypeReportReady:
		return true
	}
	return false
}

func (t Type) String() string { return string(t) }

// Event is an immutable domain fact. Events are created once by ingestion,
// never mutated, and retained indefinitely in an append-only log. One event
// may fan out into zero or more notifications.
type Event struct {
	ID        string         `json:"id"`
	Type      Type           `json:"type"`
	Payload   map[string]any `json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
}

// Validate rejects malformed events before any state mutation.
func (e Event) Validate() error {
	if e.ID == "" {
		return ErrEmptyEventID
	}
	if !e.Type.IsValid() {
		return ErrInvalidEventType
	}
	if len(e.Payload) == 0 {
		return ErrEmptyPayload
	}
	return nil
}

// Message extracts the human-readable message from the payload, falling back
// to an empty string. The dashboard surfaces payload["message"] as the
// notification body.
func (e Event) Message() string {
	if e.Payload == nil {
		return ""
	}
	if msg, ok := e.Payload["message"].(string); ok {
		return msg
	}
	return ""
}
