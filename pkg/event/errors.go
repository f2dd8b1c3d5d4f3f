package event

import "errors"

var (
	// ErrEventNotFound is returned when an event is not found in the log.
	ErrEventNotFound = errors.New("event not found")

	// ErrEmptyEventID is returned when an event is appended without an id.
	ErrEmptyEventID = errors.New("event id is required")

	// ErrInvalidEventType is returned when an event carries an unknown type.
	// Validation failures are rejected before any state mutation.
	ErrInvalidEventType = errors.New("invalid event type")

	// ErrEmptyPayload is returned when an event carries no payload at all.
	// Every event needs at least one field to surface in a notification body.
	ErrEmptyPayload = errors.New("event payload is required")

	// ErrDuplicateEventID is returned when appending an id that already exists.
	// The log is append-only; an existing event is never overwritten.
	ErrDuplicateEventID = errors.New("duplicate event id")
)
