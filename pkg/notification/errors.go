package notification

import "errors"

var (
	// ErrNotificationNotFound is returned when operating on a missing or
	// deleted record. Surfaced to the caller, never retried.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrEmptyUserID is returned when a draft carries no owner.
	ErrEmptyUserID = errors.New("user id is required")

	// ErrInvalidChannel is returned when a draft carries an unknown channel.
	ErrInvalidChannel = errors.New("invalid notification channel")

	// ErrConflict is returned when a mutation loses a compare-and-set race
	// against a concurrent writer. Wrap a Storage with WithConflictRetry to
	// retry these a bounded number of times before surfacing.
	ErrConflict = errors.New("notification mutation conflict")
)
