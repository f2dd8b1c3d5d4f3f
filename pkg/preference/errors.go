package preference

import "errors"

var (
	// ErrPreferenceNotFound is returned when no stored or default rule
	// matches the requested tuple.
	ErrPreferenceNotFound = errors.New("preference not found")

	// ErrEmptyUserID is returned when a rule carries no owner.
	ErrEmptyUserID = errors.New("user id is required")

	// ErrInvalidFrequency is returned for an unknown delivery frequency.
	ErrInvalidFrequency = errors.New("invalid delivery frequency")
)
