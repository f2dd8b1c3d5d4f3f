package core

import "strings"

// ValidationError maps field names to human-readable problems. It renders
// as 422 with per-field details.
type ValidationError map[string][]string

// Error implements the error interface.
func (v ValidationError) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(v))
	for field, msgs := range v {
		parts = append(parts, field+": "+strings.Join(msgs, ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a message for the field.
func (v ValidationError) Add(field, msg string) {
	v[field] = append(v[field], msg)
}
