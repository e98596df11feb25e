// Package id provides UUIDv7 identifiers for all platform entities.
// UUIDv7 is time-ordered, so primary keys sort by creation time and
// cluster well in Postgres B-trees.
package id

import (
	"github.com/google/uuid"
)

// ID is an alias for UUID, used across all entities.
type ID = uuid.UUID

// New generates a new UUIDv7.
func New() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does; fall back to V4.
		return uuid.New()
	}
	return id
}

// Parse converts a string to an ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// ParsePtr parses a string into an *ID. Used for optional references
// arriving as request fields or query parameters.
func ParsePtr(s string) (*ID, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// MustParse converts a string to an ID, panicking on error.
// Use only for constants and tests.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns the zero-value UUID.
func Nil() ID {
	return uuid.Nil
}

// IsNil reports whether id is the zero value.
func IsNil(id ID) bool {
	return id == uuid.Nil
}
