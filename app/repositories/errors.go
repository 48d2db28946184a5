// Package repositories holds the explicit store handles the handlers are
// given. Each repository wraps an injected *gorm.DB and translates driver
// errors into the package's sentinel errors.
package repositories

import "errors"

var (
	// ErrNotFound is returned when an identifier resolves to no record.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a write violates a uniqueness
	// constraint (one product per user, unique usernames).
	ErrDuplicate = errors.New("duplicate record")

	// ErrInvalidReference is returned when a write points at a missing
	// related record.
	ErrInvalidReference = errors.New("referenced record does not exist")
)
