package store

import "errors"

var (
	// ErrNotFound is returned when a record does not exist for the given id
	// or username.
	ErrNotFound = errors.New("not found")

	// ErrUsernameTaken is the store-level uniqueness conflict surfaced on
	// duplicate registration. The constraint is enforced by the database
	// (unique index / UNIQUE column), not by a check-then-insert.
	ErrUsernameTaken = errors.New("username already taken")
)
