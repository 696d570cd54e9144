package store

import "errors"

var (
	// ErrNotFound is returned when a referenced user, chat or message id
	// does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUsernameTaken is returned by CreateUser when the display name is
	// already registered. Username uniqueness is enforced at creation only.
	ErrUsernameTaken = errors.New("username is already taken")
)
