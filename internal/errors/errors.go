package errors

import "errors"

// Domain sentinels. Services return these; the HTTP layer maps them to
// status codes via Map.
var (
	// ErrProfilesIncomplete signals that one or both users lack a
	// (complete) profile on a path that requires it, e.g. creating a
	// match. Never swallowed: the caller must surface it.
	ErrProfilesIncomplete = errors.New("user profiles not found or incomplete")

	// ErrInvalidOperation signals a structurally invalid request such
	// as a self-referential like/dislike.
	ErrInvalidOperation = errors.New("invalid operation")

	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrUnauthorized  = errors.New("unauthorized")
)

// Is re-exports errors.Is so call sites only import this package.
func Is(err, target error) bool { return errors.Is(err, target) }
