package domain

import "errors"

// Sentinel errors shared across layers. Callers match with errors.Is;
// adapters and the store wrap these with context via fmt.Errorf("...: %w").
var (
	// ErrSessionNotFound is returned when a session id does not resolve.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidAccessKey is returned when authentication fails.
	ErrInvalidAccessKey = errors.New("invalid access key")

	// ErrEmptyContent is returned for a chat turn with no usable text.
	ErrEmptyContent = errors.New("content must not be empty")

	// ErrLocationNotFound is returned when geocoding yields no match.
	ErrLocationNotFound = errors.New("location not found")

	// ErrProvider marks any transport, non-2xx, or malformed-payload
	// failure from an upstream provider.
	ErrProvider = errors.New("provider error")
)
