// Package store defines the session/message storage interface and
// implementations.
package store

import (
	"context"

	"github.com/nueker/nueker/internal/domain"
)

// Store is the injected persistence capability for sessions and their
// append-only message logs.
type Store interface {
	// CreateSession creates a session with a fresh unique id.
	CreateSession(ctx context.Context, sessionKey string) (*domain.Session, error)

	// GetSession returns the session, or domain.ErrSessionNotFound.
	GetSession(ctx context.Context, id string) (*domain.Session, error)

	// CreateMessage appends to the session's log, assigning id, sequence
	// and timestamp. Returns domain.ErrSessionNotFound for an unknown
	// session and leaves no partial state.
	CreateMessage(ctx context.Context, sessionID string, role domain.Role, content string, metadata *domain.Metadata) (*domain.Message, error)

	// ListMessages returns the session's messages in insertion order.
	// A known session with no messages yields an empty slice; an unknown
	// session yields domain.ErrSessionNotFound.
	ListMessages(ctx context.Context, sessionID string) ([]domain.Message, error)

	// Lifecycle
	Close() error
}
