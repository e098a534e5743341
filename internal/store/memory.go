package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nueker/nueker/internal/domain"
)

// MemoryStore keeps sessions and message logs in process memory. It is
// the default backend; everything is lost on restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	messages map[string][]domain.Message
	seq      int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*domain.Session),
		messages: make(map[string][]domain.Message),
	}
}

var _ Store = (*MemoryStore)(nil)

// CreateSession creates a session with a fresh unique id.
func (s *MemoryStore) CreateSession(_ context.Context, sessionKey string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := &domain.Session{
		ID:         uuid.New().String(),
		SessionKey: sessionKey,
		CreatedAt:  time.Now(),
	}
	s.sessions[session.ID] = session
	s.messages[session.ID] = []domain.Message{}
	return session, nil
}

// GetSession returns the session, or domain.ErrSessionNotFound.
func (s *MemoryStore) GetSession(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("get session %q: %w", id, domain.ErrSessionNotFound)
	}
	cp := *session
	return &cp, nil
}

// CreateMessage appends to the session's log. The sequence counter, not
// the wall clock, defines retrieval order: two messages created in the
// same tick still come back in program order.
func (s *MemoryStore) CreateMessage(_ context.Context, sessionID string, role domain.Role, content string, metadata *domain.Metadata) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return nil, fmt.Errorf("create message in session %q: %w", sessionID, domain.ErrSessionNotFound)
	}

	s.seq++
	msg := domain.Message{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Metadata:  metadata,
		Seq:       s.seq,
		CreatedAt: time.Now(),
	}
	s.messages[sessionID] = append(s.messages[sessionID], msg)
	return &msg, nil
}

// ListMessages returns the session's messages in insertion order.
func (s *MemoryStore) ListMessages(_ context.Context, sessionID string) ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs, ok := s.messages[sessionID]
	if !ok {
		return nil, fmt.Errorf("list messages for session %q: %w", sessionID, domain.ErrSessionNotFound)
	}
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
