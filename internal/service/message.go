package service

import (
	"context"
	"fmt"

	"github.com/nueker/nueker/internal/domain"
)

// ListMessages returns the session's full message log in insertion
// order. An unknown session yields domain.ErrSessionNotFound.
func (s *Service) ListMessages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	messages, err := s.store.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	return messages, nil
}
