package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/nueker/nueker/internal/domain"
)

// Authenticate validates the shared access key and creates a fresh
// session. A mismatch yields domain.ErrInvalidAccessKey and no session.
func (s *Service) Authenticate(ctx context.Context, accessKey string) (*domain.Session, error) {
	if subtle.ConstantTimeCompare([]byte(accessKey), []byte(s.config.AccessKey)) != 1 {
		return nil, domain.ErrInvalidAccessKey
	}

	session, err := s.store.CreateSession(ctx, accessKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.log.Info().Str("session_id", session.ID).Msg("session created")
	return session, nil
}
