package llm

import (
	"context"

	"github.com/nueker/nueker/internal/domain"
)

// Completer defines the completion-provider operations the composer
// depends on.
type Completer interface {
	// CompleteChat sends the conversation history and returns the reply
	// text, or a provider error.
	CompleteChat(ctx context.Context, history []domain.ChatTurn) (string, error)

	// ClassifyIntent classifies a single utterance. It never fails;
	// provider or parse problems degrade to the general intent.
	ClassifyIntent(ctx context.Context, utterance string) domain.Intent
}
