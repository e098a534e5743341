package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/nueker/nueker/internal/domain"
)

// MockClient is a canned-reply implementation of Completer for local
// development and testing.
type MockClient struct{}

// NewMockClient creates a new mock completion client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

var _ Completer = (*MockClient)(nil)

// CompleteChat echoes the last user turn back as a canned reply.
func (m *MockClient) CompleteChat(_ context.Context, history []domain.ChatTurn) (string, error) {
	var lastUser string
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == domain.RoleUser {
			lastUser = history[i].Content
			break
		}
	}
	if lastUser == "" {
		return "[MOCK] This is a mock response from the completion client.", nil
	}
	return fmt.Sprintf("[MOCK] Received your message: %q. This is a mock response.", truncate(lastUser, 100)), nil
}

// ClassifyIntent applies a keyword heuristic so the weather and news
// branches stay reachable in mock mode.
func (m *MockClient) ClassifyIntent(_ context.Context, utterance string) domain.Intent {
	lower := strings.ToLower(utterance)
	switch {
	case strings.Contains(lower, "weather"):
		// No location slot; the composer falls back to general chat,
		// which asks the user for one.
		return domain.Intent{Type: domain.IntentWeather}
	case strings.Contains(lower, "news"), strings.Contains(lower, "headlines"):
		return domain.Intent{Type: domain.IntentNews}
	default:
		return domain.Intent{Type: domain.IntentGeneral}
	}
}

// truncate truncates a string to the given length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
