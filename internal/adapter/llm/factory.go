package llm

import (
	"time"

	"github.com/rs/zerolog"
)

// ModeMock selects the canned-reply client, letting the server run
// without completion-provider credentials.
const ModeMock = "MOCK"

// NewCompleter creates a completion client based on mode. LLM_MODE=MOCK
// returns a MockClient; anything else returns a real Client.
func NewCompleter(mode, baseURL, apiKey, model string, timeout time.Duration, log zerolog.Logger) Completer {
	if mode == ModeMock {
		log.Info().Msg("LLM_MODE=MOCK detected, using mock completion client")
		return NewMockClient()
	}
	return NewClient(baseURL, apiKey, model, timeout, log)
}
