// Package llm provides the OpenAI-compatible completion client used for
// general chat and intent classification.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nueker/nueker/internal/domain"
)

// systemPrompt is the fixed assistant persona sent ahead of every chat
// completion.
const systemPrompt = `You are NUEKER, an advanced AI assistant. You provide honest, direct responses while maintaining respect and avoiding NSFW content. You can discuss controversial topics objectively and provide weather/news information when requested. Be conversational but professional. If asked about weather, respond that you need location details. If asked about news, respond that you can provide current headlines.`

// intentPrompt constrains the classifier to a small JSON object.
const intentPrompt = `Analyze the user message and determine intent. Respond with JSON in this format:
{
  "type": "weather" | "news" | "general",
  "location": "extracted location if weather request",
  "category": "extracted category if news request"
}`

// noContentFallback is returned when the provider answers with an empty
// choice. It is a successful reply, not an error.
const noContentFallback = "I apologize, but I couldn't generate a response at this time."

// Client is the OpenAI-compatible chat completions client. The base URL
// is configurable so any compatible provider can serve it.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	log        zerolog.Logger
}

var _ Completer = (*Client)(nil)

// NewClient creates a completion client.
func NewClient(baseURL, apiKey, model string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log.With().Str("adapter", "llm").Logger(),
	}
}

// chatCompletionRequest is the OpenAI chat completion request.
type chatCompletionRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    *float64          `json:"temperature,omitempty"`
	MaxTokens      *int              `json:"max_tokens,omitempty"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
}

type choice struct {
	Index        int          `json:"index"`
	Message      *chatMessage `json:"message,omitempty"`
	FinishReason string       `json:"finish_reason,omitempty"`
}

type errorResponse struct {
	Error *apiError `json:"error"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// CompleteChat sends the conversation history, prefixed with the fixed
// system persona, and returns the first choice's text. An empty choice
// degrades to a fixed apology string; transport and API failures are
// returned as domain.ErrProvider-wrapped errors and are the caller's
// problem.
func (c *Client) CompleteChat(ctx context.Context, history []domain.ChatTurn) (string, error) {
	temperature := 0.7
	maxTokens := 1000

	messages := make([]chatMessage, 0, len(history)+1)
	messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	for _, turn := range history {
		messages = append(messages, chatMessage{Role: string(turn.Role), Content: turn.Content})
	}

	resp, err := c.createChatCompletion(ctx, &chatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil || resp.Choices[0].Message.Content == "" {
		return noContentFallback, nil
	}
	return resp.Choices[0].Message.Content, nil
}

// ClassifyIntent asks the model for a constrained JSON intent object.
// It never fails: any transport, API, or parse problem degrades to the
// general intent so the turn falls back to ordinary chat.
func (c *Client) ClassifyIntent(ctx context.Context, utterance string) domain.Intent {
	general := domain.Intent{Type: domain.IntentGeneral}

	resp, err := c.createChatCompletion(ctx, &chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: intentPrompt},
			{Role: "user", Content: utterance},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("intent classification failed, defaulting to general")
		return general
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		return general
	}

	var intent domain.Intent
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &intent); err != nil {
		c.log.Warn().Err(err).Msg("intent response was not valid JSON, defaulting to general")
		return general
	}
	switch intent.Type {
	case domain.IntentWeather, domain.IntentNews, domain.IntentGeneral:
		return intent
	default:
		return general
	}
}

func (c *Client) createChatCompletion(ctx context.Context, req *chatCompletionRequest) (*chatCompletionResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %v: %w", err, domain.ErrProvider)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v: %w", err, domain.ErrProvider)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != nil {
			return nil, fmt.Errorf("LLM API error [%d]: %s (type: %s): %w", resp.StatusCode, errResp.Error.Message, errResp.Error.Type, domain.ErrProvider)
		}
		return nil, fmt.Errorf("LLM API error [%d]: %s: %w", resp.StatusCode, string(respBody), domain.ErrProvider)
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %v: %w", err, domain.ErrProvider)
	}
	return &result, nil
}
