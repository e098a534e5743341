package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nueker/nueker/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-key", "gpt-5", time.Second, zerolog.New(nil))
}

func TestCompleteChat(t *testing.T) {
	var gotReq chatCompletionRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Fatalf("missing auth header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		fmt.Fprint(w, `{"id":"c1","model":"gpt-5","choices":[{"index":0,"message":{"role":"assistant","content":"hello there"},"finish_reason":"stop"}]}`)
	})

	reply, err := c.CompleteChat(context.Background(), []domain.ChatTurn{
		{Role: domain.RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("CompleteChat failed: %v", err)
	}
	if reply != "hello there" {
		t.Fatalf("unexpected reply: %q", reply)
	}

	if len(gotReq.Messages) != 2 {
		t.Fatalf("expected system prompt + user turn, got %d messages", len(gotReq.Messages))
	}
	if gotReq.Messages[0].Role != "system" {
		t.Fatalf("first message must be the system persona, got %q", gotReq.Messages[0].Role)
	}
	if gotReq.Messages[1].Content != "hi" {
		t.Fatalf("unexpected user turn: %+v", gotReq.Messages[1])
	}
}

func TestCompleteChatEmptyChoiceFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"c1","model":"gpt-5","choices":[]}`)
	})

	reply, err := c.CompleteChat(context.Background(), []domain.ChatTurn{{Role: domain.RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("CompleteChat failed: %v", err)
	}
	if reply != noContentFallback {
		t.Fatalf("expected fallback text, got %q", reply)
	}
}

func TestCompleteChatProviderError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"message":"boom","type":"server_error"}}`)
	})

	_, err := c.CompleteChat(context.Background(), []domain.ChatTurn{{Role: domain.RoleUser, Content: "hi"}})
	if !errors.Is(err, domain.ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}

func TestClassifyIntent(t *testing.T) {
	var gotReq chatCompletionRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		fmt.Fprint(w, `{"id":"c1","model":"gpt-5","choices":[{"index":0,"message":{"role":"assistant","content":"{\"type\":\"weather\",\"location\":\"Paris\"}"}}]}`)
	})

	intent := c.ClassifyIntent(context.Background(), "what's the weather in Paris?")
	if intent.Type != domain.IntentWeather || intent.Location != "Paris" {
		t.Fatalf("unexpected intent: %+v", intent)
	}
	if gotReq.ResponseFormat["type"] != "json_object" {
		t.Fatalf("expected json_object response format, got %+v", gotReq.ResponseFormat)
	}
}

func TestClassifyIntentDegradesOnProviderError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	intent := c.ClassifyIntent(context.Background(), "hello")
	if intent.Type != domain.IntentGeneral {
		t.Fatalf("expected general intent, got %+v", intent)
	}
}

func TestClassifyIntentDegradesOnBadJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"c1","model":"gpt-5","choices":[{"index":0,"message":{"role":"assistant","content":"not json"}}]}`)
	})

	intent := c.ClassifyIntent(context.Background(), "hello")
	if intent.Type != domain.IntentGeneral {
		t.Fatalf("expected general intent, got %+v", intent)
	}
}

func TestClassifyIntentDegradesOnUnknownType(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"c1","model":"gpt-5","choices":[{"index":0,"message":{"role":"assistant","content":"{\"type\":\"sports\"}"}}]}`)
	})

	intent := c.ClassifyIntent(context.Background(), "hello")
	if intent.Type != domain.IntentGeneral {
		t.Fatalf("expected general intent, got %+v", intent)
	}
}

func TestFactorySelectsMock(t *testing.T) {
	completer := NewCompleter(ModeMock, "", "", "gpt-5", time.Second, zerolog.New(nil))
	if _, ok := completer.(*MockClient); !ok {
		t.Fatalf("expected MockClient, got %T", completer)
	}

	completer = NewCompleter("", "http://localhost", "", "gpt-5", time.Second, zerolog.New(nil))
	if _, ok := completer.(*Client); !ok {
		t.Fatalf("expected Client, got %T", completer)
	}
}
