package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/nueker/nueker/internal/config"
	"github.com/nueker/nueker/internal/domain"
	"github.com/nueker/nueker/internal/service"
	"github.com/nueker/nueker/internal/store"
)

type stubWeather struct{}

func (stubWeather) FetchWeather(context.Context, string) (*domain.WeatherSnapshot, error) {
	return &domain.WeatherSnapshot{Location: "Paris, France"}, nil
}

type stubNews struct{}

func (stubNews) FetchNews(context.Context, string, string) ([]domain.NewsArticle, error) {
	return []domain.NewsArticle{}, nil
}

type stubCompleter struct {
	intent domain.Intent
	reply  string
	err    error
}

func (s stubCompleter) CompleteChat(context.Context, []domain.ChatTurn) (string, error) {
	return s.reply, s.err
}

func (s stubCompleter) ClassifyIntent(context.Context, string) domain.Intent {
	return s.intent
}

func newTestHandler(t *testing.T, completer service.CompletionProvider) (*Handler, *store.MemoryStore) {
	t.Helper()

	st := store.NewMemoryStore()
	cfg := &config.Config{AccessKey: "secret", HistoryWindow: 10}
	svc := service.New(st, stubWeather{}, stubNews{}, completer, cfg, zerolog.New(io.Discard))
	return NewHandler(svc), st
}

func defaultCompleter() stubCompleter {
	return stubCompleter{intent: domain.Intent{Type: domain.IntentGeneral}, reply: "hi there"}
}

func doJSON(e *echo.Echo, h echo.HandlerFunc, method, path string, body any) (*httptest.ResponseRecorder, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, h(c)
}

func TestAuthenticateHandler(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t, defaultCompleter())

	rec, err := doJSON(e, h.Authenticate, http.MethodPost, "/api/auth", map[string]string{"accessKey": "secret"})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["sessionId"] == "" || resp["message"] != "Authentication successful" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthenticateHandlerWrongKey(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t, defaultCompleter())

	rec, err := doJSON(e, h.Authenticate, http.MethodPost, "/api/auth", map[string]string{"accessKey": "nope"})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestChatHandler(t *testing.T) {
	e := echo.New()
	h, st := newTestHandler(t, defaultCompleter())

	session, err := st.CreateSession(context.Background(), "secret")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	rec, err := doJSON(e, h.Chat, http.MethodPost, "/api/chat", map[string]string{
		"content":   "hello",
		"sessionId": session.ID,
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Message   string `json:"message"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "hi there" || resp.Timestamp == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestChatHandlerInvalidSession(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t, defaultCompleter())

	rec, err := doJSON(e, h.Chat, http.MethodPost, "/api/chat", map[string]string{
		"content":   "hello",
		"sessionId": "missing",
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestChatHandlerEmptyContent(t *testing.T) {
	e := echo.New()
	h, st := newTestHandler(t, defaultCompleter())

	session, err := st.CreateSession(context.Background(), "secret")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	rec, err := doJSON(e, h.Chat, http.MethodPost, "/api/chat", map[string]string{
		"content":   "",
		"sessionId": session.ID,
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestChatHandlerCompletionFailure(t *testing.T) {
	e := echo.New()
	h, st := newTestHandler(t, stubCompleter{
		intent: domain.Intent{Type: domain.IntentGeneral},
		err:    fmt.Errorf("llm down: %w", domain.ErrProvider),
	})

	session, err := st.CreateSession(context.Background(), "secret")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	rec, err := doJSON(e, h.Chat, http.MethodPost, "/api/chat", map[string]string{
		"content":   "hello",
		"sessionId": session.ID,
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestGetMessagesHandler(t *testing.T) {
	e := echo.New()
	h, st := newTestHandler(t, defaultCompleter())

	session, err := st.CreateSession(context.Background(), "secret")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	for _, content := range []string{"first", "second"} {
		if _, err := st.CreateMessage(context.Background(), session.ID, domain.RoleUser, content, nil); err != nil {
			t.Fatalf("CreateMessage failed: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/chat/"+session.ID+"/messages", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("sessionId")
	c.SetParamValues(session.ID)

	if err := h.GetMessages(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var msgs []domain.Message
	if err := json.Unmarshal(rec.Body.Bytes(), &msgs); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Content != "first" || msgs[1].Content != "second" {
		t.Fatalf("unexpected messages: %+v", msgs)
	}
}

func TestGetMessagesHandlerNotFound(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t, defaultCompleter())

	req := httptest.NewRequest(http.MethodGet, "/api/chat/missing/messages", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("sessionId")
	c.SetParamValues("missing")

	if err := h.GetMessages(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t, defaultCompleter())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Health(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
