package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/nueker/nueker/internal/domain"
)

// Reply templates. The weather/news apologies make a failed provider
// call a successful turn with degraded content; general chat has no such
// fallback, so its failures stay errors.
const (
	weatherReplyTemplate = "Here's the current weather information for %s:"
	weatherApology       = "I couldn't fetch weather data for that location. Please check the location name and try again."
	newsReplyTemplate    = "Here are the latest %s headlines:"
	newsReplyDefault     = "Here are the latest news headlines:"
	newsApology          = "I couldn't fetch news articles at the moment. Please try again later."
)

// outcome is the result of one dispatch branch.
type outcome struct {
	kind     outcomeKind
	content  string
	metadata *domain.Metadata
	err      error
}

type outcomeKind int

const (
	// outcomeOK carries reply content plus optional structured metadata.
	outcomeOK outcomeKind = iota
	// outcomeDegraded carries a templated apology and no metadata; the
	// turn still succeeds end-to-end.
	outcomeDegraded
	// outcomeFatal aborts the turn; no assistant message is persisted.
	outcomeFatal
)

// HandleTurn runs one chat turn: persist the user message, classify its
// intent, dispatch to the matching branch, persist the assistant reply,
// and return it. The user message is persisted before any collaborator
// call so the record that the user spoke survives collaborator failure.
func (s *Service) HandleTurn(ctx context.Context, sessionID, content string) (*domain.Reply, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrEmptyContent
	}
	if _, err := s.store.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	if _, err := s.store.CreateMessage(ctx, sessionID, domain.RoleUser, content, nil); err != nil {
		return nil, fmt.Errorf("failed to persist user message: %w", err)
	}

	intent := s.completer.ClassifyIntent(ctx, content)
	s.log.Debug().
		Str("session_id", sessionID).
		Str("intent", string(intent.Type)).
		Str("location", intent.Location).
		Str("category", intent.Category).
		Msg("intent classified")

	out := s.dispatch(ctx, sessionID, content, intent)
	if out.kind == outcomeFatal {
		return nil, out.err
	}

	msg, err := s.store.CreateMessage(ctx, sessionID, domain.RoleAssistant, out.content, out.metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to persist assistant message: %w", err)
	}

	return &domain.Reply{
		Content:   msg.Content,
		Metadata:  msg.Metadata,
		Timestamp: msg.CreatedAt,
	}, nil
}

// dispatch routes the turn to the branch selected by the classified
// intent. A weather intent without a location falls through to general
// chat, where the persona prompt asks the user for one.
func (s *Service) dispatch(ctx context.Context, sessionID, content string, intent domain.Intent) outcome {
	switch {
	case intent.Type == domain.IntentWeather && intent.Location != "":
		return s.weatherBranch(ctx, intent.Location)
	case intent.Type == domain.IntentNews:
		return s.newsBranch(ctx, intent.Category)
	default:
		return s.generalBranch(ctx, sessionID, content)
	}
}

func (s *Service) weatherBranch(ctx context.Context, location string) outcome {
	snapshot, err := s.weather.FetchWeather(ctx, location)
	if err != nil {
		s.log.Warn().Err(err).Str("location", location).Msg("weather branch degraded")
		return outcome{kind: outcomeDegraded, content: weatherApology}
	}

	metadata, err := domain.NewMetadata(domain.MetadataTypeWeather, snapshot)
	if err != nil {
		s.log.Warn().Err(err).Msg("weather metadata marshal failed")
		return outcome{kind: outcomeDegraded, content: weatherApology}
	}
	return outcome{
		kind:     outcomeOK,
		content:  fmt.Sprintf(weatherReplyTemplate, snapshot.Location),
		metadata: metadata,
	}
}

func (s *Service) newsBranch(ctx context.Context, category string) outcome {
	// The classifier only populates category; query stays empty here.
	articles, err := s.news.FetchNews(ctx, category, "")
	if err != nil {
		s.log.Warn().Err(err).Str("category", category).Msg("news branch degraded")
		return outcome{kind: outcomeDegraded, content: newsApology}
	}

	metadata, err := domain.NewMetadata(domain.MetadataTypeNews, articles)
	if err != nil {
		s.log.Warn().Err(err).Msg("news metadata marshal failed")
		return outcome{kind: outcomeDegraded, content: newsApology}
	}

	content := newsReplyDefault
	if category != "" {
		content = fmt.Sprintf(newsReplyTemplate, category)
	}
	return outcome{kind: outcomeOK, content: content, metadata: metadata}
}

func (s *Service) generalBranch(ctx context.Context, sessionID, content string) outcome {
	messages, err := s.store.ListMessages(ctx, sessionID)
	if err != nil {
		return outcome{kind: outcomeFatal, err: fmt.Errorf("failed to load history: %w", err)}
	}

	if window := s.config.HistoryWindow; len(messages) > window {
		messages = messages[len(messages)-window:]
	}

	history := make([]domain.ChatTurn, 0, len(messages)+1)
	for _, msg := range messages {
		history = append(history, domain.ChatTurn{Role: msg.Role, Content: msg.Content})
	}
	history = append(history, domain.ChatTurn{Role: domain.RoleUser, Content: content})

	reply, err := s.completer.CompleteChat(ctx, history)
	if err != nil {
		return outcome{kind: outcomeFatal, err: fmt.Errorf("chat completion failed: %w", err)}
	}
	return outcome{kind: outcomeOK, content: reply}
}
