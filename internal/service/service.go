// Package service implements the chat service: authentication, message
// history, and the intent-routing response composer.
package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/nueker/nueker/internal/config"
	"github.com/nueker/nueker/internal/domain"
	"github.com/nueker/nueker/internal/store"
)

// WeatherProvider fetches normalized weather data for a location name.
type WeatherProvider interface {
	FetchWeather(ctx context.Context, locationName string) (*domain.WeatherSnapshot, error)
}

// NewsProvider fetches normalized news headlines.
type NewsProvider interface {
	FetchNews(ctx context.Context, category, query string) ([]domain.NewsArticle, error)
}

// CompletionProvider generates chat replies and classifies intent.
type CompletionProvider interface {
	CompleteChat(ctx context.Context, history []domain.ChatTurn) (string, error)
	ClassifyIntent(ctx context.Context, utterance string) domain.Intent
}

// Service wires the store and provider adapters behind the chat
// operations.
type Service struct {
	store     store.Store
	weather   WeatherProvider
	news      NewsProvider
	completer CompletionProvider
	config    *config.Config
	log       zerolog.Logger
}

// New creates a Service.
func New(st store.Store, weather WeatherProvider, news NewsProvider, completer CompletionProvider, cfg *config.Config, log zerolog.Logger) *Service {
	return &Service{
		store:     st,
		weather:   weather,
		news:      news,
		completer: completer,
		config:    cfg,
		log:       log.With().Str("component", "service").Logger(),
	}
}
