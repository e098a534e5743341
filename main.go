package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/nueker/nueker/internal/adapter/llm"
	"github.com/nueker/nueker/internal/adapter/news"
	"github.com/nueker/nueker/internal/adapter/weather"
	"github.com/nueker/nueker/internal/config"
	"github.com/nueker/nueker/internal/service"
	"github.com/nueker/nueker/internal/store"
	transport "github.com/nueker/nueker/internal/transport/http"
)

func main() {
	cfg := config.Load()

	log := newLogger(cfg.LogLevel)
	log.Info().
		Int("http_port", cfg.HTTPPort).
		Str("store_driver", cfg.StoreDriver).
		Str("weather_units", cfg.WeatherUnits).
		Msg("starting chat service")
	cfg.WarnInsecureDefaults(log)

	// Initialize store
	st, err := newStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store")
	}
	defer st.Close()

	// Initialize provider adapters
	weatherClient := weather.NewClient(cfg.WeatherGeoURL, cfg.WeatherForecastURL, cfg.WeatherUnits, cfg.WeatherForecastDays, cfg.ProviderTimeout, log)
	newsClient := news.NewClient(cfg.NewsBaseURL, cfg.NewsAPIKey, cfg.NewsPageSize, cfg.ProviderTimeout, log)
	completer := llm.NewCompleter(cfg.LLMMode, cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.ProviderTimeout, log)

	// Initialize service and server
	svc := service.New(st, weatherClient, newsClient, completer, cfg, log)
	server := transport.NewServer(svc)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.HTTPPort).Msg("chat API started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down chat service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown server gracefully")
	}

	log.Info().Msg("chat service stopped")
}

func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(parsed).
		With().
		Timestamp().
		Logger()
}

func newStore(cfg *config.Config) (store.Store, error) {
	if cfg.StoreDriver == "sqlite" {
		return store.NewSQLiteStore(cfg.DatabaseURL)
	}
	return store.NewMemoryStore(), nil
}
