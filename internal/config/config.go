// Package config provides configuration for the chat service.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Development defaults. These must never be used as real secrets; Warn
// logs loudly when a production deployment still carries one of them.
const (
	DefaultAccessKey = "Welc0m3T0Nu3k3r"
	defaultAPIKey    = "default_key"
)

// Config holds the chat service configuration.
type Config struct {
	// Server settings
	HTTPPort int
	AppEnv   string
	LogLevel string

	// Authentication
	AccessKey string

	// Completion provider (OpenAI-compatible)
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	LLMMode       string

	// Weather provider (Open-Meteo)
	WeatherGeoURL       string
	WeatherForecastURL  string
	WeatherUnits        string
	WeatherForecastDays int

	// News provider (NewsAPI)
	NewsAPIKey   string
	NewsBaseURL  string
	NewsPageSize int

	// Composer
	HistoryWindow int

	// Storage
	StoreDriver string
	DatabaseURL string

	// Timeouts
	ProviderTimeout time.Duration
}

// Load loads configuration from a .env file (if present) and the
// environment.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort: getEnvInt("HTTP_PORT", 8080),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		AccessKey: getEnv("ACCESS_KEY", DefaultAccessKey),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", defaultAPIKey),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-5"),
		LLMMode:       getEnv("LLM_MODE", ""),

		WeatherGeoURL:       getEnv("WEATHER_GEO_URL", "https://geocoding-api.open-meteo.com"),
		WeatherForecastURL:  getEnv("WEATHER_FORECAST_URL", "https://api.open-meteo.com"),
		WeatherUnits:        getEnv("WEATHER_UNITS", "imperial"),
		WeatherForecastDays: getEnvInt("WEATHER_FORECAST_DAYS", 7),

		NewsAPIKey:   getEnv("NEWS_API_KEY", defaultAPIKey),
		NewsBaseURL:  getEnv("NEWS_BASE_URL", "https://newsapi.org"),
		NewsPageSize: getEnvInt("NEWS_PAGE_SIZE", 5),

		HistoryWindow: getEnvInt("HISTORY_WINDOW", 10),

		StoreDriver: getEnv("STORE_DRIVER", "memory"),
		DatabaseURL: getEnv("DATABASE_URL", "file:nueker.db?cache=shared&mode=rwc"),

		ProviderTimeout: time.Duration(getEnvInt("PROVIDER_TIMEOUT_MS", 10000)) * time.Millisecond,
	}
	return cfg
}

// IsProduction reports whether the service runs in a production
// deployment.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// WarnInsecureDefaults logs a warning for every credential still holding
// its insecure development default in a production deployment.
func (c *Config) WarnInsecureDefaults(log zerolog.Logger) {
	if !c.IsProduction() {
		return
	}
	if c.AccessKey == DefaultAccessKey {
		log.Warn().Str("var", "ACCESS_KEY").Msg("insecure development default in production")
	}
	if c.OpenAIAPIKey == defaultAPIKey {
		log.Warn().Str("var", "OPENAI_API_KEY").Msg("insecure development default in production")
	}
	if c.NewsAPIKey == defaultAPIKey {
		log.Warn().Str("var", "NEWS_API_KEY").Msg("insecure development default in production")
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
