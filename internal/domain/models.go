// Package domain defines the core domain models for the chat service.
package domain

import (
	"encoding/json"
	"time"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MetadataType tags the structured payload attached to an assistant message.
type MetadataType string

const (
	MetadataTypeWeather MetadataType = "weather"
	MetadataTypeNews    MetadataType = "news"
)

// Session represents a conversation created after access-key validation.
type Session struct {
	ID         string    `json:"id"`
	SessionKey string    `json:"sessionKey"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Message is a single entry in a session's append-only log.
// Seq is assigned by the store and strictly increases in insertion order,
// so retrieval order is stable even when timestamps collide.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Metadata  *Metadata `json:"metadata,omitempty"`
	Seq       int64     `json:"-"`
	CreatedAt time.Time `json:"timestamp"`
}

// Metadata is the tagged structured payload of an assistant message:
// a weather snapshot or a list of news articles.
type Metadata struct {
	Type MetadataType    `json:"type"`
	Data json.RawMessage `json:"data"`
}

// NewMetadata marshals v into a tagged payload.
func NewMetadata(t MetadataType, v any) (*Metadata, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &Metadata{Type: t, Data: data}, nil
}

// Reply is the normalized result of one chat turn.
type Reply struct {
	Content   string    `json:"message"`
	Metadata  *Metadata `json:"metadata,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// IntentType is the classified purpose of a user utterance.
type IntentType string

const (
	IntentWeather IntentType = "weather"
	IntentNews    IntentType = "news"
	IntentGeneral IntentType = "general"
)

// Intent is the classifier output: a type plus optional extracted slots.
type Intent struct {
	Type     IntentType `json:"type"`
	Location string     `json:"location,omitempty"`
	Category string     `json:"category,omitempty"`
}

// ChatTurn is one role/content pair sent to the completion provider.
type ChatTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// DailyForecast is one day of the multi-day outlook, ordered
// chronologically starting today.
type DailyForecast struct {
	Date         string `json:"date"`
	HighTemp     int    `json:"highTemp"`
	LowTemp      int    `json:"lowTemp"`
	Condition    string `json:"condition"`
	WeatherCode  int    `json:"weatherCode"`
	UVIndex      int    `json:"uvIndex"`
	ChanceOfRain int    `json:"chanceOfRain"`
}

// WeatherSnapshot is the normalized current-conditions view for a
// resolved location. All numeric display fields are rounded to integers;
// units follow the adapter's configured unit system.
type WeatherSnapshot struct {
	Location      string          `json:"location"`
	Temperature   int             `json:"temperature"`
	FeelsLike     int             `json:"feelsLike"`
	Condition     string          `json:"condition"`
	Humidity      int             `json:"humidity"`
	WindSpeed     int             `json:"windSpeed"`
	WindDirection string          `json:"windDirection"`
	Visibility    int             `json:"visibility"`
	Pressure      int             `json:"pressure"`
	UVIndex       int             `json:"uvIndex"`
	Timestamp     string          `json:"timestamp"`
	Forecast      []DailyForecast `json:"forecast"`
}

// NewsArticle is one normalized headline entry.
type NewsArticle struct {
	ID          string `json:"id"`
	Headline    string `json:"headline"`
	Summary     string `json:"summary"`
	Source      string `json:"source"`
	PublishTime string `json:"publishTime"`
	ImageURL    string `json:"imageUrl,omitempty"`
	URL         string `json:"url,omitempty"`
}
