// Package news normalizes the NewsAPI top-headlines and search endpoints
// into the internal NewsArticle shape.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/nueker/nueker/internal/domain"
)

// Client fetches and normalizes news headlines.
type Client struct {
	baseURL    string
	apiKey     string
	pageSize   int
	httpClient *http.Client
	log        zerolog.Logger
	now        func() time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithNow overrides the clock used for relative publish times.
func WithNow(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a news client against a NewsAPI-compatible base URL.
func NewClient(baseURL, apiKey string, pageSize int, timeout time.Duration, log zerolog.Logger, opts ...Option) *Client {
	if pageSize < 1 {
		pageSize = 5
	}
	c := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		pageSize:   pageSize,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("adapter", "news").Logger(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type newsResponse struct {
	Articles []rawArticle `json:"articles"`
}

type rawArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
	PublishedAt string `json:"publishedAt"`
	URLToImage  string `json:"urlToImage"`
	URL         string `json:"url"`
}

// FetchNews returns up to the configured page size of articles. A query
// searches everything sorted by publish date; otherwise top headlines are
// fetched, filtered by category when one is given. Upstream failures and
// a missing articles collection yield a domain.ErrProvider-wrapped error.
func (c *Client) FetchNews(ctx context.Context, category, query string) ([]domain.NewsArticle, error) {
	var endpoint string
	if query != "" {
		q := url.Values{}
		q.Set("q", query)
		q.Set("sortBy", "publishedAt")
		q.Set("pageSize", strconv.Itoa(c.pageSize))
		endpoint = c.baseURL + "/v2/everything?" + q.Encode()
	} else {
		q := url.Values{}
		q.Set("country", "us")
		q.Set("pageSize", strconv.Itoa(c.pageSize))
		if category != "" {
			q.Set("category", category)
		}
		endpoint = c.baseURL + "/v2/top-headlines?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", domain.ErrProvider)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news request failed: %v: %w", err, domain.ErrProvider)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news API error [%d]: %w", resp.StatusCode, domain.ErrProvider)
	}

	var data newsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode news response: %v: %w", err, domain.ErrProvider)
	}
	if data.Articles == nil {
		return nil, fmt.Errorf("no articles found: %w", domain.ErrProvider)
	}

	now := c.now()
	articles := make([]domain.NewsArticle, 0, len(data.Articles))
	for i, raw := range data.Articles {
		articles = append(articles, domain.NewsArticle{
			ID:          fmt.Sprintf("article-%d", i),
			Headline:    defaultString(raw.Title, "No title available"),
			Summary:     defaultString(raw.Description, "No description available"),
			Source:      defaultString(raw.Source.Name, "Unknown source"),
			PublishTime: FormatTimeAgo(raw.PublishedAt, now),
			ImageURL:    raw.URLToImage,
			URL:         raw.URL,
		})
	}

	c.log.Debug().Str("category", category).Str("query", query).Int("count", len(articles)).Msg("news fetched")
	return articles, nil
}

// FormatTimeAgo renders a publish timestamp as a relative string
// ("3 hours ago"), with the plural suffix applied whenever the count is
// not exactly one.
func FormatTimeAgo(published string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, published)
	if err != nil {
		return "recently"
	}
	diff := now.Sub(t)
	hours := int(diff.Hours())
	days := hours / 24

	switch {
	case days > 0:
		return fmt.Sprintf("%d day%s ago", days, plural(days))
	case hours > 0:
		return fmt.Sprintf("%d hour%s ago", hours, plural(hours))
	default:
		minutes := int(diff.Minutes())
		return fmt.Sprintf("%d minute%s ago", minutes, plural(minutes))
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
