// Package weather normalizes the Open-Meteo geocoding and forecast APIs
// into the internal WeatherSnapshot shape.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/nueker/nueker/internal/domain"
)

// Units selects the unit system requested from the forecast API. A given
// deployment stays internally consistent between current and forecast
// fields.
const (
	UnitsImperial = "imperial"
	UnitsMetric   = "metric"
)

const (
	metersPerMile = 1609.34
	metersPerKm   = 1000.0
)

// cardinals are the 16-point compass labels indexed by round(deg/22.5) mod 16.
var cardinals = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// conditionByCode maps Open-Meteo WMO weather codes to display text.
var conditionByCode = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	56: "Light freezing drizzle",
	57: "Dense freezing drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	66: "Light freezing rain",
	67: "Heavy freezing rain",
	71: "Slight snow fall",
	73: "Moderate snow fall",
	75: "Heavy snow fall",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

// Client fetches and normalizes weather data.
type Client struct {
	geoURL       string
	forecastURL  string
	units        string
	forecastDays int
	httpClient   *http.Client
	log          zerolog.Logger
	now          func() time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithNow overrides the clock used for the observation timestamp.
func WithNow(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a weather client. geoURL and forecastURL are the
// Open-Meteo geocoding and forecast base URLs.
func NewClient(geoURL, forecastURL, units string, forecastDays int, timeout time.Duration, log zerolog.Logger, opts ...Option) *Client {
	if units != UnitsMetric {
		units = UnitsImperial
	}
	if forecastDays < 1 {
		forecastDays = 1
	}
	c := &Client{
		geoURL:       geoURL,
		forecastURL:  forecastURL,
		units:        units,
		forecastDays: forecastDays,
		httpClient:   &http.Client{Timeout: timeout},
		log:          log.With().Str("adapter", "weather").Logger(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type geoResponse struct {
	Results []struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Name      string  `json:"name"`
		Country   string  `json:"country"`
	} `json:"results"`
}

type forecastResponse struct {
	Current struct {
		Temperature         float64 `json:"temperature_2m"`
		ApparentTemperature float64 `json:"apparent_temperature"`
		RelativeHumidity    float64 `json:"relative_humidity_2m"`
		WeatherCode         int     `json:"weather_code"`
		SurfacePressure     float64 `json:"surface_pressure"`
		WindSpeed           float64 `json:"wind_speed_10m"`
		WindDirection       float64 `json:"wind_direction_10m"`
		Visibility          float64 `json:"visibility"`
	} `json:"current"`
	Daily struct {
		Time           []string  `json:"time"`
		TemperatureMax []float64 `json:"temperature_2m_max"`
		TemperatureMin []float64 `json:"temperature_2m_min"`
		WeatherCode    []int     `json:"weather_code"`
		UVIndexMax     []float64 `json:"uv_index_max"`
		PrecipProbMax  []float64 `json:"precipitation_probability_max"`
	} `json:"daily"`
}

// FetchWeather resolves locationName and returns the normalized current
// conditions plus the configured multi-day forecast. Geocoding misses
// yield domain.ErrLocationNotFound; everything else upstream yields a
// domain.ErrProvider-wrapped error. Failures are never retried here.
func (c *Client) FetchWeather(ctx context.Context, locationName string) (*domain.WeatherSnapshot, error) {
	lat, lon, resolved, err := c.geocode(ctx, locationName)
	if err != nil {
		return nil, err
	}

	fc, err := c.forecast(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	cur := fc.Current
	snapshot := &domain.WeatherSnapshot{
		Location:      resolved,
		Temperature:   round(cur.Temperature),
		FeelsLike:     round(cur.ApparentTemperature),
		Condition:     Condition(cur.WeatherCode),
		Humidity:      round(cur.RelativeHumidity),
		WindSpeed:     round(cur.WindSpeed),
		WindDirection: CardinalDirection(cur.WindDirection),
		Visibility:    round(cur.Visibility / c.visibilityDivisor()),
		Pressure:      round(cur.SurfacePressure),
		Timestamp:     c.now().Format("1/2/2006, 3:04:05 PM"),
		Forecast:      []domain.DailyForecast{},
	}
	if len(fc.Daily.UVIndexMax) > 0 {
		snapshot.UVIndex = round(fc.Daily.UVIndexMax[0])
	}

	for i, date := range fc.Daily.Time {
		day := domain.DailyForecast{Date: date}
		if i < len(fc.Daily.TemperatureMax) {
			day.HighTemp = round(fc.Daily.TemperatureMax[i])
		}
		if i < len(fc.Daily.TemperatureMin) {
			day.LowTemp = round(fc.Daily.TemperatureMin[i])
		}
		if i < len(fc.Daily.WeatherCode) {
			day.WeatherCode = fc.Daily.WeatherCode[i]
			day.Condition = Condition(fc.Daily.WeatherCode[i])
		}
		if i < len(fc.Daily.UVIndexMax) {
			day.UVIndex = round(fc.Daily.UVIndexMax[i])
		}
		if i < len(fc.Daily.PrecipProbMax) {
			day.ChanceOfRain = round(fc.Daily.PrecipProbMax[i])
		}
		snapshot.Forecast = append(snapshot.Forecast, day)
	}

	c.log.Debug().Str("location", resolved).Int("forecast_days", len(snapshot.Forecast)).Msg("weather fetched")
	return snapshot, nil
}

func (c *Client) geocode(ctx context.Context, locationName string) (lat, lon float64, resolved string, err error) {
	q := url.Values{}
	q.Set("name", locationName)
	q.Set("count", "1")
	q.Set("language", "en")
	q.Set("format", "json")

	var geo geoResponse
	if err := c.getJSON(ctx, c.geoURL+"/v1/search?"+q.Encode(), &geo); err != nil {
		return 0, 0, "", err
	}
	if len(geo.Results) == 0 {
		return 0, 0, "", fmt.Errorf("geocode %q: %w", locationName, domain.ErrLocationNotFound)
	}

	r := geo.Results[0]
	resolved = r.Name
	if r.Country != "" {
		resolved = r.Name + ", " + r.Country
	}
	return r.Latitude, r.Longitude, resolved, nil
}

func (c *Client) forecast(ctx context.Context, lat, lon float64) (*forecastResponse, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("current", "temperature_2m,apparent_temperature,relative_humidity_2m,weather_code,surface_pressure,wind_speed_10m,wind_direction_10m,visibility")
	q.Set("daily", "temperature_2m_max,temperature_2m_min,weather_code,uv_index_max,precipitation_probability_max")
	q.Set("timezone", "auto")
	q.Set("forecast_days", strconv.Itoa(c.forecastDays))
	if c.units == UnitsImperial {
		q.Set("temperature_unit", "fahrenheit")
		q.Set("wind_speed_unit", "mph")
		q.Set("precipitation_unit", "inch")
	}

	var fc forecastResponse
	if err := c.getJSON(ctx, c.forecastURL+"/v1/forecast?"+q.Encode(), &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", domain.ErrProvider)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("weather request failed: %v: %w", err, domain.ErrProvider)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("weather API error [%d]: %w", resp.StatusCode, domain.ErrProvider)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode weather response: %v: %w", err, domain.ErrProvider)
	}
	return nil
}

func (c *Client) visibilityDivisor() float64 {
	if c.units == UnitsMetric {
		return metersPerKm
	}
	return metersPerMile
}

// Condition maps a WMO weather code to display text; unknown codes map
// to "Unknown".
func Condition(code int) string {
	if text, ok := conditionByCode[code]; ok {
		return text
	}
	return "Unknown"
}

// CardinalDirection converts a wind bearing in degrees to one of the 16
// compass labels, rounding to the nearest label and wrapping mod 16.
func CardinalDirection(degrees float64) string {
	return cardinals[round(degrees/22.5)%16]
}

func round(f float64) int {
	return int(math.Round(f))
}
