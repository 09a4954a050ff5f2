// README: Open-Meteo weather and hourly forecast client with a redis response cache and circuit breaker.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"townguide/internal/breaker"
	"townguide/internal/logger"
	"townguide/internal/types"
)

const (
	DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"
	requestTimeout = 4 * time.Second
	hourLayout     = "2006-01-02T15:04"
)

type Config struct {
	BaseURL  string
	CacheTTL time.Duration
	Timezone string
}

// Client answers from redis when it can. A nil redis client disables caching.
type Client struct {
	http    *http.Client
	baseURL string
	rdb     *redis.Client
	ttl     time.Duration
	tz      *time.Location
	breaker *breaker.Breaker
	log     logger.Logger
}

func NewClient(cfg Config, rdb *redis.Client, log logger.Logger) (*Client, error) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Europe/Budapest"
	}
	tz, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("weather: timezone %q: %w", cfg.Timezone, err)
	}
	return &Client{
		http:    &http.Client{Timeout: requestTimeout},
		baseURL: cfg.BaseURL,
		rdb:     rdb,
		ttl:     cfg.CacheTTL,
		tz:      tz,
		breaker: breaker.New("weather", breaker.DefaultConfig(), log),
		log:     log,
	}, nil
}

type forecastResponse struct {
	Current struct {
		Time        string  `json:"time"`
		Temperature float64 `json:"temperature_2m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
	Hourly struct {
		Time          []string  `json:"time"`
		Temperature   []float64 `json:"temperature_2m"`
		Precipitation []int     `json:"precipitation_probability"`
		WeatherCode   []int     `json:"weather_code"`
	} `json:"hourly"`
}

// Current returns the weather now at p.
func (c *Client) Current(ctx context.Context, p types.Point) (*Weather, error) {
	resp, err := c.fetch(ctx, p)
	if err != nil {
		return nil, err
	}
	w := FromCode(resp.Current.Temperature, resp.Current.WeatherCode)
	return &w, nil
}

// ForecastAt returns the forecast hour containing at.
func (c *Client) ForecastAt(ctx context.Context, p types.Point, at time.Time) (*HourlyForecast, error) {
	resp, err := c.fetch(ctx, p)
	if err != nil {
		return nil, err
	}
	h := resp.Hourly
	want := at.In(c.tz).Truncate(time.Hour)
	for i, raw := range h.Time {
		ts, err := time.ParseInLocation(hourLayout, raw, c.tz)
		if err != nil || !ts.Equal(want) {
			continue
		}
		f := HourlyForecast{Time: ts}
		if i < len(h.Temperature) {
			f.TempC = h.Temperature[i]
		}
		if i < len(h.Precipitation) {
			f.RainChancePct = h.Precipitation[i]
		}
		if i < len(h.WeatherCode) {
			f.Code = h.WeatherCode[i]
		}
		f.Description, f.IsRain, _ = describe(f.Code)
		return &f, nil
	}
	return nil, ErrNoForecast
}

func cacheKey(p types.Point) string {
	// ~100 m grid so nearby visitors share an entry
	return fmt.Sprintf("weather:%.3f:%.3f", p.Lat, p.Lng)
}

func (c *Client) fetch(ctx context.Context, p types.Point) (*forecastResponse, error) {
	key := cacheKey(p)
	if c.rdb != nil {
		raw, err := c.rdb.Get(ctx, key).Bytes()
		if err == nil {
			var resp forecastResponse
			if err := json.Unmarshal(raw, &resp); err == nil {
				return &resp, nil
			}
		} else if err != redis.Nil {
			c.log.Debug("weather cache read failed", map[string]interface{}{"error": err})
		}
	}

	out, err := c.breaker.Execute(ctx, func() (interface{}, error) {
		return c.request(ctx, p)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	raw := out.([]byte)

	var resp forecastResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	if c.rdb != nil && c.ttl > 0 {
		if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.log.Debug("weather cache write failed", map[string]interface{}{"error": err})
		}
	}
	return &resp, nil
}

func (c *Client) request(ctx context.Context, p types.Point) ([]byte, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(p.Lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(p.Lng, 'f', 4, 64))
	q.Set("current", "temperature_2m,weather_code")
	q.Set("hourly", "temperature_2m,precipitation_probability,weather_code")
	q.Set("timezone", c.tz.String())
	q.Set("forecast_days", "2")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("open-meteo status %d", res.StatusCode)
	}
	return body, nil
}
