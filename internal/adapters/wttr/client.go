// Package wttr implements the weather lookup port against wttr.in's JSON API.
package wttr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/ewilliams-labs/cadence/internal/adapters/httpretry"
	"github.com/ewilliams-labs/cadence/internal/core/domain"
	"github.com/ewilliams-labs/cadence/internal/core/ports"
	"github.com/ewilliams-labs/cadence/internal/logging"
	"github.com/ewilliams-labs/cadence/internal/metrics"
)

const (
	DefaultBaseURL = "https://wttr.in"
	breakerName    = "wttr"
)

// ErrNoCondition is returned when the payload has no current condition.
var ErrNoCondition = errors.New("wttr adapter: response has no current condition")

// Config tunes the client. Zero values pick defaults.
type Config struct {
	BaseURL        string
	MaxAttempts    int
	Backoff        time.Duration
	BreakerTimeout time.Duration
	BreakerTrips   uint32
}

// Client is an HTTP client for wttr.in.
type Client struct {
	baseURL string
	retry   *httpretry.Doer
	cb      *gobreaker.CircuitBreaker[domain.Observation]
}

// compile-time interface assertion
var _ ports.WeatherLookup = (*Client)(nil)

// NewClient constructs a wttr client. The resolver already bounds each
// attempt, so one HTTP attempt per lookup is the default.
func NewClient(httpClient *http.Client, cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = time.Minute
	}
	if cfg.BreakerTrips == 0 {
		cfg.BreakerTrips = 5
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	log := logging.Component("wttr")
	trips := cfg.BreakerTrips
	cb := gobreaker.NewCircuitBreaker[domain.Observation](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= trips
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info().Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		retry:   httpretry.New(httpClient, "wttr", cfg.MaxAttempts, cfg.Backoff),
		cb:      cb,
	}
}

// ByCoordinates fetches current conditions at lat,lon.
func (c *Client) ByCoordinates(ctx context.Context, lat, lon float64) (domain.Observation, error) {
	location := strconv.FormatFloat(lat, 'f', 4, 64) + "," + strconv.FormatFloat(lon, 'f', 4, 64)
	return c.lookup(ctx, location)
}

// ByCity fetches current conditions for a named place.
func (c *Client) ByCity(ctx context.Context, city string) (domain.Observation, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return domain.Observation{}, fmt.Errorf("wttr adapter: %w", &domain.InvalidInputError{Field: "city"})
	}
	return c.lookup(ctx, city)
}

func (c *Client) lookup(ctx context.Context, location string) (domain.Observation, error) {
	start := time.Now()
	obs, err := c.cb.Execute(func() (domain.Observation, error) {
		return c.fetch(ctx, location)
	})

	outcome := "success"
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		outcome = "rejected"
	case err != nil:
		outcome = "failure"
	}
	metrics.UpstreamRequestDuration.WithLabelValues("wttr", outcome).Observe(time.Since(start).Seconds())

	if err != nil {
		return domain.Observation{}, fmt.Errorf("wttr adapter: %s: %w", location, err)
	}
	return obs, nil
}

func (c *Client) fetch(ctx context.Context, location string) (domain.Observation, error) {
	endpoint := fmt.Sprintf("%s/%s?format=j1", c.baseURL, url.PathEscape(location))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Observation{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "cadence/1.0")

	resp, err := c.retry.Do(req)
	if err != nil {
		return domain.Observation{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Observation{}, fmt.Errorf("status %d", resp.StatusCode)
	}

	var payload j1Response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Observation{}, fmt.Errorf("decode: %w", err)
	}
	return toObservation(payload)
}

func toObservation(p j1Response) (domain.Observation, error) {
	if len(p.CurrentCondition) == 0 {
		return domain.Observation{}, ErrNoCondition
	}
	cur := p.CurrentCondition[0]
	temp, err := strconv.ParseFloat(strings.TrimSpace(cur.TempC), 64)
	if err != nil {
		return domain.Observation{}, fmt.Errorf("temp_C %q: %w", cur.TempC, err)
	}

	obs := domain.Observation{
		Description:  strings.TrimSpace(firstValue(cur.WeatherDesc)),
		TemperatureC: temp,
	}
	if len(p.NearestArea) > 0 {
		obs.Area = firstValue(p.NearestArea[0].AreaName)
		obs.Country = firstValue(p.NearestArea[0].Country)
	}
	return obs, nil
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
