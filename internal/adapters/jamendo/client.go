// Package jamendo implements catalogue search against the Jamendo v3 API.
package jamendo

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/cadence/internal/adapters/httpretry"
	"github.com/ewilliams-labs/cadence/internal/core/domain"
	"github.com/ewilliams-labs/cadence/internal/core/ports"
	"github.com/ewilliams-labs/cadence/internal/logging"
	"github.com/ewilliams-labs/cadence/internal/metrics"
)

const (
	DefaultBaseURL = "https://api.jamendo.com/v3.0"
	// MaxTracks is the number of tracks returned to callers.
	MaxTracks = 20
)

// ErrMissingClientID is returned when no client id is configured.
var ErrMissingClientID = errors.New("jamendo adapter: client id is required")

// Config tunes the client.
type Config struct {
	BaseURL     string
	ClientID    string
	MaxAttempts int
	Backoff     time.Duration
}

// Client is an HTTP client for the Jamendo tracks endpoint.
type Client struct {
	baseURL  string
	clientID string
	retry    *httpretry.Doer
	shuffle  func(n int, swap func(i, j int))
	log      zerolog.Logger
}

// compile-time interface assertion
var _ ports.CatalogSearcher = (*Client)(nil)

// NewClient constructs a Jamendo client.
func NewClient(httpClient *http.Client, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.ClientID) == "" {
		return nil, ErrMissingClientID
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		clientID: cfg.ClientID,
		retry:    httpretry.New(httpClient, "jamendo", cfg.MaxAttempts, cfg.Backoff),
		shuffle:  rand.Shuffle,
		log:      logging.Component("jamendo"),
	}, nil
}

// SearchTracks runs params against the catalogue. An empty result is retried
// once with only the first tag. Randomized requests (those carrying an order or
// offset) are shuffled locally. Results are capped at MaxTracks.
func (c *Client) SearchTracks(ctx context.Context, params domain.APIParams) ([]domain.Track, error) {
	tracks, err := c.search(ctx, params)
	if err != nil {
		return nil, err
	}

	if len(tracks) == 0 {
		relaxed, ok := RelaxedParams(params)
		if ok {
			c.log.Info().Str("fuzzytags", relaxed[domain.ParamTags]).Msg("no results, retrying with relaxed query")
			if tracks, err = c.search(ctx, relaxed); err != nil {
				return nil, err
			}
		}
	}

	if isRandomized(params) {
		c.shuffle(len(tracks), func(i, j int) { tracks[i], tracks[j] = tracks[j], tracks[i] })
	}
	if len(tracks) > MaxTracks {
		tracks = tracks[:MaxTracks]
	}
	return tracks, nil
}

func isRandomized(params domain.APIParams) bool {
	_, order := params[domain.ParamOrder]
	_, offset := params[domain.ParamOffset]
	return order || offset
}

// RelaxedParams keeps only the first tag and drops the speed and vocal
// filters. It reports false when there is no tag to relax to.
func RelaxedParams(params domain.APIParams) (domain.APIParams, bool) {
	tags := params[domain.ParamTags]
	if tags == "" {
		return nil, false
	}
	first, _, _ := strings.Cut(tags, "+")
	return domain.APIParams{
		domain.ParamTags:   first,
		domain.ParamLimit:  "20",
		domain.ParamFormat: "json",
	}, true
}

func (c *Client) search(ctx context.Context, params domain.APIParams) ([]domain.Track, error) {
	start := time.Now()
	tracks, err := c.fetch(ctx, params)
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	metrics.UpstreamRequestDuration.WithLabelValues("jamendo", outcome).Observe(time.Since(start).Seconds())
	return tracks, err
}

func (c *Client) fetch(ctx context.Context, params domain.APIParams) ([]domain.Track, error) {
	endpoint := c.baseURL + "/tracks/?" + c.buildQuery(params)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("jamendo adapter: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.retry.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jamendo adapter: %w: %w", ports.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jamendo adapter: %w: status %d", ports.ErrCatalogUnavailable, resp.StatusCode)
	}

	var payload tracksResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("jamendo adapter: decode: %w", err)
	}
	if payload.Headers.Status != "success" {
		return nil, fmt.Errorf("jamendo adapter: %w: %s", ports.ErrCatalogUnavailable, payload.Headers.ErrorMessage)
	}

	tracks := make([]domain.Track, 0, len(payload.Results))
	for _, r := range payload.Results {
		tracks = append(tracks, r.toDomain())
	}
	if n := len(tracks); n > 0 {
		tracks = dedupe(tracks)
		if dropped := n - len(tracks); dropped > 0 {
			c.log.Debug().Int("dropped", dropped).Msg("collapsed duplicate releases")
		}
	}
	return tracks, nil
}

// buildQuery renders client_id followed by the params in key order. The tag
// separator '+' is kept literal, as the catalogue expects.
func (c *Client) buildQuery(params domain.APIParams) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("client_id=")
	sb.WriteString(url.QueryEscape(c.clientID))
	for _, k := range keys {
		sb.WriteByte('&')
		sb.WriteString(url.QueryEscape(k))
		sb.WriteByte('=')
		sb.WriteString(strings.ReplaceAll(url.QueryEscape(params[k]), "%2B", "+"))
	}
	return sb.String()
}
