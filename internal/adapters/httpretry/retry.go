// Package httpretry retries idempotent outbound HTTP requests on transport
// errors, 429 and 5xx responses, honouring Retry-After.
package httpretry

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/cadence/internal/logging"
)

const (
	DefaultMaxAttempts = 3
	DefaultBackoff     = 500 * time.Millisecond
)

// Doer sends requests through an http.Client with bounded retries.
type Doer struct {
	client      *http.Client
	name        string
	maxAttempts int
	baseBackoff time.Duration
	log         zerolog.Logger
}

// New builds a Doer. Non-positive attempts or backoff fall back to defaults.
// name prefixes errors and tags log lines.
func New(client *http.Client, name string, maxAttempts int, baseBackoff time.Duration) *Doer {
	if client == nil {
		client = http.DefaultClient
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if baseBackoff <= 0 {
		baseBackoff = DefaultBackoff
	}
	return &Doer{
		client:      client,
		name:        name,
		maxAttempts: maxAttempts,
		baseBackoff: baseBackoff,
		log:         logging.Component(name),
	}
}

// MaxAttempts reports the configured attempt budget.
func (d *Doer) MaxAttempts() int { return d.maxAttempts }

// Do sends req, retrying with exponential backoff. The caller owns the
// returned body.
func (d *Doer) Do(req *http.Request) (*http.Response, error) {
	if req.Body != nil && req.GetBody == nil {
		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("%s adapter: read request body: %w", d.name, err)
		}
		_ = req.Body.Close()
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(bodyBytes)), nil
		}
	}

	ctx := req.Context()
	for attempt := 0; attempt < d.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s adapter: request canceled: %w", d.name, err)
		}

		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("%s adapter: reset request body: %w", d.name, err)
			}
			req.Body = body
		}

		// #nosec G107 -- URL is built from a configured base URL
		resp, err := d.client.Do(req)
		retryAfter, retry := ShouldRetry(resp, err)
		if !retry {
			return resp, err
		}

		attemptNum := attempt + 1
		if err != nil {
			d.log.Warn().Err(err).Int("attempt", attemptNum).Int("max", d.maxAttempts).Msg("request failed, retrying")
		} else if resp != nil {
			d.log.Warn().Int("status", resp.StatusCode).Int("attempt", attemptNum).Int("max", d.maxAttempts).Msg("retryable status")
			_ = resp.Body.Close()
		}

		if attempt == d.maxAttempts-1 {
			if err != nil {
				return nil, fmt.Errorf("%s adapter: request failed after %d attempts: %w", d.name, d.maxAttempts, err)
			}
			if resp != nil {
				return nil, fmt.Errorf("%s adapter: request failed after %d attempts: status %d", d.name, d.maxAttempts, resp.StatusCode)
			}
			return nil, fmt.Errorf("%s adapter: request failed after %d attempts", d.name, d.maxAttempts)
		}

		backoff := d.baseBackoff * time.Duration(1<<attempt)
		if retryAfter > 0 {
			backoff = retryAfter
		}
		if err := SleepWithContext(ctx, backoff); err != nil {
			return nil, fmt.Errorf("%s adapter: %w", d.name, err)
		}
	}

	return nil, fmt.Errorf("%s adapter: request failed after %d attempts", d.name, d.maxAttempts)
}

// ShouldRetry classifies a round trip. The duration is the server's
// Retry-After hint, zero when absent.
func ShouldRetry(resp *http.Response, err error) (time.Duration, bool) {
	if err != nil {
		return 0, true
	}
	if resp == nil {
		return 0, false
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return ParseRetryAfter(resp), true
	}
	return 0, false
}

// ParseRetryAfter reads delta-seconds or an HTTP date.
func ParseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	retryAfter := resp.Header.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if when, err := http.ParseTime(retryAfter); err == nil {
		if until := time.Until(when); until > 0 {
			return until
		}
	}
	return 0
}

func SleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("request canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
