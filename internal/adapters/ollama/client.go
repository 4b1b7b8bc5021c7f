// Package ollama provides an adapter for the Ollama LLM service.
// It reads a listener's mood out of free text by sending the message to a local
// Ollama instance and parsing the structured JSON reply into a ports.MoodIntent.
package ollama

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/cadence/internal/core/domain"
	"github.com/ewilliams-labs/cadence/internal/core/ports"
	"github.com/ewilliams-labs/cadence/internal/logging"
	"github.com/ewilliams-labs/cadence/internal/metrics"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2:3b"
)

// ErrEmptyReply is returned when the model answers with no content.
var ErrEmptyReply = errors.New("ollama: empty response")

// Config tunes the client.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	model      string
	prompt     string
	httpClient *http.Client
	log        zerolog.Logger
}

// compile-time interface assertion
var _ ports.MoodInterpreter = (*Client)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error,omitempty"`
}

// moodReply is what the model is asked to produce.
type moodReply struct {
	Emotion     string `json:"emotion"`
	Activity    string `json:"activity"`
	Explanation string `json:"explanation"`
}

func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		model:      cfg.Model,
		prompt:     SystemPrompt(),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logging.Component("ollama"),
	}
}

// SystemPrompt lists the accepted emotion and activity names so the model can
// only answer inside the closed vocabularies.
func SystemPrompt() string {
	emotions := make([]string, 0, len(domain.AllEmotions()))
	for _, e := range domain.AllEmotions() {
		emotions = append(emotions, e.String())
	}
	activities := make([]string, 0, len(domain.AllActivities()))
	for _, a := range domain.AllActivities() {
		activities = append(activities, a.String())
	}
	return "You are the Cadence mood reader. Read how the listener feels and what they are doing.\n\n" +
		"Rules:\n" +
		"emotion must be exactly one of: " + strings.Join(emotions, ", ") + "\n" +
		"activity must be exactly one of: " + strings.Join(activities, ", ") + "\n" +
		"explanation is one short sentence.\n" +
		"Output: Return ONLY a JSON object with the keys emotion, activity, explanation. No conversational text.\n" +
		"Example: 'long night of revision ahead, a bit anxious' -> {\"emotion\":\"stressed\",\"activity\":\"study\",\"explanation\":\"Exam pressure while studying.\"}"
}

// InterpretMood asks the model for an emotion and activity. Replies outside the
// vocabularies are rejected with domain.ErrInvalidInput.
func (c *Client) InterpretMood(ctx context.Context, message string) (ports.MoodIntent, error) {
	start := time.Now()
	intent, err := c.interpret(ctx, message)
	outcome := "success"
	if err != nil {
		outcome = "failure"
		c.log.Warn().Err(err).Msg("mood interpretation failed")
	}
	metrics.UpstreamRequestDuration.WithLabelValues("ollama", outcome).Observe(time.Since(start).Seconds())
	return intent, err
}

func (c *Client) interpret(ctx context.Context, message string) (ports.MoodIntent, error) {
	payload := chatRequest{
		Model:  c.model,
		Stream: false,
		Format: "json",
		Messages: []chatMessage{
			{Role: "system", Content: c.prompt},
			{Role: "user", Content: message},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return ports.MoodIntent{}, fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return ports.MoodIntent{}, fmt.Errorf("ollama: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.MoodIntent{}, fmt.Errorf("ollama: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ports.MoodIntent{}, fmt.Errorf("ollama: unexpected status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return ports.MoodIntent{}, fmt.Errorf("ollama: decode response: %w", err)
	}
	if parsed.Error != "" {
		return ports.MoodIntent{}, fmt.Errorf("ollama: %s", parsed.Error)
	}
	if strings.TrimSpace(parsed.Message.Content) == "" {
		return ports.MoodIntent{}, ErrEmptyReply
	}

	return parseReply(parsed.Message.Content)
}

func parseReply(content string) (ports.MoodIntent, error) {
	var reply moodReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		return ports.MoodIntent{}, fmt.Errorf("ollama: decode mood: %w", err)
	}
	emotion, err := domain.ParseEmotion(reply.Emotion)
	if err != nil {
		return ports.MoodIntent{}, fmt.Errorf("ollama: %w", err)
	}
	activity, err := domain.ParseActivity(reply.Activity)
	if err != nil {
		return ports.MoodIntent{}, fmt.Errorf("ollama: %w", err)
	}
	return ports.MoodIntent{
		Emotion:     emotion,
		Activity:    activity,
		Explanation: strings.TrimSpace(reply.Explanation),
	}, nil
}
