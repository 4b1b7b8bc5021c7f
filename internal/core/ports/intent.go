package ports

import (
	"context"

	"github.com/ewilliams-labs/cadence/internal/core/domain"
)

// MoodIntent is the emotion and activity read out of a free-text message.
type MoodIntent struct {
	Emotion     domain.Emotion  `json:"emotion"`
	Activity    domain.Activity `json:"activity"`
	Explanation string          `json:"explanation,omitempty"`
}

type MoodInterpreter interface {
	InterpretMood(ctx context.Context, message string) (MoodIntent, error)
}
