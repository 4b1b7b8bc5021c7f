package ports

import (
	"context"
	"errors"

	"github.com/ewilliams-labs/cadence/internal/core/domain"
)

// ErrNotFound is returned when a stored record does not exist.
var ErrNotFound = errors.New("not found")

// HistoryRepository persists produced recommendations and the energy measured
// for their tracks.
type HistoryRepository interface {
	SaveRecommendation(ctx context.Context, rec domain.MusicRecommendation, weather domain.WeatherReport) error
	GetRecommendation(ctx context.Context, id string) (domain.MusicRecommendation, error)
	ListRecommendations(ctx context.Context, limit int) ([]domain.MusicRecommendation, error)
	SaveTrackEnergy(ctx context.Context, recommendationID string, track domain.Track) error
	AnalysedTracks(ctx context.Context, recommendationID string) ([]domain.Track, error)
}
