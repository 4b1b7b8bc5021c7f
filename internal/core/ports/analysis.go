package ports

import "github.com/ewilliams-labs/cadence/internal/core/domain"

// AnalysisQueue accepts tracks for background audio analysis. Enqueue must not
// block; it reports false when the job was dropped.
type AnalysisQueue interface {
	Enqueue(recommendationID string, track domain.Track) bool
}
