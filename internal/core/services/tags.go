package services

import (
	"sort"

	"github.com/ewilliams-labs/cadence/internal/core/domain"
)

// maxSelectedTags keeps the catalogue query permissive.
const maxSelectedTags = 2

// TagScore is a candidate tag and its blended fit.
type TagScore struct {
	Tag   string  `json:"tag"`
	Score float64 `json:"score"`
}

// SelectTags ranks candidate tags by 50/30/20 fit and keeps the best two.
// Emotion fit is always 1.0 because candidates come from the emotion's own
// profile. Ties keep declaration order.
func SelectTags(emotion domain.Emotion, weather domain.Weather, tod domain.TimeOfDay, candidates []string) []TagScore {
	scored := make([]TagScore, 0, len(candidates))
	for _, tag := range candidates {
		scored = append(scored, TagScore{Tag: tag, Score: tagFit(weather, tod, tag)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > maxSelectedTags {
		scored = scored[:maxSelectedTags]
	}
	return scored
}

func tagFit(weather domain.Weather, tod domain.TimeOfDay, tag string) float64 {
	const emotionFit = 1.0
	return emotionFit*EmotionRatio + weather.TagFit(tag)*WeatherRatio + tod.TagFit(tag)*TimeRatio
}
