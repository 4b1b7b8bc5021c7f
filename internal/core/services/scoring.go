package services

import (
	"fmt"

	"github.com/ewilliams-labs/cadence/internal/core/domain"
)

// Balanced ratio weights. They sum to exactly 1.0.
const (
	EmotionRatio = 0.5
	WeatherRatio = 0.3
	TimeRatio    = 0.2
)

// activityDamping scales an activity delta so it can only nudge the blended score.
const activityDamping = 0.1

// AttributeScore is one attribute's blended score before and after the activity nudge.
type AttributeScore struct {
	Base               float64 `json:"base_score"`
	ActivityAdjustment float64 `json:"activity_adjustment"`
	Final              float64 `json:"final_score"`
	Calculation        string  `json:"calculation"`
}

// Characteristics is the full scored profile for one emotion/activity/weather/time input.
type Characteristics struct {
	Energy AttributeScore   `json:"energy"`
	Speed  AttributeScore   `json:"speed"`
	Tags   []string         `json:"tags"`
	Vocal  domain.VocalMode `json:"vocal"`
}

// BalancedScore blends the attribute's emotion, weather and time values 50/30/20
// and returns the score together with a reproducible calculation string.
// attr must exist in all three tables; anything else panics.
func BalancedScore(emotion domain.Emotion, weather domain.Weather, tod domain.TimeOfDay, attr domain.Attribute) (float64, string) {
	e := emotion.Profile().Trait(attr)
	w := weather.Influence().Trait(attr)
	t := tod.Influence().Trait(attr)

	score := clamp01(e*EmotionRatio + w*WeatherRatio + t*TimeRatio)
	detail := fmt.Sprintf("%.2f×%g + %.2f×%g + %.2f×%g = %.2f",
		e, EmotionRatio, w, WeatherRatio, t, TimeRatio, score)
	return score, detail
}

// ComprehensiveCharacteristics scores energy and speed, applies the damped
// activity delta, and attaches the emotion's tags and the activity's vocal mode.
func ComprehensiveCharacteristics(emotion domain.Emotion, activity domain.Activity, weather domain.Weather, tod domain.TimeOfDay) Characteristics {
	adj := activity.Adjustment()
	score := func(attr domain.Attribute) AttributeScore {
		base, detail := BalancedScore(emotion, weather, tod, attr)
		delta := adj.Delta(attr) * activityDamping
		return AttributeScore{
			Base:               base,
			ActivityAdjustment: delta,
			Final:              clamp01(base + delta),
			Calculation:        detail,
		}
	}

	return Characteristics{
		Energy: score(domain.AttrEnergy),
		Speed:  score(domain.AttrSpeed),
		Tags:   emotion.Profile().Tags,
		Vocal:  adj.Vocal,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
