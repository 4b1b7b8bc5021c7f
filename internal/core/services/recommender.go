package services

import (
	"fmt"
	"time"

	"github.com/ewilliams-labs/cadence/internal/core/domain"
)

// Recommender turns emotion, activity, weather and time of day into catalogue
// parameters with an explanation of every derived value.
// It holds no mutable state and is safe for concurrent use.
type Recommender struct {
	now func() time.Time
}

// RecommenderOption configures a Recommender.
type RecommenderOption func(*Recommender)

// WithClock overrides the clock used to derive the time of day.
func WithClock(now func() time.Time) RecommenderOption {
	return func(r *Recommender) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRecommender constructs a Recommender.
func NewRecommender(opts ...RecommenderOption) *Recommender {
	r := &Recommender{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CurrentTimeOfDay buckets the recommender's clock hour.
func (r *Recommender) CurrentTimeOfDay() domain.TimeOfDay {
	return domain.TimeOfDayForHour(r.now().Hour())
}

// Recommend produces a complete recommendation. When tod is nil the time of
// day comes from the clock. Out-of-range enum values are rejected before any
// scoring happens.
func (r *Recommender) Recommend(emotion domain.Emotion, activity domain.Activity, weather domain.Weather, tod *domain.TimeOfDay, randomize bool) (domain.MusicRecommendation, error) {
	if err := validateInputs(emotion, activity, weather, tod); err != nil {
		return domain.MusicRecommendation{}, err
	}

	timeOfDay := r.CurrentTimeOfDay()
	if tod != nil {
		timeOfDay = *tod
	}

	ch := ComprehensiveCharacteristics(emotion, activity, weather, timeOfDay)
	selected := SelectTags(emotion, weather, timeOfDay, ch.Tags)
	params, extras := Assemble(ch, selected, randomize)
	_, speedLabel := QuantizeSpeed(ch.Speed.Final)

	explanations := make([]domain.RecommendationScore, 0, len(selected)+2)
	breakdowns := make([]domain.RatioBreakdown, 0, len(selected)+1)

	for _, ts := range selected {
		weatherFit := weather.TagFit(ts.Tag)
		timeFit := timeOfDay.TagFit(ts.Tag)
		emotionContrib := 1.0 * EmotionRatio
		weatherContrib := weatherFit * WeatherRatio
		timeContrib := timeFit * TimeRatio

		explanations = append(explanations, domain.RecommendationScore{
			Parameter:    "tags",
			Value:        ts.Tag,
			EmotionScore: 1.0,
			WeatherScore: weatherFit,
			TimeScore:    timeFit,
			FinalScore:   ts.Score,
			Reasoning: fmt.Sprintf("'%s' tag: emotion %.2f + weather %.2f + time %.2f = %.2f",
				ts.Tag, emotionContrib, weatherContrib, timeContrib, ts.Score),
		})
		breakdowns = append(breakdowns, domain.RatioBreakdown{
			Parameter:           "tag_" + ts.Tag,
			EmotionContribution: emotionContrib,
			WeatherContribution: weatherContrib,
			TimeContribution:    timeContrib,
			FinalValue:          ts.Tag,
			CalculationDetail:   fmt.Sprintf("50%%×1.0 + 30%%×%.1f + 20%%×%.1f", weatherFit, timeFit),
		})
	}

	emotionSpeed := emotion.Profile().Speed
	weatherSpeed := weather.Influence().Speed
	timeSpeed := timeOfDay.Influence().Speed
	explanations = append(explanations, domain.RecommendationScore{
		Parameter:    "speed",
		Value:        speedLabel,
		EmotionScore: emotionSpeed,
		WeatherScore: weatherSpeed,
		TimeScore:    timeSpeed,
		FinalScore:   ch.Speed.Final,
		Reasoning: fmt.Sprintf("speed: %s + activity(%+.2f) = %.2f",
			ch.Speed.Calculation, ch.Speed.ActivityAdjustment, ch.Speed.Final),
	})
	breakdowns = append(breakdowns, domain.RatioBreakdown{
		Parameter:           "speed",
		EmotionContribution: emotionSpeed * EmotionRatio,
		WeatherContribution: weatherSpeed * WeatherRatio,
		TimeContribution:    timeSpeed * TimeRatio,
		FinalValue:          speedLabel,
		CalculationDetail:   ch.Speed.Calculation,
	})

	if extras != nil {
		explanations = append(explanations, domain.RecommendationScore{
			Parameter:  "randomization",
			Value:      fmt.Sprintf("order: %s, offset: %d", extras.Order, extras.Offset),
			FinalScore: 1.0,
			Reasoning: fmt.Sprintf("random page: sorted by %s starting at %d, %s fetched for local shuffle",
				extras.Order, extras.Offset, extras.Limit),
		})
	}

	return domain.MusicRecommendation{
		Emotion:        emotion,
		Activity:       activity,
		Weather:        weather,
		TimeOfDay:      timeOfDay,
		APIParams:      params,
		Explanation:    explanations,
		RatioBreakdown: breakdowns,
		Confidence:     Confidence(breakdowns),
		CreatedAt:      r.now().UTC(),
	}, nil
}

func validateInputs(emotion domain.Emotion, activity domain.Activity, weather domain.Weather, tod *domain.TimeOfDay) error {
	switch {
	case !emotion.Valid():
		return &domain.InvalidInputError{Field: "emotion", Value: emotion.String()}
	case !activity.Valid():
		return &domain.InvalidInputError{Field: "activity", Value: activity.String()}
	case !weather.Valid():
		return &domain.InvalidInputError{Field: "weather", Value: weather.String()}
	case tod != nil && !tod.Valid():
		return &domain.InvalidInputError{Field: "time_of_day", Value: tod.String()}
	}
	return nil
}
