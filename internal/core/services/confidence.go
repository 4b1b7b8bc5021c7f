package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ewilliams-labs/cadence/internal/core/domain"
)

// Confidence measures how close the realised per-dimension weighting came to
// the 50/30/20 targets, as a percentage. An empty breakdown list scores 0.
func Confidence(breakdowns []domain.RatioBreakdown) float64 {
	if len(breakdowns) == 0 {
		return 0
	}
	n := float64(len(breakdowns))
	var e, w, t float64
	for _, b := range breakdowns {
		e += b.EmotionContribution
		w += b.WeatherContribution
		t += b.TimeContribution
	}

	accuracy := (1 - math.Abs(e/n-EmotionRatio)) +
		(1 - math.Abs(w/n-WeatherRatio)) +
		(1 - math.Abs(t/n-TimeRatio))
	return clamp01(accuracy/3) * 100
}

// Report returns the confidence and a text listing the realised weighting and
// every breakdown's contributions and calculation trace.
func Report(breakdowns []domain.RatioBreakdown) (float64, string) {
	confidence := Confidence(breakdowns)

	var totalE, totalW, totalT float64
	for _, b := range breakdowns {
		totalE += b.EmotionContribution
		totalW += b.WeatherContribution
		totalT += b.TimeContribution
	}
	sum := totalE + totalW + totalT
	share := func(v float64) float64 {
		if sum == 0 {
			return 0
		}
		return v / sum * 100
	}

	var sb strings.Builder
	sb.WriteString("Target vs realised weighting:\n")
	fmt.Fprintf(&sb, "  emotion: 50%% target -> %.1f%% realised (%+.1f%%)\n", share(totalE), share(totalE)-50)
	fmt.Fprintf(&sb, "  weather: 30%% target -> %.1f%% realised (%+.1f%%)\n", share(totalW), share(totalW)-30)
	fmt.Fprintf(&sb, "  time:    20%% target -> %.1f%% realised (%+.1f%%)\n", share(totalT), share(totalT)-20)
	fmt.Fprintf(&sb, "  confidence: %.1f%%\n", confidence)

	sb.WriteString("\nPer-parameter calculation:\n")
	for _, b := range breakdowns {
		fmt.Fprintf(&sb, "\n[%s] = %s\n", b.Parameter, b.FinalValue)
		fmt.Fprintf(&sb, "  contributions: emotion %.2f + weather %.2f + time %.2f\n",
			b.EmotionContribution, b.WeatherContribution, b.TimeContribution)
		fmt.Fprintf(&sb, "  formula: %s\n", b.CalculationDetail)
	}
	return confidence, sb.String()
}

// fixedParams are constant for every request and left out of the analysis.
var fixedParams = map[string]struct{}{
	domain.ParamLimit:   {},
	domain.ParamInclude: {},
	domain.ParamFormat:  {},
}

// DetailedAnalysis renders a recommendation for display.
func DetailedAnalysis(rec domain.MusicRecommendation) string {
	var sb strings.Builder
	sb.WriteString("Balanced-ratio music recommendation (emotion 50% / weather 30% / time 20%)\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Input: emotion=%s activity=%s weather=%s time=%s\n\n",
		rec.Emotion, rec.Activity, rec.Weather, rec.TimeOfDay)

	_, report := Report(rec.RatioBreakdown)
	sb.WriteString(report)

	keys := make([]string, 0, len(rec.APIParams))
	for k := range rec.APIParams {
		if _, skip := fixedParams[k]; !skip {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	sb.WriteString("\nSelected parameters:\n")
	for _, k := range keys {
		fmt.Fprintf(&sb, "  - %s: %s\n", k, rec.APIParams[k])
	}
	return sb.String()
}
