package domain

import (
	"net/url"
	"time"
)

// Catalogue search parameter keys. External callers build query strings from
// these, so the names are part of the contract with the catalogue API.
const (
	ParamTags    = "fuzzytags"
	ParamSpeed   = "speed"
	ParamVocal   = "vocalinstrumental"
	ParamLimit   = "limit"
	ParamInclude = "include"
	ParamFormat  = "format"
	ParamOrder   = "order"
	ParamOffset  = "offset"
)

// APIParams is the flat parameter set handed to the catalogue search.
type APIParams map[string]string

// Encode renders the parameters as a key-sorted query string.
func (p APIParams) Encode() string {
	values := url.Values{}
	for k, v := range p {
		values.Set(k, v)
	}
	return values.Encode()
}

// Clone returns an independent copy.
func (p APIParams) Clone() APIParams {
	out := make(APIParams, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// RatioBreakdown records the weighted contributions behind one chosen parameter.
type RatioBreakdown struct {
	Parameter           string  `json:"parameter"`
	EmotionContribution float64 `json:"emotion_contribution"`
	WeatherContribution float64 `json:"weather_contribution"`
	TimeContribution    float64 `json:"time_contribution"`
	FinalValue          string  `json:"final_value"`
	CalculationDetail   string  `json:"calculation_detail"`
}

// RecommendationScore explains how a parameter value was scored.
type RecommendationScore struct {
	Parameter    string  `json:"parameter"`
	Value        string  `json:"value"`
	EmotionScore float64 `json:"emotion_score"`
	WeatherScore float64 `json:"weather_score"`
	TimeScore    float64 `json:"time_score"`
	FinalScore   float64 `json:"final_score"`
	Reasoning    string  `json:"reasoning"`
}

// MusicRecommendation is the engine's output for one request.
type MusicRecommendation struct {
	ID             string                `json:"id,omitempty"`
	Emotion        Emotion               `json:"emotion"`
	Activity       Activity              `json:"activity"`
	Weather        Weather               `json:"weather"`
	TimeOfDay      TimeOfDay             `json:"time_of_day"`
	APIParams      APIParams             `json:"api_params"`
	Explanation    []RecommendationScore `json:"explanation"`
	RatioBreakdown []RatioBreakdown      `json:"ratio_breakdown"`
	Confidence     float64               `json:"confidence"`
	CreatedAt      time.Time             `json:"created_at"`
}
