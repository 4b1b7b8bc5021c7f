package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/cadence/internal/core/domain"
	"github.com/ewilliams-labs/cadence/internal/core/ports"
	"github.com/ewilliams-labs/cadence/internal/logging"
	"github.com/ewilliams-labs/cadence/internal/metrics"
)

// DefaultHistoryLimit caps History when the caller passes a non-positive limit.
const DefaultHistoryLimit = 20

// RecommendRequest is a fully parsed recommendation request. Weather and
// TimeOfDay are optional; a nil Weather is resolved from Location.
type RecommendRequest struct {
	Emotion    domain.Emotion
	Activity   domain.Activity
	Weather    *domain.Weather
	TimeOfDay  *domain.TimeOfDay
	Location   domain.WeatherQuery
	Randomize  bool
	WithTracks bool
}

// RecommendResult bundles a recommendation with the context it was built in.
type RecommendResult struct {
	Recommendation domain.MusicRecommendation `json:"recommendation"`
	Weather        domain.WeatherReport       `json:"weather"`
	Tracks         []domain.Track             `json:"tracks,omitempty"`
	CatalogError   string                     `json:"catalog_error,omitempty"`
	Analysis       string                     `json:"analysis"`
}

// InterpretResult is a mood read from free text plus the scenarios behind it.
type InterpretResult struct {
	Emotion     domain.Emotion    `json:"emotion"`
	Activity    domain.Activity   `json:"activity"`
	Explanation string            `json:"explanation,omitempty"`
	Source      string            `json:"source"`
	Scenarios   []domain.Scenario `json:"scenarios,omitempty"`
}

// Orchestrator coordinates weather resolution, the recommendation engine, the
// catalogue, history and background analysis.
type Orchestrator struct {
	resolver    *WeatherResolver
	recommender *Recommender
	catalog     ports.CatalogSearcher
	repo        ports.HistoryRepository
	interpreter ports.MoodInterpreter
	queue       ports.AnalysisQueue
	log         zerolog.Logger
}

// OrchestratorOption wires an optional collaborator.
type OrchestratorOption func(*Orchestrator)

func WithCatalog(c ports.CatalogSearcher) OrchestratorOption {
	return func(o *Orchestrator) { o.catalog = c }
}

func WithHistory(r ports.HistoryRepository) OrchestratorOption {
	return func(o *Orchestrator) { o.repo = r }
}

func WithInterpreter(i ports.MoodInterpreter) OrchestratorOption {
	return func(o *Orchestrator) { o.interpreter = i }
}

func WithAnalysisQueue(q ports.AnalysisQueue) OrchestratorOption {
	return func(o *Orchestrator) { o.queue = q }
}

// NewOrchestrator constructs an Orchestrator. Resolver and recommender are
// required; everything else is optional.
func NewOrchestrator(resolver *WeatherResolver, recommender *Recommender, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		resolver:    resolver,
		recommender: recommender,
		log:         logging.Component("orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Recommend resolves missing context, runs the engine and, when asked, pulls
// matching tracks from the catalogue.
func (o *Orchestrator) Recommend(ctx context.Context, req RecommendRequest) (RecommendResult, error) {
	// Enums are checked before any weather lookup.
	placeholder := domain.Cloudy
	if req.Weather != nil {
		placeholder = *req.Weather
	}
	if err := validateInputs(req.Emotion, req.Activity, placeholder, req.TimeOfDay); err != nil {
		return RecommendResult{}, fmt.Errorf("service: invalid request: %w", err)
	}

	var report domain.WeatherReport
	if req.Weather != nil {
		report = domain.WeatherReport{
			Weather:     *req.Weather,
			Description: "supplied by caller",
			Provenance:  domain.ProvenanceCaller,
		}
	} else {
		report = o.resolver.Resolve(ctx, req.Location)
	}

	rec, err := o.recommender.Recommend(req.Emotion, req.Activity, report.Weather, req.TimeOfDay, req.Randomize)
	if err != nil {
		return RecommendResult{}, fmt.Errorf("service: failed to build recommendation: %w", err)
	}
	rec.ID = uuid.NewString()

	metrics.RecommendationsTotal.WithLabelValues(rec.Emotion.String(), rec.Activity.String()).Inc()
	metrics.RecommendationConfidence.Observe(rec.Confidence)

	result := RecommendResult{
		Recommendation: rec,
		Weather:        report,
		Analysis:       DetailedAnalysis(rec),
	}

	if req.WithTracks && o.catalog != nil {
		tracks, err := o.catalog.SearchTracks(ctx, rec.APIParams)
		if err != nil {
			o.log.Warn().Err(err).Str("recommendation_id", rec.ID).Msg("catalogue search failed")
			result.CatalogError = err.Error()
		} else {
			result.Tracks = tracks
		}
	}

	if o.repo != nil {
		if err := o.repo.SaveRecommendation(ctx, rec, report); err != nil {
			o.log.Warn().Err(err).Str("recommendation_id", rec.ID).Msg("failed to record recommendation")
		} else {
			o.enqueueAnalysis(rec.ID, result.Tracks)
		}
	}

	o.log.Info().
		Str("recommendation_id", rec.ID).
		Str("emotion", rec.Emotion.String()).
		Str("activity", rec.Activity.String()).
		Str("weather", rec.Weather.String()).
		Float64("confidence", rec.Confidence).
		Int("tracks", len(result.Tracks)).
		Msg("recommendation produced")
	return result, nil
}

func (o *Orchestrator) enqueueAnalysis(recID string, tracks []domain.Track) {
	if o.queue == nil {
		return
	}
	for _, tr := range tracks {
		if tr.AudioURL == "" {
			continue
		}
		if !o.queue.Enqueue(recID, tr) {
			o.log.Warn().Str("track_id", tr.ID).Msg("analysis queue full, job dropped")
		}
	}
}

// ResolveWeather runs the weather cascade on its own.
func (o *Orchestrator) ResolveWeather(ctx context.Context, q domain.WeatherQuery) domain.WeatherReport {
	return o.resolver.Resolve(ctx, q)
}

// History lists recorded recommendations, newest first.
func (o *Orchestrator) History(ctx context.Context, limit int) ([]domain.MusicRecommendation, error) {
	if o.repo == nil {
		return nil, fmt.Errorf("service: history is not configured: %w", ports.ErrNotFound)
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	recs, err := o.repo.ListRecommendations(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list history: %w", err)
	}
	return recs, nil
}

// Recommendation loads one recorded recommendation.
func (o *Orchestrator) Recommendation(ctx context.Context, id string) (domain.MusicRecommendation, error) {
	if o.repo == nil {
		return domain.MusicRecommendation{}, fmt.Errorf("service: history is not configured: %w", ports.ErrNotFound)
	}
	rec, err := o.repo.GetRecommendation(ctx, id)
	if err != nil {
		return domain.MusicRecommendation{}, fmt.Errorf("service: failed to load recommendation %s: %w", id, err)
	}
	return rec, nil
}

// AnalysedTracks lists the tracks of a recommendation whose audio has been measured.
func (o *Orchestrator) AnalysedTracks(ctx context.Context, id string) ([]domain.Track, error) {
	if _, err := o.Recommendation(ctx, id); err != nil {
		return nil, err
	}
	tracks, err := o.repo.AnalysedTracks(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load analysed tracks: %w", err)
	}
	return tracks, nil
}

// Interpret reads an emotion and activity out of free text. The configured
// interpreter is asked first; scenario keywords are the fallback.
func (o *Orchestrator) Interpret(ctx context.Context, message string) (InterpretResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return InterpretResult{}, &domain.InvalidInputError{Field: "message", Value: message}
	}

	if o.interpreter != nil {
		intent, err := o.interpreter.InterpretMood(ctx, message)
		if err == nil {
			return InterpretResult{
				Emotion:     intent.Emotion,
				Activity:    intent.Activity,
				Explanation: intent.Explanation,
				Source:      "model",
			}, nil
		}
		if errors.Is(err, context.Canceled) {
			return InterpretResult{}, fmt.Errorf("service: interpretation cancelled: %w", err)
		}
		o.log.Warn().Err(err).Msg("mood interpreter failed, falling back to scenario keywords")
	}

	matched := domain.MatchScenarios(message)
	emotion, activity, err := domain.CombineScenarios(matched)
	if err != nil {
		return InterpretResult{}, fmt.Errorf("service: no scenario matches message: %w", err)
	}
	names := make([]string, 0, len(matched))
	for _, s := range matched {
		names = append(names, s.Name)
	}
	return InterpretResult{
		Emotion:     emotion,
		Activity:    activity,
		Explanation: "matched scenarios: " + strings.Join(names, ", "),
		Source:      "keywords",
		Scenarios:   matched,
	}, nil
}
