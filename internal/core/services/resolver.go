package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/cadence/internal/core/domain"
	"github.com/ewilliams-labs/cadence/internal/core/ports"
	"github.com/ewilliams-labs/cadence/internal/logging"
	"github.com/ewilliams-labs/cadence/internal/metrics"
)

const (
	// DefaultAttemptTimeout bounds every remote weather attempt.
	DefaultAttemptTimeout = 10 * time.Second
	// DefaultBackupAttempts is how many backup cities are tried.
	DefaultBackupAttempts = 5
)

// WeatherStrategy is one stage of the weather cascade. Attempt reports false
// when the stage could not produce a report.
type WeatherStrategy interface {
	Stage() domain.Provenance
	Attempt(ctx context.Context, q domain.WeatherQuery) (domain.WeatherReport, bool)
}

// remoteAttempt runs one bounded lookup and validates what came back.
type remoteAttempt struct {
	stage   domain.Provenance
	timeout time.Duration
	log     zerolog.Logger
}

func (ra remoteAttempt) run(ctx context.Context, target string, fetch func(context.Context) (domain.Observation, error)) (domain.WeatherReport, bool) {
	attemptCtx, cancel := context.WithTimeout(ctx, ra.timeout)
	defer cancel()

	obs, err := fetch(attemptCtx)
	if err != nil {
		reason := "transport"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "timeout"
		}
		metrics.WeatherAttemptFailures.WithLabelValues(string(ra.stage), reason).Inc()
		ra.log.Warn().Err(err).Str("target", target).Str("reason", reason).Msg("weather attempt failed")
		return domain.WeatherReport{}, false
	}
	if !PlausibleTemperature(obs.TemperatureC) {
		metrics.WeatherAttemptFailures.WithLabelValues(string(ra.stage), "implausible_temperature").Inc()
		ra.log.Warn().Str("target", target).Float64("temp_c", obs.TemperatureC).Msg("rejecting implausible temperature")
		return domain.WeatherReport{}, false
	}

	desc, location := describeObservation(obs)
	if location == "" {
		location = target
	}
	return domain.WeatherReport{
		Weather:     ClassifyWeather(obs.Description),
		Description: desc,
		Location:    location,
		Provenance:  ra.stage,
	}, true
}

// CoordinateStrategy looks weather up at the caller's position.
type CoordinateStrategy struct {
	lookup ports.WeatherLookup
	remote remoteAttempt
}

func NewCoordinateStrategy(lookup ports.WeatherLookup, timeout time.Duration) *CoordinateStrategy {
	return &CoordinateStrategy{
		lookup: lookup,
		remote: remoteAttempt{
			stage:   domain.ProvenanceGPS,
			timeout: timeout,
			log:     logging.Component("weather.gps"),
		},
	}
}

func (s *CoordinateStrategy) Stage() domain.Provenance { return domain.ProvenanceGPS }

func (s *CoordinateStrategy) Attempt(ctx context.Context, q domain.WeatherQuery) (domain.WeatherReport, bool) {
	if s.lookup == nil || q.Coordinates == nil {
		return domain.WeatherReport{}, false
	}
	c := *q.Coordinates
	target := fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
	return s.remote.run(ctx, target, func(ctx context.Context) (domain.Observation, error) {
		return s.lookup.ByCoordinates(ctx, c.Lat, c.Lon)
	})
}

// BackupCityStrategy tries an explicitly requested city and then the
// highest-priority backup cities, stopping at the first usable answer. The
// requested city counts against the same attempt budget.
type BackupCityStrategy struct {
	lookup   ports.WeatherLookup
	cities   []BackupCity
	attempts int
	remote   remoteAttempt
}

func NewBackupCityStrategy(lookup ports.WeatherLookup, cities []BackupCity, attempts int, timeout time.Duration) *BackupCityStrategy {
	if attempts <= 0 || attempts > len(cities) {
		attempts = max(len(cities), 1)
	}
	return &BackupCityStrategy{
		lookup:   lookup,
		cities:   cities,
		attempts: attempts,
		remote: remoteAttempt{
			stage:   domain.ProvenanceBackupCity,
			timeout: timeout,
			log:     logging.Component("weather.backup"),
		},
	}
}

func (s *BackupCityStrategy) Stage() domain.Provenance { return domain.ProvenanceBackupCity }

// Candidates returns the lookup queries in the order they are attempted,
// never more than the attempt budget.
func (s *BackupCityStrategy) Candidates(q domain.WeatherQuery) []string {
	out := make([]string, 0, s.attempts)
	seen := make(map[string]struct{}, s.attempts)
	add := func(query string) {
		key := strings.ToLower(query)
		if _, dup := seen[key]; dup || len(out) == s.attempts {
			return
		}
		seen[key] = struct{}{}
		out = append(out, query)
	}

	if city := strings.TrimSpace(q.City); city != "" {
		add(s.expand(city))
	}
	for _, c := range s.cities {
		add(c.Query)
	}
	return out
}

// expand maps a known backup city name (English or local) onto its query.
func (s *BackupCityStrategy) expand(city string) string {
	for _, c := range s.cities {
		if strings.EqualFold(c.Name, city) || c.Local == city {
			return c.Query
		}
	}
	return city
}

func (s *BackupCityStrategy) Attempt(ctx context.Context, q domain.WeatherQuery) (domain.WeatherReport, bool) {
	if s.lookup == nil {
		return domain.WeatherReport{}, false
	}
	for _, query := range s.Candidates(q) {
		if ctx.Err() != nil {
			return domain.WeatherReport{}, false
		}
		report, ok := s.remote.run(ctx, query, func(ctx context.Context) (domain.Observation, error) {
			return s.lookup.ByCity(ctx, query)
		})
		if ok {
			return report, true
		}
	}
	return domain.WeatherReport{}, false
}

// SeasonalStrategy never fails; it estimates from the clock.
type SeasonalStrategy struct {
	now func() time.Time
}

func NewSeasonalStrategy(now func() time.Time) *SeasonalStrategy {
	if now == nil {
		now = time.Now
	}
	return &SeasonalStrategy{now: now}
}

func (s *SeasonalStrategy) Stage() domain.Provenance { return domain.ProvenanceSeasonalFallback }

func (s *SeasonalStrategy) Attempt(_ context.Context, _ domain.WeatherQuery) (domain.WeatherReport, bool) {
	return SeasonalWeather(s.now()), true
}

// ResolverConfig tunes the remote stages.
type ResolverConfig struct {
	AttemptTimeout time.Duration
	BackupAttempts int
	BackupCities   []BackupCity
	Now            func() time.Time
}

// WeatherResolver walks its strategies in order and returns the first report.
type WeatherResolver struct {
	strategies []WeatherStrategy
	fallback   *SeasonalStrategy
	log        zerolog.Logger
}

// NewWeatherResolver builds the gps → backup-city → seasonal cascade. A nil
// lookup leaves only the seasonal stage.
func NewWeatherResolver(lookup ports.WeatherLookup, cfg ResolverConfig) *WeatherResolver {
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = DefaultAttemptTimeout
	}
	if cfg.BackupAttempts <= 0 {
		cfg.BackupAttempts = DefaultBackupAttempts
	}
	if len(cfg.BackupCities) == 0 {
		cfg.BackupCities = DefaultBackupCities
	}

	seasonal := NewSeasonalStrategy(cfg.Now)
	var strategies []WeatherStrategy
	if lookup != nil {
		strategies = append(strategies,
			NewCoordinateStrategy(lookup, cfg.AttemptTimeout),
			NewBackupCityStrategy(lookup, cfg.BackupCities, cfg.BackupAttempts, cfg.AttemptTimeout),
		)
	}
	strategies = append(strategies, seasonal)
	return NewWeatherResolverWithStrategies(strategies...)
}

// NewWeatherResolverWithStrategies builds a resolver from explicit stages. A
// seasonal stage is used when none of them answers.
func NewWeatherResolverWithStrategies(strategies ...WeatherStrategy) *WeatherResolver {
	return &WeatherResolver{
		strategies: strategies,
		fallback:   NewSeasonalStrategy(nil),
		log:        logging.Component("weather"),
	}
}

// Resolve never fails: remote errors move the cascade to the next stage.
func (r *WeatherResolver) Resolve(ctx context.Context, q domain.WeatherQuery) domain.WeatherReport {
	for _, s := range r.strategies {
		report, ok := s.Attempt(ctx, q)
		if !ok {
			r.log.Debug().Str("stage", string(s.Stage())).Msg("stage produced no report")
			continue
		}
		r.record(report)
		return report
	}
	report, _ := r.fallback.Attempt(ctx, q)
	r.record(report)
	return report
}

func (r *WeatherResolver) record(report domain.WeatherReport) {
	metrics.WeatherResolutions.WithLabelValues(string(report.Provenance), report.Weather.String()).Inc()
	r.log.Info().
		Str("provenance", string(report.Provenance)).
		Str("weather", report.Weather.String()).
		Str("location", report.Location).
		Msg("weather resolved")
}
