package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/ewilliams-labs/cadence/internal/adapters/jamendo"
	"github.com/ewilliams-labs/cadence/internal/adapters/ollama"
	"github.com/ewilliams-labs/cadence/internal/adapters/sqlite"
	"github.com/ewilliams-labs/cadence/internal/adapters/wttr"
	"github.com/ewilliams-labs/cadence/internal/config"
	"github.com/ewilliams-labs/cadence/internal/core/ports"
	"github.com/ewilliams-labs/cadence/internal/core/services"
	"github.com/ewilliams-labs/cadence/internal/logging"
	"github.com/ewilliams-labs/cadence/internal/worker"
)

// wireOptions selects the long-lived collaborators. One-shot commands skip
// the worker pool since it would not outlive the process.
type wireOptions struct {
	history bool
	worker  bool
}

// service is a wired orchestrator plus the resources it owns.
type service struct {
	*services.Orchestrator
	closers []func() error
}

func (s *service) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

func wire(ctx context.Context, cfg *config.Config, opts wireOptions) (*service, error) {
	log := logging.Component("wire")
	svc := &service{}
	httpClient := &http.Client{}

	var lookup ports.WeatherLookup
	if !cfg.Weather.Offline {
		lookup = wttr.NewClient(httpClient, wttr.Config{
			BaseURL:        cfg.Weather.BaseURL,
			MaxAttempts:    cfg.Weather.MaxAttempts,
			BreakerTimeout: cfg.Weather.BreakerTimeout,
			BreakerTrips:   cfg.Weather.BreakerTrips,
		})
	}
	resolver := services.NewWeatherResolver(lookup, services.ResolverConfig{
		AttemptTimeout: cfg.Weather.AttemptTimeout,
		BackupAttempts: cfg.Weather.BackupAttempts,
	})

	var orchOpts []services.OrchestratorOption

	if cfg.Catalog.ClientID != "" {
		catalog, err := jamendo.NewClient(httpClient, jamendo.Config{
			BaseURL:     cfg.Catalog.BaseURL,
			ClientID:    cfg.Catalog.ClientID,
			MaxAttempts: cfg.Catalog.MaxAttempts,
			Backoff:     cfg.Catalog.Backoff,
		})
		if err != nil {
			return nil, err
		}
		orchOpts = append(orchOpts, services.WithCatalog(catalog))
	} else {
		log.Info().Msg("catalog.client_id not set, track search disabled")
	}

	if opts.history && cfg.Database.Path != "" {
		repo, err := sqlite.NewAdapter(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		svc.closers = append(svc.closers, repo.Close)
		orchOpts = append(orchOpts, services.WithHistory(repo))

		if opts.worker && cfg.Worker.Enabled {
			pool := worker.NewPool(repo, worker.NewAnalyzer(httpClient).Analyze, worker.Config{
				Workers:    cfg.Worker.Workers,
				QueueSize:  cfg.Worker.QueueSize,
				JobTimeout: cfg.Worker.JobTimeout,
			})
			pool.Start(ctx)
			svc.closers = append(svc.closers, func() error { pool.Stop(); return nil })
			orchOpts = append(orchOpts, services.WithAnalysisQueue(pool))
		}
	}

	if cfg.Ollama.Enabled {
		orchOpts = append(orchOpts, services.WithInterpreter(ollama.NewClient(ollama.Config{
			BaseURL: cfg.Ollama.BaseURL,
			Model:   cfg.Ollama.Model,
			Timeout: cfg.Ollama.Timeout,
		})))
	}

	svc.Orchestrator = services.NewOrchestrator(resolver, services.NewRecommender(), orchOpts...)
	return svc, nil
}
