// Package worker measures the energy of recommended tracks in the background.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/cadence/internal/core/domain"
	"github.com/ewilliams-labs/cadence/internal/core/ports"
	"github.com/ewilliams-labs/cadence/internal/logging"
	"github.com/ewilliams-labs/cadence/internal/metrics"
)

const (
	DefaultWorkers    = 2
	DefaultQueueSize  = 64
	DefaultJobTimeout = 30 * time.Second
)

// Job is one track to analyse for a stored recommendation.
type Job struct {
	RecommendationID string
	Track            domain.Track
}

// EnergyStore receives measured energies.
type EnergyStore interface {
	SaveTrackEnergy(ctx context.Context, recommendationID string, track domain.Track) error
}

// AnalyzeFunc returns the energy of the audio at url.
type AnalyzeFunc func(ctx context.Context, url string) (float64, error)

// Config sizes the pool.
type Config struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
}

// Pool manages background workers for audio analysis jobs.
type Pool struct {
	store   EnergyStore
	analyze AnalyzeFunc
	timeout time.Duration
	workers int
	jobs    chan Job
	wg      sync.WaitGroup
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// compile-time interface assertion
var _ ports.AnalysisQueue = (*Pool)(nil)

// NewPool creates a pool. Call Start before enqueueing.
func NewPool(store EnergyStore, analyze AnalyzeFunc, cfg Config) *Pool {
	if cfg.Workers < 1 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = DefaultJobTimeout
	}
	if analyze == nil {
		analyze = NewAnalyzer(nil).Analyze
	}
	return &Pool{
		store:   store,
		analyze: analyze,
		timeout: cfg.JobTimeout,
		workers: cfg.Workers,
		jobs:    make(chan Job, cfg.QueueSize),
		log:     logging.Component("worker"),
	}
}

// Start launches the worker goroutines. Jobs run under contexts derived from ctx.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.process(ctx, job)
			}
		}()
	}
}

// Stop closes the queue and waits for queued jobs to drain.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// Enqueue queues a job without blocking. It reports false when the queue is
// full, the pool is stopped, or the track has no audio.
func (p *Pool) Enqueue(recommendationID string, track domain.Track) bool {
	if track.AudioURL == "" {
		metrics.WorkerJobs.WithLabelValues("skipped").Inc()
		return false
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		metrics.WorkerJobs.WithLabelValues("dropped").Inc()
		return false
	}
	select {
	case p.jobs <- Job{RecommendationID: recommendationID, Track: track}:
		return true
	default:
		metrics.WorkerJobs.WithLabelValues("dropped").Inc()
		p.log.Warn().Str("track_id", track.ID).Msg("queue full, dropping job")
		return false
	}
}

func (p *Pool) process(parent context.Context, job Job) {
	ctx, cancel := context.WithTimeout(parent, p.timeout)
	defer cancel()

	log := p.log.With().
		Str("recommendation_id", job.RecommendationID).
		Str("track_id", job.Track.ID).
		Logger()

	energy, err := p.analyze(ctx, job.Track.AudioURL)
	if err != nil {
		metrics.WorkerJobs.WithLabelValues("analysis_failed").Inc()
		log.Warn().Err(err).Msg("audio analysis failed")
		return
	}

	track := job.Track
	track.Energy = energy
	if err := p.store.SaveTrackEnergy(ctx, job.RecommendationID, track); err != nil {
		metrics.WorkerJobs.WithLabelValues("store_failed").Inc()
		log.Warn().Err(err).Msg("failed to store track energy")
		return
	}
	metrics.WorkerJobs.WithLabelValues("success").Inc()
	log.Debug().Float64("energy", energy).Msg("track analysed")
}
