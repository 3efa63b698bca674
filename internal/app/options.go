package service

import (
	"time"

	"github.com/okian/swissjury/internal/adapters/repository"
	"github.com/okian/swissjury/internal/config"
	"github.com/okian/swissjury/internal/domain/judging"
	"github.com/okian/swissjury/internal/domain/pairing"
	"github.com/okian/swissjury/internal/domain/round"
	"github.com/okian/swissjury/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of result ingestion workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the result queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many result IDs are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore replaces the in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithPlanner sets the round orchestrator.
func WithPlanner(p *round.Orchestrator) Option {
	return func(s *Service) {
		if p != nil {
			s.planner = p
		}
	}
}

// FromConfig translates process configuration into service options. A zero
// seed is replaced by the current time and an unknown strategy falls back to
// auto. The global logger must be initialized.
func FromConfig(cfg *config.Config) []Option {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	strategy, err := pairing.ParseStrategy(cfg.Strategy)
	if err != nil {
		strategy = pairing.StrategyAuto
	}

	engine := pairing.NewEngine(
		pairing.WithStrategy(strategy),
		pairing.WithExactLimit(cfg.ExactLimit),
		pairing.WithIterationCap(cfg.IterationCap),
		pairing.WithRematchPenalty(cfg.RematchPenalty),
		pairing.WithWorkers(cfg.SearchWorkers),
		pairing.WithSeed(seed),
		pairing.WithLogger(logger.Named("pairing")),
	)
	assigner := judging.NewAssigner(
		judging.WithShuffle(cfg.ShuffleJudges),
		judging.WithSeed(seed),
		judging.WithLogger(logger.Named("judging")),
	)
	planner := round.NewOrchestrator(
		round.WithEngine(engine),
		round.WithAssigner(assigner),
		round.WithByeName(cfg.ByeName),
		round.WithLogger(logger.Named("round")),
	)

	return []Option{
		WithWorkerCount(cfg.WorkerCount),
		WithQueueSize(cfg.ResultQueueSize),
		WithDedupeSize(cfg.DedupeSize),
		WithPlanner(planner),
	}
}
