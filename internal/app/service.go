// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	resultqueue "github.com/okian/swissjury/internal/adapters/mq/queue"
	workerpool "github.com/okian/swissjury/internal/adapters/mq/worker"
	"github.com/okian/swissjury/internal/adapters/repository"
	"github.com/okian/swissjury/internal/domain/dedupe"
	"github.com/okian/swissjury/internal/domain/model"
	"github.com/okian/swissjury/internal/domain/pairing"
	"github.com/okian/swissjury/internal/domain/ranking"
	"github.com/okian/swissjury/internal/domain/round"
	"github.com/okian/swissjury/internal/domain/types"
	"github.com/okian/swissjury/pkg/logger"
	"github.com/okian/swissjury/pkg/metrics"
)

// Service implements the API dependencies for the round planner.
type Service struct {
	mu sync.RWMutex
	// planMu serializes round planning so two rounds are never paired from
	// the same history.
	planMu sync.Mutex

	// Core components
	store   repository.Store
	deduper dedupe.Deduper
	queue   *resultqueue.InMemoryQueue
	pool    *workerpool.Pool
	planner *round.Orchestrator

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int

	// State
	started bool

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   10_000,
		dedupeSize:  100_000,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = repository.NewMemStore()
	}
	if s.planner == nil {
		s.planner = round.NewOrchestrator()
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))

	return s
}

// Start initializes and starts the result ingestion pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.queue = resultqueue.NewInMemoryQueue(resultqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.store)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "round planner started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("byeName", s.planner.ByeName()),
	)

	return nil
}

// Stop gracefully shuts down the ingestion pipeline. Queued results are
// applied before the workers exit.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping round planner...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Error(ctx, "worker pool shutdown failed", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "round planner stopped")
}

// SeenAndRecord atomically checks if a result id was seen and records it if not.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordResultDuplicate()
	}
	return seen
}

// Unrecord removes a result ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	return s.deduper.Size()
}

// Enqueue submits a result for asynchronous application. It returns false
// when the service is stopped or the queue is full.
func (s *Service) Enqueue(ctx context.Context, rec model.MatchRecord) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return false
	}
	ok := s.queue.Enqueue(ctx, rec)
	if !ok {
		s.logger.Warn(ctx, "result queue full", logger.String("result_id", rec.ResultID))
	}
	return ok
}

// AddParticipant registers a participant. The bye name is refused.
func (s *Service) AddParticipant(ctx context.Context, p model.ParticipantRecord) error {
	if err := s.planner.CheckParticipant(p); err != nil {
		return err
	}
	return s.store.AddParticipant(ctx, p)
}

// AddJudge adds a judge to the pool.
func (s *Service) AddJudge(ctx context.Context, j model.JudgeDefinition) error {
	return s.store.AddJudge(ctx, j)
}

// AddResult applies a result synchronously, bypassing the queue.
func (s *Service) AddResult(ctx context.Context, rec model.MatchRecord) error {
	return s.store.AddResult(ctx, rec)
}

// LatestRound returns the highest planned round.
func (s *Service) LatestRound(ctx context.Context) int {
	return s.store.LatestRound(ctx)
}

// PlanRound waits for queued results, pairs the next round from the stored
// history, assigns judges and stores the plan.
func (s *Service) PlanRound(ctx context.Context) (types.Round, error) {
	s.planMu.Lock()
	defer s.planMu.Unlock()

	start := time.Now()

	if err := s.drain(ctx); err != nil {
		metrics.RecordRoundPlanError("drain")
		return types.Round{}, err
	}

	snap := s.store.Snapshot(ctx)
	plan, err := s.planner.Plan(ctx, round.Input{
		Participants: snap.Participants,
		History:      snap.History,
		Judges:       snap.Judges,
	})
	if err != nil {
		metrics.RecordRoundPlanError(planErrorReason(err))
		return types.Round{}, fmt.Errorf("plan round: %w", err)
	}

	saved := repository.PlannedRound{
		Round:      plan.Round,
		Matches:    plan.Matches,
		Bye:        plan.Bye,
		Strategy:   string(plan.Pairing.Strategy),
		Cost:       plan.Pairing.Cost,
		LowerBound: plan.Pairing.LowerBound,
		Iterations: plan.Pairing.Iterations,
		Rematches:  plan.Pairing.Rematches,
		Conflicts:  plan.Conflicts,
		Unassigned: plan.Unassigned,
	}
	if err := s.store.SavePlan(ctx, saved); err != nil {
		metrics.RecordRoundPlanError(planErrorReason(err))
		return types.Round{}, fmt.Errorf("save round %d: %w", plan.Round, err)
	}

	recordPlanMetrics(plan, time.Since(start))
	return toRound(saved), nil
}

// Round returns a previously planned round.
func (s *Service) Round(ctx context.Context, n int) (types.Round, error) {
	p, err := s.store.Plan(ctx, n)
	if err != nil {
		return types.Round{}, err
	}
	return toRound(p), nil
}

// Standings ranks every participant by score and Buchholz tie-breaks.
// Queued results are applied first.
func (s *Service) Standings(ctx context.Context) ([]types.Entry, error) {
	if err := s.drain(ctx); err != nil {
		return nil, err
	}
	snap := s.store.Snapshot(ctx)
	book, err := s.planner.Book(round.Input{
		Participants: snap.Participants,
		History:      snap.History,
	})
	if err != nil {
		return nil, fmt.Errorf("standings: %w", err)
	}
	table := ranking.Standings(book.Participants())
	entries := make([]types.Entry, len(table))
	for i, st := range table {
		entries[i] = types.NewEntry(st)
	}
	return entries, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":      s.started,
		"workerCount":  s.workerCount,
		"queueSize":    s.queueSize,
		"dedupeSize":   s.dedupeSize,
		"dedupeIDs":    s.deduper.Size(),
		"participants": s.store.Count(ctx),
		"latestRound":  s.store.LatestRound(ctx),
		"byeName":      s.planner.ByeName(),
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["pending"] = s.queue.Pending()
		metrics.UpdateQueueSize(queueLen)
	}

	return stats
}

// drain waits until every queued result has been applied.
func (s *Service) drain(ctx context.Context) error {
	s.mu.RLock()
	pool, started := s.pool, s.started
	s.mu.RUnlock()
	if !started {
		return nil
	}
	return pool.Drain(ctx)
}

func recordPlanMetrics(plan round.Plan, elapsed time.Duration) {
	metrics.RecordRoundPlanned(float64(elapsed.Microseconds()) / 1000)
	metrics.RecordPairing(string(plan.Pairing.Strategy), plan.Pairing.Cost, plan.Pairing.LowerBound,
		plan.Pairing.Iterations, plan.Pairing.Rematches)
	if plan.Bye != nil {
		metrics.RecordBye()
	}
	for _, m := range plan.Matches {
		switch {
		case m.IsUnassigned():
			metrics.RecordJudgeAssignment("unassigned")
		case m.Conflict:
			metrics.RecordJudgeAssignment("conflict")
		default:
			metrics.RecordJudgeAssignment("clean")
		}
	}
}

func planErrorReason(err error) string {
	switch {
	case errors.Is(err, pairing.ErrNoParticipants):
		return "no_participants"
	case errors.Is(err, repository.ErrRoundPlanned):
		return "already_planned"
	case errors.Is(err, round.ErrDuplicateJudge):
		return "duplicate_judge"
	case errors.Is(err, round.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}

func toRound(p repository.PlannedRound) types.Round {
	out := types.Round{
		Round:      p.Round,
		Matches:    make([]types.Match, len(p.Matches)),
		Strategy:   p.Strategy,
		Cost:       p.Cost,
		LowerBound: p.LowerBound,
		Iterations: p.Iterations,
		Rematches:  p.Rematches,
		Conflicts:  p.Conflicts,
		Unassigned: p.Unassigned,
	}
	for i, m := range p.Matches {
		out.Matches[i] = types.NewMatch(m)
	}
	if p.Bye != nil {
		bye := types.NewMatch(*p.Bye)
		out.Bye = &bye
	}
	return out
}
