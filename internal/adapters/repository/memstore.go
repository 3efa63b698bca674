package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/okian/swissjury/internal/domain/model"
	"github.com/okian/swissjury/pkg/metrics"
)

// pairKey identifies a board regardless of seat order.
type pairKey struct {
	round int
	a, b  string
}

func keyOf(round int, p1, p2 string) pairKey {
	if p2 < p1 {
		p1, p2 = p2, p1
	}
	return pairKey{round: round, a: p1, b: p2}
}

// MemStore is the in-memory Store. All methods are safe for concurrent use.
type MemStore struct {
	mu sync.RWMutex

	participants []model.ParticipantRecord
	byName       map[string]int

	judges      []model.JudgeDefinition
	judgeByName map[string]int

	history []model.MatchRecord
	played  map[pairKey]struct{}

	rounds  map[int]PlannedRound
	planned map[pairKey]model.ProducedMatch
	latest  int
}

// NewMemStore creates an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		byName:      make(map[string]int),
		judgeByName: make(map[string]int),
		played:      make(map[pairKey]struct{}),
		rounds:      make(map[int]PlannedRound),
		planned:     make(map[pairKey]model.ProducedMatch),
	}
}

var _ Store = (*MemStore)(nil)

func (s *MemStore) AddParticipant(_ context.Context, p model.ParticipantRecord) error {
	if err := p.Validate(); err != nil {
		metrics.RecordErrorByComponent("repository", "invalid_participant")
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.byName[p.Name]; ok {
		if p.Affiliation != "" {
			s.participants[i].Affiliation = p.Affiliation
		}
		return nil
	}
	s.byName[p.Name] = len(s.participants)
	s.participants = append(s.participants, p)
	metrics.UpdateParticipants(len(s.participants))
	return nil
}

func (s *MemStore) AddJudge(_ context.Context, j model.JudgeDefinition) error {
	if err := j.Validate(); err != nil {
		metrics.RecordErrorByComponent("repository", "invalid_judge")
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.judgeByName[j.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJudge, j.Name)
	}
	j.ForbiddenAffiliations = slices.Clone(j.ForbiddenAffiliations)
	j.ForbiddenParticipants = slices.Clone(j.ForbiddenParticipants)
	s.judgeByName[j.Name] = len(s.judges)
	s.judges = append(s.judges, j)
	metrics.UpdateJudges(len(s.judges))
	return nil
}

func (s *MemStore) AddResult(_ context.Context, rec model.MatchRecord) error {
	if err := rec.Validate(); err != nil {
		metrics.RecordErrorByComponent("repository", "invalid_result")
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := keyOf(rec.Round, rec.Participant1, rec.Participant2)
	if rec.Round > 0 {
		if _, ok := s.played[key]; ok {
			return fmt.Errorf("%w: round %d %s vs %s", ErrDuplicateResult, rec.Round, rec.Participant1, rec.Participant2)
		}
		s.played[key] = struct{}{}
	}
	if rec.Judge == "" {
		if pm, ok := s.planned[key]; ok && !pm.IsUnassigned() {
			rec.Judge = pm.Judge
		}
	}
	s.history = append(s.history, rec)
	return nil
}

func (s *MemStore) SavePlan(_ context.Context, plan PlannedRound) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rounds[plan.Round]; ok {
		return fmt.Errorf("%w: %d", ErrRoundPlanned, plan.Round)
	}
	plan.Matches = slices.Clone(plan.Matches)
	if plan.Bye != nil {
		bye := *plan.Bye
		plan.Bye = &bye
	}
	s.rounds[plan.Round] = plan
	for _, m := range plan.Matches {
		s.planned[keyOf(plan.Round, m.Participant1, m.Participant2)] = m
	}
	s.latest = max(s.latest, plan.Round)
	return nil
}

func (s *MemStore) Plan(_ context.Context, round int) (PlannedRound, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.rounds[round]
	if !ok {
		return PlannedRound{}, fmt.Errorf("%w: round %d", ErrNotFound, round)
	}
	plan.Matches = slices.Clone(plan.Matches)
	return plan, nil
}

func (s *MemStore) LatestRound(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

func (s *MemStore) Snapshot(_ context.Context) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	judges := make([]model.JudgeDefinition, len(s.judges))
	for i, j := range s.judges {
		j.ForbiddenAffiliations = slices.Clone(j.ForbiddenAffiliations)
		j.ForbiddenParticipants = slices.Clone(j.ForbiddenParticipants)
		judges[i] = j
	}
	return Snapshot{
		Participants: slices.Clone(s.participants),
		History:      slices.Clone(s.history),
		Judges:       judges,
	}
}

func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.participants)
}
