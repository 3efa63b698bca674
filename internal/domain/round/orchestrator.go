// Package round plans the next round of a Swiss tournament from its history.
package round

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/okian/swissjury/internal/domain/judging"
	"github.com/okian/swissjury/internal/domain/model"
	"github.com/okian/swissjury/internal/domain/pairing"
	"github.com/okian/swissjury/internal/domain/ranking"
	"github.com/okian/swissjury/pkg/logger"
)

// DefaultByeName is the synthetic participant added to odd fields.
const DefaultByeName = "Jurors"

// Input is everything a round is planned from.
type Input struct {
	Participants []model.ParticipantRecord
	History      []model.MatchRecord
	Judges       []model.JudgeDefinition
}

// Plan is a planned round.
type Plan struct {
	Round int
	// Matches are the judged boards in board order.
	Matches []model.ProducedMatch
	// Bye is the pairing with the synthetic participant, nil for even fields.
	// It is never judged.
	Bye *model.ProducedMatch
	// Pairing describes how the matching was found.
	Pairing pairing.Result
	// Judges is the judge pool after this round's assignments.
	Judges []judging.Judge
	// Standings is the table the round was paired from.
	Standings  []ranking.Standing
	Conflicts  int
	Unassigned int
}

// Orchestrator turns tournament records into the next round. It keeps no
// state between calls.
type Orchestrator struct {
	engine   *pairing.Engine
	assigner *judging.Assigner
	byeName  string
	newID    func() string
	logger   logger.Logger
}

// NewOrchestrator creates an Orchestrator with a default engine and assigner.
func NewOrchestrator(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		engine:   pairing.NewEngine(),
		assigner: judging.NewAssigner(),
		byeName:  DefaultByeName,
		newID:    uuid.NewString,
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ByeName returns the synthetic participant name.
func (o *Orchestrator) ByeName() string { return o.byeName }

// CheckParticipant rejects roster entries the planner cannot seat, including
// a real participant named like the bye.
func (o *Orchestrator) CheckParticipant(p model.ParticipantRecord) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if p.Name == o.byeName {
		return fmt.Errorf("%w: %w: %s", ErrInvalidInput, ErrReservedName, p.Name)
	}
	return nil
}

// Book merges the roster and history into a ranking book.
func (o *Orchestrator) Book(in Input) (*ranking.Book, error) {
	book := ranking.NewBook(ranking.WithByeName(o.byeName))
	for i, p := range in.Participants {
		if err := o.CheckParticipant(p); err != nil {
			return nil, fmt.Errorf("participant %d: %w", i, err)
		}
		book.Add(p.Name, p.Affiliation)
	}
	for i, rec := range in.History {
		if err := book.Record(rec); err != nil {
			return nil, fmt.Errorf("%w: history record %d: %w", ErrInvalidInput, i, err)
		}
	}
	return book, nil
}

// Plan pairs the next round and assigns judges to it.
func (o *Orchestrator) Plan(ctx context.Context, in Input) (Plan, error) {
	book, err := o.Book(in)
	if err != nil {
		return Plan{}, err
	}
	pool, err := o.pool(in)
	if err != nil {
		return Plan{}, err
	}

	ps := book.Participants()
	if len(ps) == 0 {
		return Plan{}, pairing.ErrNoParticipants
	}

	plan := Plan{
		Round:     book.MaxRounds() + 1,
		Standings: ranking.Standings(ps),
	}

	roster := ps
	if len(ps)%2 != 0 {
		roster = append(roster[:len(ps):len(ps)], ranking.NewBye(o.byeName, ps))
	}

	res, err := o.engine.Pair(ctx, roster)
	if err != nil {
		return Plan{}, fmt.Errorf("round %d: %w", plan.Round, err)
	}
	plan.Pairing = res

	matches := make([]judging.Match, 0, len(res.Pairs))
	for _, p := range res.Pairs {
		if o.isBye(p) {
			continue
		}
		matches = append(matches, judging.Match{
			A: judging.Contestant{Name: p.A.Name, Affiliation: p.A.Affiliation},
			B: judging.Contestant{Name: p.B.Name, Affiliation: p.B.Affiliation},
		})
	}
	outcome := o.assigner.ForRound(plan.Round).Assign(ctx, matches, pool)
	plan.Judges = outcome.Judges
	plan.Conflicts = outcome.Conflicts
	plan.Unassigned = outcome.Unassigned

	board := 0
	for _, p := range res.Pairs {
		if o.isBye(p) {
			player, bye := p.A, p.B
			if player.Name == o.byeName {
				player, bye = bye, player
			}
			plan.Bye = &model.ProducedMatch{
				ID: o.newID(),
				MatchRecord: model.MatchRecord{
					Round:        plan.Round,
					Participant1: player.Name,
					Participant2: bye.Name,
				},
			}
			continue
		}
		a := outcome.Assignments[board]
		board++
		plan.Matches = append(plan.Matches, model.ProducedMatch{
			ID:    o.newID(),
			Board: board,
			MatchRecord: model.MatchRecord{
				Round:        plan.Round,
				Participant1: p.A.Name,
				Participant2: p.B.Name,
				Judge:        a.Judge,
			},
			Conflict: a.Conflict,
		})
	}

	o.logger.Info(ctx, "round planned",
		logger.Int("round", plan.Round),
		logger.Int("participants", len(ps)),
		logger.Int("boards", len(plan.Matches)),
		logger.Bool("bye", plan.Bye != nil),
		logger.String("strategy", string(res.Strategy)),
		logger.Float64("cost", res.Cost),
		logger.Int("rematches", res.Rematches),
		logger.Int("conflicts", plan.Conflicts),
		logger.Int("unassigned", plan.Unassigned))

	return plan, nil
}

func (o *Orchestrator) isBye(p pairing.Pair) bool {
	return p.A.Name == o.byeName || p.B.Name == o.byeName
}

// pool builds the judge state from definitions and the judges recorded in
// history. A definition without a lifetime count gets the number of history
// records naming it.
func (o *Orchestrator) pool(in Input) ([]judging.Judge, error) {
	pool := make([]judging.Judge, 0, len(in.Judges))
	index := make(map[string]int, len(in.Judges))
	derive := make(map[string]bool, len(in.Judges))
	for i, def := range in.Judges {
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("%w: judge %d: %w", ErrInvalidInput, i, err)
		}
		if _, dup := index[def.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateJudge, def.Name)
		}
		index[def.Name] = len(pool)
		derive[def.Name] = def.Assigned == 0
		pool = append(pool, judging.NewJudge(def))
	}

	for _, rec := range in.History {
		i, ok := index[rec.Judge]
		if !ok {
			continue
		}
		for _, name := range []string{rec.Participant1, rec.Participant2} {
			if name != o.byeName {
				pool[i].MarkJudged(name)
			}
		}
		if derive[rec.Judge] {
			pool[i].Count++
		}
	}
	return pool, nil
}
