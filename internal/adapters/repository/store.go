// Package repository holds the tournament state served by the API: the
// roster, the judge pool, the result history and the planned rounds.
package repository

import (
	"context"

	"github.com/okian/swissjury/internal/domain/model"
)

// Snapshot is a consistent copy of everything a round is planned from.
type Snapshot struct {
	Participants []model.ParticipantRecord
	History      []model.MatchRecord
	Judges       []model.JudgeDefinition
}

// PlannedRound is a round as it was handed out.
type PlannedRound struct {
	Round   int
	Matches []model.ProducedMatch
	Bye     *model.ProducedMatch

	// How the pairing was found, kept for later reads.
	Strategy   string
	Cost       float64
	LowerBound float64
	Iterations int
	Rematches  int
	Conflicts  int
	Unassigned int
}

// Store provides read/write access to the tournament state.
type Store interface {
	// AddParticipant registers a participant or updates its affiliation.
	AddParticipant(ctx context.Context, p model.ParticipantRecord) error
	// AddJudge adds a judge to the pool. Names are unique.
	AddJudge(ctx context.Context, j model.JudgeDefinition) error
	// AddResult appends a finished match to the history. A result without a
	// judge takes the judge planned for that board.
	AddResult(ctx context.Context, rec model.MatchRecord) error

	// SavePlan stores a planned round. A round can only be planned once.
	SavePlan(ctx context.Context, plan PlannedRound) error
	// Plan returns a planned round or ErrNotFound.
	Plan(ctx context.Context, round int) (PlannedRound, error)
	// LatestRound returns the highest planned round, 0 when none.
	LatestRound(ctx context.Context) int

	// Snapshot copies the roster, history and judges.
	Snapshot(ctx context.Context) Snapshot
	// Count returns the number of registered participants.
	Count(ctx context.Context) int
}
