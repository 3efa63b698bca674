package judging

import (
	"cmp"
	"context"
	"math/rand"
	"slices"

	"github.com/okian/swissjury/internal/domain/model"
	"github.com/okian/swissjury/pkg/logger"
)

// Assignment is the judge chosen for one match.
type Assignment struct {
	// Judge is the judge name or model.Unassigned.
	Judge string
	// Conflict is set when the judge already officiated one of the pair.
	Conflict bool
}

// Assigned reports whether a judge was found.
func (a Assignment) Assigned() bool { return a.Judge != model.Unassigned }

// Outcome is the result of assigning a whole round.
type Outcome struct {
	// Assignments is aligned with the input matches.
	Assignments []Assignment
	// Judges is the updated pool in input order.
	Judges     []Judge
	Conflicts  int
	Unassigned int
}

// Assigner distributes judges over matches greedily, in match order.
type Assigner struct {
	shuffle bool
	seed    int64
	logger  logger.Logger
}

// NewAssigner creates an Assigner. The pool is not shuffled by default.
func NewAssigner(opts ...Option) *Assigner {
	a := &Assigner{
		seed:   1,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ForRound returns a copy of a whose shuffle seed is offset by the round
// number, so each round shuffles the pool differently while a fixed base seed
// still reproduces the whole tournament.
func (a *Assigner) ForRound(n int) *Assigner {
	c := *a
	c.seed = a.seed + int64(n)
	return &c
}

// Assign picks a judge for every match. For each match the pool is ordered by
// matches taken this round, then lifetime count. The first judge without any
// violation wins. Otherwise the judge with the fewest repeat officiating
// violations and no exclusion is taken and the match is flagged. When every
// judge is excluded the match stays unassigned.
//
// The pool passed in is not modified; the updated copies are returned.
func (a *Assigner) Assign(ctx context.Context, matches []Match, pool []Judge) Outcome {
	judges := make([]Judge, len(pool))
	for i, j := range pool {
		judges[i] = j.Clone()
	}

	order := make([]int, len(judges))
	for i := range order {
		order[i] = i
	}
	if a.shuffle {
		rng := rand.New(rand.NewSource(a.seed))
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	load := make([]int, len(judges))
	out := Outcome{
		Assignments: make([]Assignment, len(matches)),
		Judges:      judges,
	}

	for mi, m := range matches {
		ranked := slices.Clone(order)
		slices.SortStableFunc(ranked, func(x, y int) int {
			if c := cmp.Compare(load[x], load[y]); c != 0 {
				return c
			}
			return cmp.Compare(judges[x].Count, judges[y].Count)
		})

		pick, fewest := -1, 3
		for _, ji := range ranked {
			if judges[ji].excluded(m) {
				continue
			}
			if r := judges[ji].repeats(m); r < fewest {
				pick, fewest = ji, r
				if r == 0 {
					break
				}
			}
		}

		if pick < 0 {
			out.Assignments[mi] = Assignment{Judge: model.Unassigned}
			out.Unassigned++
			a.logger.Warn(ctx, "no eligible judge",
				logger.String("participant1", m.A.Name),
				logger.String("participant2", m.B.Name),
				logger.Int("pool", len(judges)))
			continue
		}

		j := &judges[pick]
		j.MarkJudged(m.A.Name)
		j.MarkJudged(m.B.Name)
		j.Count++
		load[pick]++

		conflict := fewest > 0
		out.Assignments[mi] = Assignment{Judge: j.Name, Conflict: conflict}
		if conflict {
			out.Conflicts++
			a.logger.Info(ctx, "judge assigned with conflict",
				logger.String("judge", j.Name),
				logger.String("participant1", m.A.Name),
				logger.String("participant2", m.B.Name),
				logger.Int("repeats", fewest))
		}
	}

	return out
}
