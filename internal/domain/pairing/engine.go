// Package pairing builds the perfect matching for a Swiss round.
//
// The cost of a matching is the sum of squared score differences of its
// pairs plus a penalty for every pair that already met. Small fields are
// searched exhaustively, large ones by random sampling bounded by an
// iteration cap, with a greedy pairing as the starting point and fallback.
package pairing

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/okian/swissjury/internal/domain/ranking"
	"github.com/okian/swissjury/pkg/logger"
)

// Strategy names a search method.
type Strategy string

const (
	StrategyAuto   Strategy = "auto"
	StrategyExact  Strategy = "exact"
	StrategyRandom Strategy = "random"
	StrategyGreedy Strategy = "greedy"
)

// ParseStrategy converts a flag or config value to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return StrategyAuto, nil
	case StrategyAuto, StrategyExact, StrategyRandom, StrategyGreedy:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

const (
	defaultExactLimit     = 12
	defaultIterationCap   = 1_000_000
	defaultRematchPenalty = 1000
	ctxCheckInterval      = 4096
)

// Pair is one board. A ranks at or above B.
type Pair struct {
	A ranking.Participant
	B ranking.Participant
}

// Result is the chosen matching and how it was found.
type Result struct {
	// Pairs are ordered by their best-ranked member.
	Pairs      []Pair
	Cost       float64
	LowerBound float64
	Strategy   Strategy
	// Iterations counts complete matchings evaluated.
	Iterations int
	Rematches  int
	Elapsed    time.Duration
}

// Engine computes pairings. It holds configuration only and is safe for
// concurrent use.
type Engine struct {
	exactLimit     int
	iterationCap   int
	rematchPenalty float64
	workers        int
	seed           int64
	strategy       Strategy
	logger         logger.Logger
}

// NewEngine creates an Engine with default settings.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		exactLimit:     defaultExactLimit,
		iterationCap:   defaultIterationCap,
		rematchPenalty: defaultRematchPenalty,
		workers:        1,
		seed:           1,
		strategy:       StrategyAuto,
		logger:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Pair matches every participant exactly once. The field must be non-empty
// and even; callers insert the bye first.
func (e *Engine) Pair(ctx context.Context, ps []ranking.Participant) (Result, error) {
	start := time.Now()
	n := len(ps)
	if n == 0 {
		return Result{}, ErrNoParticipants
	}
	if n%2 != 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrOddParticipants, n)
	}

	f := newField(ps, e.rematchPenalty)
	strategy := e.pick(n)

	var (
		sol match
		err error
	)
	switch strategy {
	case StrategyExact:
		sol, err = f.exact(ctx, e.seed)
	case StrategyGreedy:
		sol = f.greedy()
	case StrategyRandom:
		if e.iterationCap <= 0 {
			strategy = StrategyGreedy
			sol = f.greedy()
			break
		}
		sol, err = f.random(ctx, e.seed, e.iterationCap, e.workers)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
	if err != nil {
		return Result{}, fmt.Errorf("pairing %d participants (%s): %w", n, strategy, err)
	}

	res := f.result(sol)
	res.Strategy = strategy
	res.Elapsed = time.Since(start)

	e.logger.Debug(ctx, "pairing computed",
		logger.String("strategy", string(strategy)),
		logger.Int("participants", n),
		logger.Float64("cost", res.Cost),
		logger.Float64("lower_bound", res.LowerBound),
		logger.Int("iterations", res.Iterations),
		logger.Int("rematches", res.Rematches),
		logger.Duration("elapsed", res.Elapsed))

	return res, nil
}

// pick chooses the search for a field of n. Full enumeration never runs above
// the exact limit, even when it was asked for.
func (e *Engine) pick(n int) Strategy {
	if e.strategy != StrategyAuto && (e.strategy != StrategyExact || n <= e.exactLimit) {
		return e.strategy
	}
	switch {
	case n <= e.exactLimit:
		return StrategyExact
	case e.iterationCap <= 0:
		return StrategyGreedy
	default:
		return StrategyRandom
	}
}

// match is a solution: partner indexes listed pairwise plus its search stats.
type match struct {
	pairs      [][2]int
	cost       float64
	iterations int
}

// field is the indexed view of one pairing problem.
type field struct {
	ps      []ranking.Participant
	cost    [][]float64
	rematch [][]bool
	// pos is each participant's place in rank order.
	pos    []int
	byRank []int
}

func newField(ps []ranking.Participant, penalty float64) *field {
	n := len(ps)
	f := &field{
		ps:      ps,
		cost:    make([][]float64, n),
		rematch: make([][]bool, n),
		pos:     make([]int, n),
		byRank:  make([]int, n),
	}
	for i := range ps {
		f.cost[i] = make([]float64, n)
		f.rematch[i] = make([]bool, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := ps[i].Score - ps[j].Score
			c := d * d
			again := ps[i].HasPlayed(ps[j].Name) || ps[j].HasPlayed(ps[i].Name)
			if again {
				c += penalty
			}
			f.cost[i][j], f.cost[j][i] = c, c
			f.rematch[i][j], f.rematch[j][i] = again, again
		}
	}
	for i := range f.byRank {
		f.byRank[i] = i
	}
	slices.SortStableFunc(f.byRank, func(a, b int) int {
		return ranking.CompareRank(ps[b], ps[a])
	})
	for p, i := range f.byRank {
		f.pos[i] = p
	}
	return f
}

// lowerBound pairs neighbours in score order. No matching has a smaller
// score-gap sum, penalties aside.
func (f *field) lowerBound() float64 {
	scores := make([]float64, len(f.ps))
	for i, p := range f.ps {
		scores[i] = p.Score
	}
	slices.Sort(scores)
	var lb float64
	for i := 0; i+1 < len(scores); i += 2 {
		d := scores[i] - scores[i+1]
		lb += d * d
	}
	return lb
}

func (f *field) result(sol match) Result {
	pairs := make([][2]int, len(sol.pairs))
	for i, p := range sol.pairs {
		a, b := p[0], p[1]
		if f.pos[b] < f.pos[a] {
			a, b = b, a
		}
		pairs[i] = [2]int{a, b}
	}
	slices.SortFunc(pairs, func(x, y [2]int) int {
		return f.pos[x[0]] - f.pos[y[0]]
	})

	res := Result{
		Pairs:      make([]Pair, len(pairs)),
		LowerBound: f.lowerBound(),
		Iterations: sol.iterations,
	}
	for i, p := range pairs {
		res.Pairs[i] = Pair{A: f.ps[p[0]], B: f.ps[p[1]]}
		res.Cost += f.cost[p[0]][p[1]]
		if f.rematch[p[0]][p[1]] {
			res.Rematches++
		}
	}
	return res
}
