package pairing_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/okian/swissjury/internal/domain/pairing"
	"github.com/okian/swissjury/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func field(scores ...float64) []ranking.Participant {
	ps := make([]ranking.Participant, len(scores))
	for i, s := range scores {
		ps[i] = ranking.Participant{Name: fmt.Sprintf("P%02d", i), Score: s}
	}
	return ps
}

func meet(ps []ranking.Participant, i, j int) {
	ps[i].History = append(ps[i].History, ranking.OpponentResult{Opponent: ps[j].Name})
	ps[j].History = append(ps[j].History, ranking.OpponentResult{Opponent: ps[i].Name})
}

func names(res pairing.Result) [][2]string {
	out := make([][2]string, len(res.Pairs))
	for i, p := range res.Pairs {
		out[i] = [2]string{p.A.Name, p.B.Name}
	}
	return out
}

func coversOnce(ps []ranking.Participant, res pairing.Result) bool {
	seen := make(map[string]int, len(ps))
	for _, p := range res.Pairs {
		seen[p.A.Name]++
		seen[p.B.Name]++
	}
	if len(res.Pairs)*2 != len(ps) || len(seen) != len(ps) {
		return false
	}
	for _, p := range ps {
		if seen[p.Name] != 1 {
			return false
		}
	}
	return true
}

// bruteMin returns the cheapest perfect matching cost by plain enumeration.
func bruteMin(ps []ranking.Participant, penalty float64) float64 {
	if len(ps) == 0 {
		return 0
	}
	best := math.Inf(1)
	a := ps[0]
	for i := 1; i < len(ps); i++ {
		b := ps[i]
		d := a.Score - b.Score
		c := d * d
		if a.HasPlayed(b.Name) || b.HasPlayed(a.Name) {
			c += penalty
		}
		rest := make([]ranking.Participant, 0, len(ps)-2)
		rest = append(rest, ps[1:i]...)
		rest = append(rest, ps[i+1:]...)
		best = math.Min(best, c+bruteMin(rest, penalty))
	}
	return best
}

func TestPairPreconditions(t *testing.T) {
	Convey("Given a pairing engine", t, func() {
		e := pairing.NewEngine()
		ctx := context.Background()

		Convey("When the field is empty", func() {
			_, err := e.Pair(ctx, nil)
			So(errors.Is(err, pairing.ErrNoParticipants), ShouldBeTrue)
		})

		Convey("When the field is odd", func() {
			_, err := e.Pair(ctx, field(1, 2, 3))
			So(errors.Is(err, pairing.ErrOddParticipants), ShouldBeTrue)
		})
	})
}

func TestExactPairing(t *testing.T) {
	Convey("Given a small field", t, func() {
		ctx := context.Background()
		e := pairing.NewEngine(pairing.WithSeed(3))

		Convey("When scores form two groups", func() {
			res, err := e.Pair(ctx, field(3, 1, 3, 1))

			Convey("Then equal scores meet", func() {
				So(err, ShouldBeNil)
				So(res.Strategy, ShouldEqual, pairing.StrategyExact)
				So(res.Cost, ShouldEqual, 0)
				So(res.Pairs[0].A.Score, ShouldEqual, 3)
				So(res.Pairs[0].B.Score, ShouldEqual, 3)
			})
		})

		Convey("When the natural pairing is a rematch", func() {
			ps := field(1, 1, 0, 0)
			meet(ps, 0, 1)
			res, err := e.Pair(ctx, ps)

			Convey("Then the rematch is avoided", func() {
				So(err, ShouldBeNil)
				So(res.Cost, ShouldEqual, 2)
				So(res.Rematches, ShouldEqual, 0)
				So(coversOnce(ps, res), ShouldBeTrue)
			})
		})

		Convey("When a rematch cannot be avoided", func() {
			ps := field(0, 0)
			meet(ps, 0, 1)
			res, err := pairing.NewEngine(pairing.WithRematchPenalty(50)).Pair(ctx, ps)

			Convey("Then the penalty is charged once", func() {
				So(err, ShouldBeNil)
				So(res.Cost, ShouldEqual, 50)
				So(res.Rematches, ShouldEqual, 1)
			})
		})

		Convey("When scores are distinct", func() {
			res, err := e.Pair(ctx, field(1, 3, 0, 2))

			Convey("Then pairs are ordered by their best-ranked member", func() {
				So(err, ShouldBeNil)
				So(names(res), ShouldResemble, [][2]string{{"P01", "P03"}, {"P00", "P02"}})
				So(res.Cost, ShouldEqual, res.LowerBound)
			})
		})

		Convey("When scores are 10, 8, 8 and 5 with no history", func() {
			res, err := e.Pair(ctx, field(10, 8, 8, 5))

			Convey("Then the cost meets the adjacent lower bound of 13", func() {
				So(err, ShouldBeNil)
				So(res.Cost, ShouldEqual, 13)
				So(res.LowerBound, ShouldEqual, 13)
				So(res.Pairs[0].A.Name, ShouldEqual, "P00")
				So(res.Pairs[1].B.Name, ShouldEqual, "P03")
			})
		})

		Convey("When the same seed is used twice", func() {
			ps := field(2, 2, 2, 2, 1, 1, 1, 1)
			first, err1 := e.Pair(ctx, ps)
			second, err2 := e.Pair(ctx, ps)

			Convey("Then the pairing is identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(names(first), ShouldResemble, names(second))
			})
		})
	})

	Convey("Given random small fields with random histories", t, func() {
		rng := rand.New(rand.NewSource(11))
		ctx := context.Background()
		e := pairing.NewEngine(pairing.WithSeed(5))

		for trial := 0; trial < 60; trial++ {
			n := 2 * (1 + rng.Intn(5))
			scores := make([]float64, n)
			for i := range scores {
				scores[i] = float64(rng.Intn(4))
			}
			ps := field(scores...)
			for i := 0; i < n; i++ {
				for j := i + 1; j < n; j++ {
					if rng.Float64() < 0.3 {
						meet(ps, i, j)
					}
				}
			}

			res, err := e.Pair(ctx, ps)
			So(err, ShouldBeNil)
			So(coversOnce(ps, res), ShouldBeTrue)
			So(res.Cost, ShouldEqual, bruteMin(ps, 1000))
			So(res.Cost, ShouldBeGreaterThanOrEqualTo, res.LowerBound)
		}
	})
}

func TestRandomPairing(t *testing.T) {
	Convey("Given a field above the exact limit", t, func() {
		ctx := context.Background()

		Convey("When the greedy pairing already reaches the lower bound", func() {
			scores := make([]float64, 16)
			for i := range scores {
				scores[i] = float64(i)
			}
			ps := field(scores...)
			res, err := pairing.NewEngine().Pair(ctx, ps)

			Convey("Then the search stops immediately", func() {
				So(err, ShouldBeNil)
				So(res.Strategy, ShouldEqual, pairing.StrategyRandom)
				So(res.Cost, ShouldEqual, 8)
				So(res.LowerBound, ShouldEqual, 8)
				So(res.Iterations, ShouldEqual, 1)
				So(coversOnce(ps, res), ShouldBeTrue)
			})
		})

		Convey("When the greedy pairing is forced into a rematch", func() {
			ps := field(0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
			for i := 0; i < len(ps); i += 2 {
				meet(ps, i, i+1)
			}

			greedy, err := pairing.NewEngine(pairing.WithIterationCap(0)).Pair(ctx, ps)
			So(err, ShouldBeNil)
			So(greedy.Strategy, ShouldEqual, pairing.StrategyGreedy)
			So(greedy.Rematches, ShouldEqual, 1)
			So(coversOnce(ps, greedy), ShouldBeTrue)

			res, err := pairing.NewEngine(pairing.WithIterationCap(100_000), pairing.WithSeed(9)).Pair(ctx, ps)

			Convey("Then random sampling finds a rematch-free matching", func() {
				So(err, ShouldBeNil)
				So(res.Strategy, ShouldEqual, pairing.StrategyRandom)
				So(res.Cost, ShouldEqual, 0)
				So(res.Rematches, ShouldEqual, 0)
				So(res.Iterations, ShouldBeGreaterThan, 1)
				So(coversOnce(ps, res), ShouldBeTrue)
			})

			Convey("Then parallel workers never do worse than greedy", func() {
				par, err := pairing.NewEngine(pairing.WithWorkers(4), pairing.WithIterationCap(10_000)).Pair(ctx, ps)
				So(err, ShouldBeNil)
				So(par.Cost, ShouldBeLessThanOrEqualTo, greedy.Cost)
				So(coversOnce(ps, par), ShouldBeTrue)
			})
		})

		Convey("When the context is cancelled", func() {
			ps := field(0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
			for i := range ps {
				for j := i + 1; j < len(ps); j++ {
					meet(ps, i, j)
				}
			}
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			_, err := pairing.NewEngine().Pair(cctx, ps)

			Convey("Then the search reports the cancellation", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestForcedExactAboveLimit(t *testing.T) {
	Convey("Given exact search forced on a field above the exact limit", t, func() {
		ctx := context.Background()
		scores := make([]float64, 40)
		for i := range scores {
			scores[i] = float64(i % 7)
		}
		ps := field(scores...)

		Convey("When an iteration cap is set", func() {
			e := pairing.NewEngine(pairing.WithStrategy(pairing.StrategyExact), pairing.WithExactLimit(12),
				pairing.WithIterationCap(2_000), pairing.WithSeed(4))
			res, err := e.Pair(ctx, ps)

			Convey("Then the bounded random search runs instead", func() {
				So(err, ShouldBeNil)
				So(res.Strategy, ShouldEqual, pairing.StrategyRandom)
				So(res.Iterations, ShouldBeLessThanOrEqualTo, 2_001)
				So(coversOnce(ps, res), ShouldBeTrue)
			})
		})

		Convey("When the iteration cap is disabled", func() {
			e := pairing.NewEngine(pairing.WithStrategy(pairing.StrategyExact), pairing.WithExactLimit(12),
				pairing.WithIterationCap(0))
			res, err := e.Pair(ctx, ps)

			Convey("Then the greedy pairing is used", func() {
				So(err, ShouldBeNil)
				So(res.Strategy, ShouldEqual, pairing.StrategyGreedy)
				So(coversOnce(ps, res), ShouldBeTrue)
			})
		})

		Convey("When the field fits under the limit", func() {
			res, err := pairing.NewEngine(pairing.WithStrategy(pairing.StrategyExact), pairing.WithExactLimit(4)).
				Pair(ctx, field(10, 8, 8, 5))

			Convey("Then enumeration still runs", func() {
				So(err, ShouldBeNil)
				So(res.Strategy, ShouldEqual, pairing.StrategyExact)
			})
		})
	})
}

func TestGreedyPairing(t *testing.T) {
	Convey("Given a forced greedy strategy", t, func() {
		ps := field(3, 2, 2, 0)
		meet(ps, 0, 1)
		res, err := pairing.NewEngine(pairing.WithStrategy(pairing.StrategyGreedy)).Pair(context.Background(), ps)

		Convey("Then the leader takes the closest opponent it has not met", func() {
			So(err, ShouldBeNil)
			So(res.Strategy, ShouldEqual, pairing.StrategyGreedy)
			So(names(res), ShouldResemble, [][2]string{{"P00", "P02"}, {"P01", "P03"}})
			So(res.Cost, ShouldEqual, 5)
		})
	})
}

func TestParseStrategy(t *testing.T) {
	Convey("Given strategy names", t, func() {
		for in, want := range map[string]pairing.Strategy{
			"":       pairing.StrategyAuto,
			"EXACT":  pairing.StrategyExact,
			" random": pairing.StrategyRandom,
			"greedy": pairing.StrategyGreedy,
		} {
			got, err := pairing.ParseStrategy(in)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, want)
		}

		_, err := pairing.ParseStrategy("hungarian")
		So(errors.Is(err, pairing.ErrUnknownStrategy), ShouldBeTrue)
	})
}
