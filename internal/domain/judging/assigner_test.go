package judging_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/okian/swissjury/internal/domain/judging"
	"github.com/okian/swissjury/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func judge(name string, judged ...string) judging.Judge {
	j := judging.NewJudge(model.JudgeDefinition{Name: name})
	for _, p := range judged {
		j.MarkJudged(p)
	}
	return j
}

func match(a, b string) judging.Match {
	return judging.Match{A: judging.Contestant{Name: a}, B: judging.Contestant{Name: b}}
}

func judgeNames(out judging.Outcome) []string {
	names := make([]string, len(out.Assignments))
	for i, a := range out.Assignments {
		names[i] = a.Judge
	}
	return names
}

func TestAffiliationExclusion(t *testing.T) {
	Convey("Given judge A forbidden for affiliation X and judge B unrestricted", t, func() {
		ctx := context.Background()
		a := judging.NewJudge(model.JudgeDefinition{Name: "A", ForbiddenAffiliations: []string{"X"}})
		b := judging.NewJudge(model.JudgeDefinition{Name: "B"})
		matches := []judging.Match{
			{A: judging.Contestant{Name: "X1", Affiliation: "X"}, B: judging.Contestant{Name: "X2", Affiliation: "X"}},
			{A: judging.Contestant{Name: "Y1", Affiliation: "Y"}, B: judging.Contestant{Name: "Y2", Affiliation: "Y"}},
		}

		Convey("When both judges are available", func() {
			out := judging.NewAssigner().Assign(ctx, matches, []judging.Judge{a, b})

			Convey("Then the X match goes to B and A takes the other", func() {
				So(judgeNames(out), ShouldResemble, []string{"B", "A"})
				So(out.Conflicts, ShouldEqual, 0)
				So(out.Unassigned, ShouldEqual, 0)
			})
		})

		Convey("When only judge A is available", func() {
			out := judging.NewAssigner().Assign(ctx, matches, []judging.Judge{a})

			Convey("Then the X match is unassigned and never given to A", func() {
				So(out.Assignments[0].Judge, ShouldEqual, model.Unassigned)
				So(out.Assignments[0].Assigned(), ShouldBeFalse)
				So(out.Assignments[1].Judge, ShouldEqual, "A")
				So(out.Unassigned, ShouldEqual, 1)
			})
		})

		Convey("When only one side carries the affiliation", func() {
			mixed := []judging.Match{{
				A: judging.Contestant{Name: "X1", Affiliation: "X"},
				B: judging.Contestant{Name: "Y1", Affiliation: "Y"},
			}}
			out := judging.NewAssigner().Assign(ctx, mixed, []judging.Judge{a})

			Convey("Then the judge is still excluded", func() {
				So(out.Assignments[0].Judge, ShouldEqual, model.Unassigned)
			})
		})
	})
}

func TestLoadOrdering(t *testing.T) {
	Convey("Given two fresh judges and four matches", t, func() {
		ctx := context.Background()
		matches := []judging.Match{match("A", "B"), match("C", "D"), match("E", "F"), match("G", "H")}

		Convey("When assigning without shuffle", func() {
			out := judging.NewAssigner().Assign(ctx, matches, []judging.Judge{judge("J1"), judge("J2")})

			Convey("Then matches alternate between the judges", func() {
				So(judgeNames(out), ShouldResemble, []string{"J1", "J2", "J1", "J2"})
				So(out.Judges[0].Count, ShouldEqual, 2)
				So(out.Judges[1].Count, ShouldEqual, 2)
			})
		})

		Convey("When one judge has a heavy lifetime count", func() {
			busy := judge("J1")
			busy.Count = 5
			out := judging.NewAssigner().Assign(ctx, matches[:1], []judging.Judge{busy, judge("J2")})

			Convey("Then the lighter judge goes first", func() {
				So(judgeNames(out), ShouldResemble, []string{"J2"})
			})
		})

		Convey("When the pool is shuffled with a fixed seed", func() {
			pool := []judging.Judge{judge("J1"), judge("J2"), judge("J3"), judge("J4")}
			first := judging.NewAssigner(judging.WithShuffle(true), judging.WithSeed(42)).Assign(ctx, matches, pool)
			second := judging.NewAssigner(judging.WithShuffle(true), judging.WithSeed(42)).Assign(ctx, matches, pool)

			Convey("Then the assignment is reproducible and balanced", func() {
				So(judgeNames(first), ShouldResemble, judgeNames(second))
				for _, j := range first.Judges {
					So(j.Count, ShouldEqual, 1)
				}
			})
		})
	})
}

func TestRoundSeed(t *testing.T) {
	Convey("Given a shuffling assigner with a base seed", t, func() {
		ctx := context.Background()
		matches := []judging.Match{match("A", "B"), match("C", "D"), match("E", "F")}
		var pool []judging.Judge
		for i := 1; i <= 6; i++ {
			pool = append(pool, judge(fmt.Sprintf("J%d", i)))
		}
		base := judging.NewAssigner(judging.WithShuffle(true), judging.WithSeed(100))

		Convey("Then each round shuffles with the base seed plus the round number", func() {
			for rd := 1; rd <= 5; rd++ {
				got := base.ForRound(rd).Assign(ctx, matches, pool)
				want := judging.NewAssigner(judging.WithShuffle(true), judging.WithSeed(100+int64(rd))).Assign(ctx, matches, pool)
				So(judgeNames(got), ShouldResemble, judgeNames(want))
			}
		})

		Convey("Then the base assigner is left unchanged", func() {
			base.ForRound(7)
			got := base.Assign(ctx, matches, pool)
			want := judging.NewAssigner(judging.WithShuffle(true), judging.WithSeed(100)).Assign(ctx, matches, pool)
			So(judgeNames(got), ShouldResemble, judgeNames(want))
		})

		Convey("Then the rounds do not all share one order", func() {
			orders := make(map[string]bool)
			for rd := 1; rd <= 20; rd++ {
				orders[fmt.Sprint(judgeNames(base.ForRound(rd).Assign(ctx, matches, pool)))] = true
			}
			So(len(orders), ShouldBeGreaterThan, 1)
		})
	})
}

func TestRelaxation(t *testing.T) {
	Convey("Given judges who already officiated the participants", t, func() {
		ctx := context.Background()

		Convey("When every judge has judged at least one of the pair", func() {
			pool := []judging.Judge{judge("Both", "A", "B"), judge("One", "A")}
			out := judging.NewAssigner().Assign(ctx, []judging.Match{match("A", "B")}, pool)

			Convey("Then the judge with the fewest repeats is taken and flagged", func() {
				So(out.Assignments[0].Judge, ShouldEqual, "One")
				So(out.Assignments[0].Conflict, ShouldBeTrue)
				So(out.Conflicts, ShouldEqual, 1)
			})
		})

		Convey("When a clean judge exists further down the load order", func() {
			busy := judge("Fresh")
			busy.Count = 9
			pool := []judging.Judge{judge("Seen", "A"), busy}
			out := judging.NewAssigner().Assign(ctx, []judging.Match{match("A", "B")}, pool)

			Convey("Then the clean judge wins over load", func() {
				So(out.Assignments[0].Judge, ShouldEqual, "Fresh")
				So(out.Assignments[0].Conflict, ShouldBeFalse)
			})
		})

		Convey("When the only candidate names a participant as forbidden", func() {
			j := judging.NewJudge(model.JudgeDefinition{Name: "J", ForbiddenParticipants: []string{"B"}})
			out := judging.NewAssigner().Assign(ctx, []judging.Match{match("A", "B")}, []judging.Judge{j})

			Convey("Then the exclusion is never relaxed", func() {
				So(out.Assignments[0].Judge, ShouldEqual, model.Unassigned)
				So(out.Unassigned, ShouldEqual, 1)
			})
		})
	})
}

func TestAssignState(t *testing.T) {
	Convey("Given a pool passed to the assigner", t, func() {
		ctx := context.Background()
		pool := []judging.Judge{judge("J", "Z")}
		out := judging.NewAssigner().Assign(ctx, []judging.Match{match("A", "B")}, pool)

		Convey("Then the returned judge carries the new state", func() {
			So(out.Judges[0].Count, ShouldEqual, 1)
			So(out.Judges[0].JudgedNames(), ShouldResemble, []string{"A", "B", "Z"})
		})

		Convey("Then the caller's pool is untouched", func() {
			So(pool[0].Count, ShouldEqual, 0)
			So(pool[0].JudgedNames(), ShouldResemble, []string{"Z"})
		})
	})

	Convey("Given an empty pool", t, func() {
		out := judging.NewAssigner().Assign(context.Background(),
			[]judging.Match{match("A", "B"), match("C", "D")}, nil)

		Convey("Then every match is unassigned", func() {
			So(out.Unassigned, ShouldEqual, 2)
			So(judgeNames(out), ShouldResemble, []string{model.Unassigned, model.Unassigned})
		})
	})

	Convey("Given a definition with a lifetime count", t, func() {
		j := judging.NewJudge(model.JudgeDefinition{Name: "J", Assigned: 4})
		So(j.Count, ShouldEqual, 4)
		So(j.HasJudged("A"), ShouldBeFalse)
	})
}
