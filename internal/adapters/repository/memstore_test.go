package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/swissjury/internal/adapters/repository"
	"github.com/okian/swissjury/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemStoreRoster(t *testing.T) {
	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		s := repository.NewMemStore()

		Convey("When participants are registered", func() {
			So(s.AddParticipant(ctx, model.ParticipantRecord{Name: "A"}), ShouldBeNil)
			So(s.AddParticipant(ctx, model.ParticipantRecord{Name: "B", Affiliation: "North"}), ShouldBeNil)
			So(s.AddParticipant(ctx, model.ParticipantRecord{Name: "A", Affiliation: "South"}), ShouldBeNil)

			Convey("Then names stay unique and affiliations update", func() {
				So(s.Count(ctx), ShouldEqual, 2)
				snap := s.Snapshot(ctx)
				So(snap.Participants, ShouldResemble, []model.ParticipantRecord{
					{Name: "A", Affiliation: "South"},
					{Name: "B", Affiliation: "North"},
				})
			})
		})

		Convey("When a participant has no name", func() {
			err := s.AddParticipant(ctx, model.ParticipantRecord{})
			So(errors.Is(err, repository.ErrInvalidRecord), ShouldBeTrue)
		})

		Convey("When judges are registered twice", func() {
			j := model.JudgeDefinition{Name: "J", ForbiddenAffiliations: []string{"X"}}
			So(s.AddJudge(ctx, j), ShouldBeNil)
			err := s.AddJudge(ctx, j)

			Convey("Then the duplicate is rejected", func() {
				So(errors.Is(err, repository.ErrDuplicateJudge), ShouldBeTrue)
				So(s.Snapshot(ctx).Judges, ShouldHaveLength, 1)
			})

			Convey("Then snapshots do not alias stored slices", func() {
				snap := s.Snapshot(ctx)
				snap.Judges[0].ForbiddenAffiliations[0] = "Y"
				So(s.Snapshot(ctx).Judges[0].ForbiddenAffiliations, ShouldResemble, []string{"X"})
			})
		})
	})
}

func TestMemStoreResults(t *testing.T) {
	Convey("Given a store with a planned round", t, func() {
		ctx := context.Background()
		s := repository.NewMemStore()
		plan := repository.PlannedRound{
			Round: 1,
			Matches: []model.ProducedMatch{
				{ID: "m1", Board: 1, MatchRecord: model.MatchRecord{Round: 1, Participant1: "A", Participant2: "B", Judge: "J1"}},
				{ID: "m2", Board: 2, MatchRecord: model.MatchRecord{Round: 1, Participant1: "C", Participant2: "D", Judge: model.Unassigned}},
			},
		}
		So(s.SavePlan(ctx, plan), ShouldBeNil)

		Convey("When the round is planned again", func() {
			err := s.SavePlan(ctx, plan)
			So(errors.Is(err, repository.ErrRoundPlanned), ShouldBeTrue)
		})

		Convey("When the plan is read back", func() {
			got, err := s.Plan(ctx, 1)
			So(err, ShouldBeNil)
			So(got.Matches, ShouldHaveLength, 2)
			So(s.LatestRound(ctx), ShouldEqual, 1)

			_, err = s.Plan(ctx, 2)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When a result without a judge arrives", func() {
			So(s.AddResult(ctx, model.MatchRecord{Round: 1, Participant1: "B", Participant2: "A", Score1: 1}), ShouldBeNil)
			So(s.AddResult(ctx, model.MatchRecord{Round: 1, Participant1: "C", Participant2: "D", Score2: 1}), ShouldBeNil)

			Convey("Then the planned judge is filled in", func() {
				history := s.Snapshot(ctx).History
				So(history, ShouldHaveLength, 2)
				So(history[0].Judge, ShouldEqual, "J1")
				So(history[1].Judge, ShouldEqual, "")
			})
		})

		Convey("When the same board is reported twice", func() {
			So(s.AddResult(ctx, model.MatchRecord{Round: 1, Participant1: "A", Participant2: "B", Score1: 1}), ShouldBeNil)
			err := s.AddResult(ctx, model.MatchRecord{Round: 1, Participant1: "B", Participant2: "A", Score2: 1})

			Convey("Then the second report is rejected", func() {
				So(errors.Is(err, repository.ErrDuplicateResult), ShouldBeTrue)
				So(s.Snapshot(ctx).History, ShouldHaveLength, 1)
			})
		})

		Convey("When a result is malformed", func() {
			err := s.AddResult(ctx, model.MatchRecord{Round: 1, Participant1: "A", Participant2: "A"})
			So(errors.Is(err, repository.ErrInvalidRecord), ShouldBeTrue)
		})
	})
}

func TestMemStoreConcurrency(t *testing.T) {
	Convey("Given concurrent writers", t, func() {
		ctx := context.Background()
		s := repository.NewMemStore()

		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 50; i++ {
					_ = s.AddParticipant(ctx, model.ParticipantRecord{Name: fmt.Sprintf("P%d-%d", g, i)})
					_ = s.AddResult(ctx, model.MatchRecord{
						Round:        1,
						Participant1: fmt.Sprintf("P%d-%d", g, i),
						Participant2: fmt.Sprintf("Q%d-%d", g, i),
						Score1:       1,
					})
					_ = s.Snapshot(ctx)
				}
			}()
		}
		wg.Wait()

		Convey("Then every write is kept", func() {
			So(s.Count(ctx), ShouldEqual, 400)
			So(s.Snapshot(ctx).History, ShouldHaveLength, 400)
		})
	})
}
