package model_test

import (
	"errors"
	"math"
	"testing"

	model "github.com/okian/swissjury/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestMatchRecordValidate(t *testing.T) {
	convey.Convey("Given match records", t, func() {
		valid := model.MatchRecord{Round: 1, Participant1: "A", Participant2: "B", Score1: 1}

		convey.Convey("When the record is well formed", func() {
			convey.So(valid.Validate(), convey.ShouldBeNil)
			convey.So(valid.Involves("B"), convey.ShouldBeTrue)
			convey.So(valid.Involves("C"), convey.ShouldBeFalse)
		})

		convey.Convey("When a name is missing", func() {
			r := valid
			r.Participant2 = " "
			convey.So(errors.Is(r.Validate(), model.ErrEmptyName), convey.ShouldBeTrue)
		})

		convey.Convey("When a participant meets itself", func() {
			r := valid
			r.Participant2 = "A"
			convey.So(errors.Is(r.Validate(), model.ErrSelfMatch), convey.ShouldBeTrue)
		})

		convey.Convey("When a score is not usable", func() {
			for _, s := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
				r := valid
				r.Score2 = s
				convey.So(errors.Is(r.Validate(), model.ErrInvalidScore), convey.ShouldBeTrue)
			}
		})

		convey.Convey("When a score carries a penalty below zero", func() {
			r := valid
			r.Score2 = -0.5
			convey.So(r.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When the round is negative", func() {
			r := valid
			r.Round = -2
			convey.So(errors.Is(r.Validate(), model.ErrInvalidRound), convey.ShouldBeTrue)
		})
	})
}

func TestBoundaryRecords(t *testing.T) {
	convey.Convey("Given participant and judge records", t, func() {
		convey.So(model.ParticipantRecord{Name: "A"}.Validate(), convey.ShouldBeNil)
		convey.So(model.ParticipantRecord{}.Validate(), convey.ShouldEqual, model.ErrEmptyName)
		convey.So(model.JudgeDefinition{Name: "J"}.Validate(), convey.ShouldBeNil)
		convey.So(model.JudgeDefinition{}.Validate(), convey.ShouldEqual, model.ErrEmptyJudgeRef)

		convey.Convey("Then produced matches expose the unassigned marker", func() {
			m := model.ProducedMatch{MatchRecord: model.MatchRecord{Judge: model.Unassigned}}
			convey.So(m.IsUnassigned(), convey.ShouldBeTrue)
			m.Judge = "J"
			convey.So(m.IsUnassigned(), convey.ShouldBeFalse)
		})
	})
}
