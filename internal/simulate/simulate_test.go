package simulate

import (
	"context"
	"math/rand"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/swissjury/internal/adapters/http/api"
	service "github.com/okian/swissjury/internal/app"
	"github.com/okian/swissjury/internal/domain/types"
	"github.com/okian/swissjury/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestGenerator(t *testing.T) {
	Convey("Given a seeded generator", t, func() {
		rng := rand.New(rand.NewSource(3))

		Convey("Then the field is spread over the affiliations", func() {
			field := newField(rng, 7, 3)
			So(field, ShouldHaveLength, 7)
			So(field[0].Affiliation, ShouldEqual, "Club-1")
			So(field[3].Affiliation, ShouldEqual, "Club-1")
			So(field[5].Affiliation, ShouldEqual, "Club-3")
			names := map[string]bool{}
			for _, p := range field {
				names[p.Name] = true
			}
			So(names, ShouldHaveLength, 7)
		})

		Convey("Then every judge is barred from one affiliation", func() {
			for _, j := range newJudges(rng, 4, 2) {
				So(j.Forbidden, ShouldHaveLength, 1)
				So([]string{"Club-1", "Club-2"}, ShouldContain, j.Forbidden[0])
			}
		})

		Convey("Then outcomes hand out one point per board", func() {
			a := player{Name: "A", Strength: 1800}
			b := player{Name: "B", Strength: 1200}
			wins := 0.0
			for i := 0; i < 200; i++ {
				s1, s2 := outcome(rng, a, b, 0.1)
				So(s1+s2, ShouldEqual, 1)
				wins += s1
			}
			So(wins, ShouldBeGreaterThan, 150)
		})
	})
}

func TestVerifier(t *testing.T) {
	Convey("Given a verifier over four players", t, func() {
		field := []player{
			{Name: "A", Affiliation: "X"}, {Name: "B", Affiliation: "Y"},
			{Name: "C", Affiliation: "X"}, {Name: "D", Affiliation: "Y"},
		}
		v := newVerifier(field, []judge{{Name: "J", Forbidden: []string{"X"}}})
		r1 := types.Round{Round: 1, Matches: []types.Match{
			{Board: 1, Participant1: "A", Participant2: "B"},
			{Board: 2, Participant1: "C", Participant2: "D"},
		}}

		Convey("Then a valid round passes", func() {
			So(v.checkRound(1, r1), ShouldBeNil)
		})

		Convey("Then an unreported rematch is caught", func() {
			So(v.checkRound(1, r1), ShouldBeNil)
			r2 := r1
			r2.Round = 2
			So(v.checkRound(2, r2), ShouldWrap, ErrInvalidPlan)
		})

		Convey("Then a missing participant is caught", func() {
			r := types.Round{Round: 1, Matches: r1.Matches[:1]}
			So(v.checkRound(1, r), ShouldWrap, ErrInvalidPlan)
		})

		Convey("Then a barred judge is caught", func() {
			r := types.Round{Round: 1, Matches: []types.Match{
				{Board: 1, Participant1: "A", Participant2: "B", Judge: "J"},
				{Board: 2, Participant1: "C", Participant2: "D"},
			}}
			So(v.checkRound(1, r), ShouldWrap, ErrInvalidPlan)
		})

		Convey("Then a table out of score order is caught", func() {
			table := []types.Entry{
				{Rank: 1, Name: "A", Score: 1}, {Rank: 2, Name: "B", Score: 2},
				{Rank: 3, Name: "C"}, {Rank: 3, Name: "D"},
			}
			So(v.checkStandings(table), ShouldWrap, ErrInvalidStandings)
			So(v.checkStandings(table[:2]), ShouldWrap, ErrInvalidStandings)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a planner served over HTTP", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		svc := service.New(service.WithWorkerCount(2), service.WithQueueSize(64))
		So(svc.Start(ctx), ShouldBeNil)
		srv := httptest.NewServer(api.NewServer(svc, svc).Handler())
		Reset(func() {
			srv.Close()
			svc.Stop()
		})

		Convey("When a nine player tournament is played over four rounds", func() {
			stats, err := Run(ctx, &Config{
				BaseURL:      srv.URL,
				Participants: 9,
				Affiliations: 3,
				Judges:       3,
				Rounds:       4,
				Workers:      4,
				Timeout:      5 * time.Second,
				Seed:         11,
				DrawRate:     0.1,
			})

			Convey("Then every round is planned without rematches", func() {
				So(err, ShouldBeNil)
				So(stats.ParticipantsRegistered, ShouldEqual, 9)
				So(stats.JudgesRegistered, ShouldEqual, 3)
				So(stats.RoundsPlanned, ShouldEqual, 4)
				So(stats.ByesGranted, ShouldEqual, 4)
				So(stats.Rematches, ShouldEqual, 0)
			})

			Convey("Then every result is applied once", func() {
				So(err, ShouldBeNil)
				So(stats.ResultsSubmitted, ShouldEqual, 20)
				So(stats.ResultsAccepted, ShouldEqual, 20)
				So(stats.ResultsDuplicate, ShouldEqual, 4)
				So(stats.ResultsFailed, ShouldEqual, 0)
			})
		})

		Convey("When the service is unreachable", func() {
			_, err := Run(ctx, &Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
			So(err, ShouldNotBeNil)
		})
	})
}
