package metrics

import (
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then the collectors are registered", func() {
				So(manager, ShouldNotBeNil)
				manager.roundsPlanned.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_ns"),
				WithSubsystem("test_sub"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithCostBuckets([]float64{1, 10, 100}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the names carry the namespace and subsystem", func() {
				manager.roundsPlanned.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_ns_test_sub_rounds_planned_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(manager.costBuckets, ShouldResemble, []float64{1, 10, 100})
			})
		})

		Convey("When empty option values are passed", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithConstLabels(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "swissjury")
				So(manager.subsystem, ShouldEqual, "planner")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
				So(manager.constLabels, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording round planning metrics", func() {
			before := testutil.ToFloat64(globalManager.roundsPlanned)
			RecordRoundPlanned(12.5)
			RecordBye()

			Convey("Then the counters advance", func() {
				So(testutil.ToFloat64(globalManager.roundsPlanned), ShouldEqual, before+1)
			})
		})

		Convey("When recording a pairing", func() {
			before := testutil.ToFloat64(globalManager.pairingsByMethod.WithLabelValues("exact"))
			rematches := testutil.ToFloat64(globalManager.rematchesPaired)
			RecordPairing("exact", 8, 4, 10395, 2)

			Convey("Then strategy and rematch counters advance", func() {
				So(testutil.ToFloat64(globalManager.pairingsByMethod.WithLabelValues("exact")), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.rematchesPaired), ShouldEqual, rematches+2)
			})
		})

		Convey("When recording judge outcomes", func() {
			before := testutil.ToFloat64(globalManager.judgeAssignments.WithLabelValues("conflict"))
			RecordJudgeAssignment("conflict")
			RecordJudgeAssignment("clean")

			Convey("Then each outcome has its own series", func() {
				So(testutil.ToFloat64(globalManager.judgeAssignments.WithLabelValues("conflict")), ShouldEqual, before+1)
			})
		})

		Convey("When updating gauges", func() {
			UpdateParticipants(9)
			UpdateJudges(4)
			UpdateQueueSize(3)
			UpdateQueueCapacity(100)
			UpdateWorkerCount(2)

			Convey("Then gauges hold the last value", func() {
				So(testutil.ToFloat64(globalManager.participantsTotal), ShouldEqual, 9)
				So(testutil.ToFloat64(globalManager.judgesTotal), ShouldEqual, 4)
				So(testutil.ToFloat64(globalManager.queueSize), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.queueCapacity), ShouldEqual, 100)
				So(testutil.ToFloat64(globalManager.workerCount), ShouldEqual, 2)
			})
		})

		Convey("When recording result ingestion", func() {
			ingested := testutil.ToFloat64(globalManager.resultsIngested)
			dup := testutil.ToFloat64(globalManager.resultsDuplicate)
			RecordResultIngested()
			RecordResultDuplicate()
			RecordResultRejected()
			RecordWorkerLatency(0.3)

			Convey("Then the result counters advance", func() {
				So(testutil.ToFloat64(globalManager.resultsIngested), ShouldEqual, ingested+1)
				So(testutil.ToFloat64(globalManager.resultsDuplicate), ShouldEqual, dup+1)
			})
		})

		Convey("When recording errors and HTTP requests", func() {
			So(func() {
				RecordErrorByComponent("pairing", "odd_participants")
				RecordRoundPlanError("no_participants")
				RecordHTTPRequest("/rounds", "POST", "200", 4.2)
			}, ShouldNotPanic)

			Convey("Then the registry exposes them", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				var names []string
				for _, f := range families {
					names = append(names, f.GetName())
				}
				joined := strings.Join(names, ",")
				So(joined, ShouldContainSubstring, "swissjury_planner_http_requests_total")
				So(joined, ShouldContainSubstring, "swissjury_planner_errors_total")
			})
		})

		Convey("When the cost is below the lower bound", func() {
			So(func() { RecordPairing("random", 2, 4, 1, 0) }, ShouldNotPanic)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent metric updates", t, func() {
		before := testutil.ToFloat64(globalManager.resultsIngested)
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				RecordResultIngested()
				UpdateQueueSize(i)
			}()
		}
		wg.Wait()

		Convey("Then no update is lost", func() {
			So(testutil.ToFloat64(globalManager.resultsIngested), ShouldEqual, before+50)
		})
	})
}
