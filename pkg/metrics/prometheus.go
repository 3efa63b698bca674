// Package metrics provides Prometheus metrics for the swissjury round planner.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	costBuckets      []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Round planning
	roundsPlanned     prometheus.Counter
	roundPlanErrors   *prometheus.CounterVec
	planningLatency   prometheus.Histogram
	pairingsByMethod  *prometheus.CounterVec
	pairingCost       prometheus.Histogram
	pairingGap        prometheus.Histogram
	searchIterations  prometheus.Histogram
	rematchesPaired   prometheus.Counter
	byesInserted      prometheus.Counter
	judgeAssignments  *prometheus.CounterVec
	participantsTotal prometheus.Gauge
	judgesTotal       prometheus.Gauge

	// Result ingestion
	resultsIngested   prometheus.Counter
	resultsDuplicate  prometheus.Counter
	resultsRejected   prometheus.Counter
	queueSize         prometheus.Gauge
	queueCapacity     prometheus.Gauge
	workerCount       prometheus.Gauge
	workerLatency     prometheus.Histogram
	errorsByComponent *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "swissjury",
		subsystem:        "planner",
		histogramBuckets: prometheus.DefBuckets,
		costBuckets:      prometheus.ExponentialBuckets(1, 4, 10),
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.roundsPlanned = m.counter("rounds_planned_total", "Total number of rounds planned")
	m.roundPlanErrors = m.counterVec("round_plan_errors_total", "Round planning failures by reason", "reason")
	m.planningLatency = m.histogram("planning_latency_milliseconds", "Time spent planning one round", m.histogramBuckets)
	m.pairingsByMethod = m.counterVec("pairings_total", "Pairings computed by search strategy", "strategy")
	m.pairingCost = m.histogram("pairing_cost", "Cost of the chosen pairing (squared score gaps plus rematch penalties)", m.costBuckets)
	m.pairingGap = m.histogram("pairing_cost_gap", "Chosen pairing cost minus the adjacent-pairing lower bound", m.costBuckets)
	m.searchIterations = m.histogram("search_iterations", "Candidate matchings evaluated per pairing",
		prometheus.ExponentialBuckets(1, 10, 8))
	m.rematchesPaired = m.counter("rematches_total", "Pairs whose participants already met")
	m.byesInserted = m.counter("byes_total", "Rounds that needed a synthetic bye")
	m.judgeAssignments = m.counterVec("judge_assignments_total", "Judge assignment outcomes", "outcome")
	m.participantsTotal = m.gauge("participants", "Participants known to the tournament")
	m.judgesTotal = m.gauge("judges", "Judges in the pool")

	m.resultsIngested = m.counter("results_ingested_total", "Match results applied to the tournament history")
	m.resultsDuplicate = m.counter("results_duplicate_total", "Duplicate result submissions detected")
	m.resultsRejected = m.counter("results_rejected_total", "Result submissions rejected by the store")
	m.queueSize = m.gauge("queue_size", "Current size of the result queue")
	m.queueCapacity = m.gauge("queue_capacity", "Capacity of the result queue")
	m.workerCount = m.gauge("worker_count", "Number of result ingestion workers")
	m.workerLatency = m.histogram("worker_latency_milliseconds", "Time to apply one result", m.histogramBuckets)
	m.errorsByComponent = m.counterVec("errors_total", "Errors by component and type", "component", "type")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
}

// RecordRoundPlanned counts a successfully planned round and its latency.
func RecordRoundPlanned(latencyMs float64) {
	globalManager.roundsPlanned.Inc()
	globalManager.planningLatency.Observe(latencyMs)
}

// RecordRoundPlanError counts a failed planning attempt.
func RecordRoundPlanError(reason string) {
	globalManager.roundPlanErrors.WithLabelValues(reason).Inc()
}

// RecordPairing records the outcome of one pairing search.
func RecordPairing(strategy string, cost, lowerBound float64, iterations, rematches int) {
	globalManager.pairingsByMethod.WithLabelValues(strategy).Inc()
	globalManager.pairingCost.Observe(cost)
	if gap := cost - lowerBound; gap >= 0 {
		globalManager.pairingGap.Observe(gap)
	}
	globalManager.searchIterations.Observe(float64(iterations))
	globalManager.rematchesPaired.Add(float64(rematches))
}

// RecordBye counts a round that needed a synthetic bye.
func RecordBye() {
	globalManager.byesInserted.Inc()
}

// RecordJudgeAssignment counts one assignment outcome: "clean", "conflict" or "unassigned".
func RecordJudgeAssignment(outcome string) {
	globalManager.judgeAssignments.WithLabelValues(outcome).Inc()
}

// UpdateParticipants sets the participant gauge.
func UpdateParticipants(count int) {
	globalManager.participantsTotal.Set(float64(count))
}

// UpdateJudges sets the judge pool gauge.
func UpdateJudges(count int) {
	globalManager.judgesTotal.Set(float64(count))
}

// RecordResultIngested counts an applied match result.
func RecordResultIngested() {
	globalManager.resultsIngested.Inc()
}

// RecordResultDuplicate counts a duplicate result submission.
func RecordResultDuplicate() {
	globalManager.resultsDuplicate.Inc()
}

// RecordResultRejected counts a result the store refused.
func RecordResultRejected() {
	globalManager.resultsRejected.Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerLatency records the time a worker spent on one result.
func RecordWorkerLatency(latencyMs float64) {
	globalManager.workerLatency.Observe(latencyMs)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
