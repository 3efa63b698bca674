// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Errors returned from Load wrap this package's sentinel errors.
package config

import (
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// ResultQueueSize bounds the in-memory result queue.
	ResultQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of result ingestion workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the expected number of distinct result IDs.
	DedupeSize int `koanf:"dedupe_size"`

	// ExactLimit is the largest field (bye included) paired by full enumeration.
	ExactLimit int `koanf:"exact_limit"`

	// IterationCap bounds the randomized search. Zero or less selects greedy pairing.
	IterationCap int `koanf:"iteration_cap"`

	// RematchPenalty is added to the pairing cost for every repeated match-up.
	RematchPenalty float64 `koanf:"rematch_penalty"`

	// SearchWorkers runs the randomized search on this many goroutines.
	SearchWorkers int `koanf:"search_workers"`

	// Seed feeds every random source. Zero means seed from the clock.
	Seed int64 `koanf:"seed"`

	// ByeName names the synthetic participant added to odd fields.
	ByeName string `koanf:"bye_name"`

	// Strategy forces a pairing search: auto, exact, random or greedy.
	Strategy string `koanf:"strategy"`

	// ShuffleJudges shuffles the judge pool once per round before ordering by load.
	ShuffleJudges bool `koanf:"shuffle_judges"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		ResultQueueSize: 10_000,
		WorkerCount:     runtime.NumCPU(),
		DedupeSize:      100_000,
		ExactLimit:      12,
		IterationCap:    1_000_000,
		RematchPenalty:  1000,
		SearchWorkers:   1,
		Seed:            0,
		ByeName:         "Jurors",
		Strategy:        "auto",
		ShuffleJudges:   true,
	}
}
