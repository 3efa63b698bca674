package pairing

import "github.com/okian/swissjury/pkg/logger"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithExactLimit sets the largest field size searched by full enumeration.
func WithExactLimit(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.exactLimit = n
		}
	}
}

// WithIterationCap bounds the randomized search. A cap of zero or less makes
// large fields use the greedy pairing.
func WithIterationCap(n int) Option {
	return func(e *Engine) {
		e.iterationCap = n
	}
}

// WithRematchPenalty sets the cost added for every repeated match-up.
func WithRematchPenalty(p float64) Option {
	return func(e *Engine) {
		if p >= 0 {
			e.rematchPenalty = p
		}
	}
}

// WithSeed seeds the enumeration order and the randomized search.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// WithWorkers runs the randomized search on n goroutines. With more than one
// worker the chosen pairing depends on scheduling.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithStrategy forces a strategy instead of choosing by field size. A forced
// exact search still falls back to sampling above the exact limit.
func WithStrategy(s Strategy) Option {
	return func(e *Engine) {
		if s != "" {
			e.strategy = s
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}
