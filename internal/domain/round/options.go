package round

import (
	"github.com/okian/swissjury/internal/domain/judging"
	"github.com/okian/swissjury/internal/domain/pairing"
	"github.com/okian/swissjury/pkg/logger"
)

// Option applies a configuration option to the Orchestrator.
type Option func(*Orchestrator)

// WithEngine sets the pairing engine.
func WithEngine(e *pairing.Engine) Option {
	return func(o *Orchestrator) {
		if e != nil {
			o.engine = e
		}
	}
}

// WithAssigner sets the judge assigner.
func WithAssigner(a *judging.Assigner) Option {
	return func(o *Orchestrator) {
		if a != nil {
			o.assigner = a
		}
	}
}

// WithByeName sets the name of the synthetic participant.
func WithByeName(name string) Option {
	return func(o *Orchestrator) {
		if name != "" {
			o.byeName = name
		}
	}
}

// WithIDGenerator replaces the match ID source.
func WithIDGenerator(gen func() string) Option {
	return func(o *Orchestrator) {
		if gen != nil {
			o.newID = gen
		}
	}
}

// WithLogger sets the orchestrator logger.
func WithLogger(l logger.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}
