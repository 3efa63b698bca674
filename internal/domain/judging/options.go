package judging

import "github.com/okian/swissjury/pkg/logger"

// Option applies a configuration option to the Assigner.
type Option func(*Assigner)

// WithShuffle shuffles the pool once per round before load ordering, so
// judges with equal load are not always tried in definition order.
func WithShuffle(enabled bool) Option {
	return func(a *Assigner) {
		a.shuffle = enabled
	}
}

// WithSeed seeds the per-round shuffle.
func WithSeed(seed int64) Option {
	return func(a *Assigner) {
		a.seed = seed
	}
}

// WithLogger sets the assigner logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Assigner) {
		if l != nil {
			a.logger = l
		}
	}
}
