// SPDX-License-Identifier: MIT
// Package split: functional configuration with deterministic, documented
// defaults. Options are validated when Assign runs; nonsensical fractions
// surface as ErrBadFraction, never as a skewed partition.

package split

import (
	"math/rand"

	"github.com/katalvlaran/stratum/label"
)

// Deterministic defaults (named, no magic numbers).
const (
	// DefaultSeed seeds the run RNG when neither WithSeed nor WithRand is given.
	DefaultSeed int64 = 42

	// DefaultTrainFraction is the share of each group drawn as train.
	DefaultTrainFraction = 0.5

	// DefaultValidationFraction is the share of each group's post-train
	// remainder drawn as validation (0.6 × 0.5 remaining ≈ 30% overall).
	DefaultValidationFraction = 0.6

	// DefaultGroupColumn is the stratification column name.
	DefaultGroupColumn = label.Column

	// DefaultSampleColumn is the column name Stamp writes.
	DefaultSampleColumn = "sample"
)

// Sample-assignment values written by Stamp.
const (
	Train      = "train"
	Validation = "validation"
	Test       = "test"
)

// Option configures Assign via functional arguments.
type Option func(*options)

// options aggregates all splitter knobs; passed by value to the algorithm.
type options struct {
	seed        int64
	rng         *rand.Rand // nil means: derive from seed
	trainFrac   float64
	validFrac   float64
	groupColumn string
}

// defaultOptions returns the documented defaults.
func defaultOptions() options {
	return options{
		seed:        DefaultSeed,
		trainFrac:   DefaultTrainFraction,
		validFrac:   DefaultValidationFraction,
		groupColumn: DefaultGroupColumn,
	}
}

// WithSeed derives the run RNG as rand.New(rand.NewSource(seed)).
// Same seed + same input row order ⇒ identical partitions.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
		o.rng = nil
	}
}

// WithRand injects a shared RNG stream. Intended for fixtures that pin the
// exact draw sequence; ordinary runs should use WithSeed.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithFractions overrides the train fraction and the validation fraction of
// the post-train remainder. Both must lie in [0, 1]; violations surface as
// ErrBadFraction when Assign runs.
func WithFractions(train, validation float64) Option {
	return func(o *options) {
		o.trainFrac = train
		o.validFrac = validation
	}
}

// WithGroupColumn overrides the stratification column name.
func WithGroupColumn(name string) Option {
	return func(o *options) { o.groupColumn = name }
}

// rngFrom resolves the run RNG: an injected stream wins, otherwise a fresh
// generator seeded once for the whole run (never per group, never per stage).
func rngFrom(o options) *rand.Rand {
	if o.rng != nil {
		return o.rng
	}

	return rand.New(rand.NewSource(o.seed))
}
