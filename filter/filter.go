// SPDX-License-Identifier: MIT

package filter

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/stratum/table"
)

// Sentinel errors for outlier filtering.
var (
	// ErrNonFinite is returned when a configured field holds NaN or ±Inf;
	// bounds over non-finite data would silently poison every comparison.
	ErrNonFinite = errors.New("filter: non-finite value in bounded field")

	// ErrNoRows is returned when the input table has no rows to bound.
	ErrNoRows = errors.New("filter: empty table")

	// ErrBadSigma is returned for a negative sigma multiplier. A zero
	// multiplier is not an error: Config resolves it to DefaultSigma.
	ErrBadSigma = errors.New("filter: sigma multiplier must not be negative")
)

// DefaultMinAge is the study's adult-age cutoff.
const DefaultMinAge = 26.0

// DefaultSigma is the standard-deviation multiplier for the upper bound.
const DefaultSigma = 3.0

// Config names the columns the filter reads and its cutoffs.
type Config struct {
	// AgeField is the age column; rows with age < MinAge are dropped.
	AgeField string
	// MinAge is the inclusive lower age bound; zero resolves to
	// DefaultMinAge.
	MinAge float64
	// SigmaFields are the financial/continuous columns bounded from above
	// by mean + Sigma·stddev.
	SigmaFields []string
	// Sigma is the stddev multiplier; zero resolves to DefaultSigma,
	// negative values are rejected with ErrBadSigma.
	Sigma float64
}

// withDefaults resolves zero-valued knobs to the documented defaults.
func (c Config) withDefaults() Config {
	if c.MinAge == 0 {
		c.MinAge = DefaultMinAge
	}
	if c.Sigma == 0 {
		c.Sigma = DefaultSigma
	}

	return c
}

// Bound is one field's upper cutoff together with the moments it came from.
type Bound struct {
	Field string
	Mean  float64
	Std   float64
	Upper float64 // Mean + Sigma·Std
}

// Result reports what one Apply pass did.
type Result struct {
	// Bounds are the per-field cutoffs, in SigmaFields order, all computed
	// from the same pre-filter snapshot.
	Bounds []Bound
	// Kept and Removed are row counts after/by the combined predicate.
	Kept    int
	Removed int
}

// Bounds computes every per-field upper bound from the current table
// snapshot without filtering anything.
//
// Errors: ErrNoRows, ErrBadSigma, ErrNonFinite (with field/row context),
// table errors for a nil table or bad names.
// Complexity: O(rows·len(SigmaFields)).
func Bounds(t *table.Table, cfg Config) ([]Bound, error) {
	if t == nil {
		return nil, fmt.Errorf("Bounds: %w", table.ErrNilTable)
	}
	cfg = cfg.withDefaults()
	if cfg.Sigma < 0 {
		return nil, fmt.Errorf("Bounds(sigma %v): %w", cfg.Sigma, ErrBadSigma)
	}
	if t.Rows() == 0 {
		return nil, fmt.Errorf("Bounds: %w", ErrNoRows)
	}

	out := make([]Bound, 0, len(cfg.SigmaFields))
	for _, field := range cfg.SigmaFields {
		vals, err := t.Numeric(field)
		if err != nil {
			return nil, fmt.Errorf("Bounds: %w", err)
		}
		for r, v := range vals {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("Bounds(%q, row %d, value %v): %w", field, r, v, ErrNonFinite)
			}
		}

		mean, std := stat.MeanStdDev(vals, nil)
		if math.IsNaN(std) { // single row: stddev undefined, treat as 0
			std = 0
		}
		out = append(out, Bound{
			Field: field,
			Mean:  mean,
			Std:   std,
			Upper: mean + cfg.Sigma*std,
		})
	}

	return out, nil
}

// Apply drops rows failing the combined predicate:
//
//	age ≥ MinAge  AND  field ≤ bound.Upper  for every configured field.
//
// All bounds come from the pre-filter snapshot of t (see Bounds); the
// predicate is applied in one pass, so field order cannot change results.
// The returned table shares nothing with the input.
//
// Complexity: O(rows·len(SigmaFields)).
func Apply(t *table.Table, cfg Config) (*table.Table, Result, error) {
	cfg = cfg.withDefaults()

	bounds, err := Bounds(t, cfg)
	if err != nil {
		return nil, Result{}, err
	}

	return applyBounds(t, cfg, bounds)
}

// ApplyBounds filters t with previously computed bounds. Exposed so tests
// can pin idempotence: re-applying a snapshot's bounds to the filtered
// table must remove nothing.
func ApplyBounds(t *table.Table, cfg Config, bounds []Bound) (*table.Table, Result, error) {
	return applyBounds(t, cfg.withDefaults(), bounds)
}

func applyBounds(t *table.Table, cfg Config, bounds []Bound) (*table.Table, Result, error) {
	if t == nil {
		return nil, Result{}, fmt.Errorf("Apply: %w", table.ErrNilTable)
	}
	age, err := t.Numeric(cfg.AgeField)
	if err != nil {
		return nil, Result{}, fmt.Errorf("Apply: %w", err)
	}

	fieldVals := make([][]float64, len(bounds))
	for i, b := range bounds {
		fieldVals[i], err = t.Numeric(b.Field)
		if err != nil {
			return nil, Result{}, fmt.Errorf("Apply: %w", err)
		}
	}

	keep := make([]bool, t.Rows())
	kept := 0
	for r := range keep {
		ok := age[r] >= cfg.MinAge
		for i, b := range bounds {
			ok = ok && fieldVals[i][r] <= b.Upper
		}
		keep[r] = ok
		if ok {
			kept++
		}
	}

	filtered, err := t.Retain(keep)
	if err != nil {
		return nil, Result{}, fmt.Errorf("Apply: %w", err)
	}

	return filtered, Result{Bounds: bounds, Kept: kept, Removed: t.Rows() - kept}, nil
}
