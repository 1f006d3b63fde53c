// SPDX-License-Identifier: MIT
//
// File: split.go
// Role: The stratified splitter — the one piece of custom sampling logic
//       every modeling stage depends on.
// Policy:
//   - One RNG per run, consumed in the fixed stage × group order recorded
//     in Assignment.Plan.
//   - All row bookkeeping is over stable row indices; outputs are sorted
//     ascending so equal partitions compare with plain slice equality.

package split

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/katalvlaran/stratum/label"
	"github.com/katalvlaran/stratum/table"
)

// Sentinel errors for stratified splitting.
var (
	// ErrNilTable is returned for a nil input table.
	ErrNilTable = errors.New("split: table is nil")

	// ErrBadFraction is returned when a fraction lies outside [0, 1].
	ErrBadFraction = errors.New("split: fraction outside [0, 1]")

	// ErrGroupColumn is returned when the stratification column is missing
	// or not categorical.
	ErrGroupColumn = errors.New("split: group column missing or not categorical")

	// ErrUnknownGroup is returned when a row's group value is outside the
	// fixed set {aid, poor, no} — a data-integrity fault, not a new stratum.
	ErrUnknownGroup = errors.New("split: group value outside fixed group set")

	// ErrConsistency flags an internal partition-bookkeeping violation
	// (e.g. a draw larger than its pool). It should be unreachable with
	// validated fractions and exists so corruption fails loudly.
	ErrConsistency = errors.New("split: inconsistent partition state")
)

// Stage identifies which draw of the plan a step belongs to.
type Stage uint8

const (
	// StageTrain draws from the full group.
	StageTrain Stage = iota
	// StageValidation draws from the group's post-train remainder.
	StageValidation
)

// String returns the stage name.
func (s Stage) String() string {
	if s == StageTrain {
		return Train
	}

	return Validation
}

// DrawStep is one entry of the ordered sampling plan: a single without-
// replacement draw of round(Fraction·Pool) indices for one group.
type DrawStep struct {
	Stage    Stage
	Group    label.Group
	Fraction float64
	Pool     int // group rows available when the step ran
	Drawn    int // round-half-to-even of Fraction·Pool
}

// Assignment is the completed three-way partition. Train, Validation and
// Test hold ascending row indices; they are pairwise disjoint and their
// union is every input row.
type Assignment struct {
	Train      []int
	Validation []int
	Test       []int

	// Plan records every draw in execution order — the audit trail of how
	// the run RNG was consumed.
	Plan []DrawStep
}

// Assign partitions t by the stratified two-stage draw described in the
// package documentation.
//
// Errors: ErrNilTable, ErrBadFraction, ErrGroupColumn, ErrUnknownGroup
// (with the offending row and value).
// Determinism: single seeded RNG, fixed stage × group consumption order.
// Complexity: O(rows) beyond the O(rows·log rows)-free index bookkeeping;
// each draw is a partial Fisher–Yates over its group pool.
func Assign(t *table.Table, opts ...Option) (*Assignment, error) {
	if t == nil {
		return nil, ErrNilTable
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.trainFrac < 0 || o.trainFrac > 1 {
		return nil, fmt.Errorf("Assign(train %v): %w", o.trainFrac, ErrBadFraction)
	}
	if o.validFrac < 0 || o.validFrac > 1 {
		return nil, fmt.Errorf("Assign(validation %v): %w", o.validFrac, ErrBadFraction)
	}

	groups, err := t.Categorical(o.groupColumn)
	if err != nil {
		return nil, fmt.Errorf("Assign(%q): %w", o.groupColumn, ErrGroupColumn)
	}

	// Stage 1 (Strata): bucket stable row indices by group, ascending.
	// Iterating rows once keeps each bucket in input order by construction.
	byGroup := make(map[label.Group][]int, len(label.Order))
	for r, name := range groups {
		g, perr := label.Parse(name)
		if perr != nil {
			return nil, fmt.Errorf("Assign(row %d, value %q): %w", r, name, ErrUnknownGroup)
		}
		byGroup[g] = append(byGroup[g], r)
	}

	rng := rngFrom(o)
	out := &Assignment{}

	// Stage 2 (Train draw): fixed group order, one RNG stream.
	for _, g := range label.Order {
		pool := byGroup[g]
		step, picked, rest, derr := draw(rng, StageTrain, g, o.trainFrac, pool)
		if derr != nil {
			return nil, derr
		}
		out.Plan = append(out.Plan, step)
		out.Train = append(out.Train, picked...)
		byGroup[g] = rest
	}

	// Stage 3 (Validation draw): same group order, over the remainders.
	for _, g := range label.Order {
		pool := byGroup[g]
		step, picked, rest, derr := draw(rng, StageValidation, g, o.validFrac, pool)
		if derr != nil {
			return nil, derr
		}
		out.Plan = append(out.Plan, step)
		out.Validation = append(out.Validation, picked...)
		byGroup[g] = rest
	}

	// Stage 4 (Test): everything the two draws left behind.
	for _, g := range label.Order {
		out.Test = append(out.Test, byGroup[g]...)
	}

	sort.Ints(out.Train)
	sort.Ints(out.Validation)
	sort.Ints(out.Test)

	return out, nil
}

// draw performs one plan step: a without-replacement selection of
// roundHalfToEven(frac·len(pool)) indices via partial Fisher–Yates on a
// copy of the pool. Returns the step record, the picked indices (sorted),
// and the untouched remainder (ascending).
func draw(rng *rand.Rand, stage Stage, g label.Group, frac float64, pool []int) (DrawStep, []int, []int, error) {
	n := len(pool)
	k := roundHalfToEven(frac * float64(n))
	if k < 0 || k > n {
		return DrawStep{}, nil, nil, fmt.Errorf("draw(%s/%s, k=%d of %d): %w",
			stage, g, k, n, ErrConsistency)
	}

	step := DrawStep{Stage: stage, Group: g, Fraction: frac, Pool: n, Drawn: k}
	if n == 0 {
		return step, nil, nil, nil // empty stratum: empty draw, not an error
	}

	// Partial Fisher–Yates over a copy; pool itself stays untouched.
	work := append([]int(nil), pool...)
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		work[i], work[j] = work[j], work[i]
	}

	picked := append([]int(nil), work[:k]...)
	rest := append([]int(nil), work[k:]...)
	sort.Ints(picked)
	sort.Ints(rest)

	return step, picked, rest, nil
}

// roundHalfToEven is the pinned rounding convention for sample counts.
func roundHalfToEven(x float64) int {
	return int(math.RoundToEven(x))
}

// Stamp returns a copy of t with a categorical sample column holding
// train/validation/test per row. The assignment must cover exactly the
// table's rows.
func (a *Assignment) Stamp(t *table.Table, columnName string) (*table.Table, error) {
	if t == nil {
		return nil, ErrNilTable
	}
	if columnName == "" {
		columnName = DefaultSampleColumn
	}
	if len(a.Train)+len(a.Validation)+len(a.Test) != t.Rows() {
		return nil, fmt.Errorf("Stamp(%d assigned, %d rows): %w",
			len(a.Train)+len(a.Validation)+len(a.Test), t.Rows(), ErrConsistency)
	}

	vals := make([]string, t.Rows())
	for _, set := range []struct {
		rows []int
		name string
	}{
		{a.Train, Train},
		{a.Validation, Validation},
		{a.Test, Test},
	} {
		for _, r := range set.rows {
			if r < 0 || r >= t.Rows() || vals[r] != "" {
				return nil, fmt.Errorf("Stamp(row %d): %w", r, ErrConsistency)
			}
			vals[r] = set.name
		}
	}

	return t.WithCategorical(columnName, vals)
}
