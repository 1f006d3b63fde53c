// SPDX-License-Identifier: MIT

package filter_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/stratum/filter"
	"github.com/katalvlaran/stratum/table"
)

// fixture builds an age+income table with one obvious income outlier and
// one underage row.
//
// incomes: {10, 20, 30, 20, 120} → mean 40, sample std ≈ 45.28.
func fixture(t *testing.T) *table.Table {
	t.Helper()

	tbl, err := table.New(5).WithNumeric("age", []float64{30, 40, 50, 18, 45})
	require.NoError(t, err)
	tbl, err = tbl.WithNumeric("income", []float64{10, 20, 30, 20, 120})
	require.NoError(t, err)

	return tbl
}

func config() filter.Config {
	return filter.Config{
		AgeField:    "age",
		MinAge:      26,
		SigmaFields: []string{"income"},
		Sigma:       1, // tight bound so the fixture outlier trips it
	}
}

// TestBounds_Moments verifies the snapshot bound carries the moments it
// was computed from.
func TestBounds_Moments(t *testing.T) {
	bounds, err := filter.Bounds(fixture(t), config())
	require.NoError(t, err)
	require.Len(t, bounds, 1)

	b := bounds[0]
	assert.Equal(t, "income", b.Field)
	assert.InDelta(t, 40.0, b.Mean, 1e-12)
	assert.InDelta(t, 45.2769, b.Std, 1e-3)
	assert.InDelta(t, b.Mean+b.Std, b.Upper, 1e-12)
}

// TestApply_CombinedPredicate verifies one pass drops both the underage
// row and the income outlier, against bounds from the pre-filter snapshot.
func TestApply_CombinedPredicate(t *testing.T) {
	out, res, err := filter.Apply(fixture(t), config())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Kept)
	assert.Equal(t, 2, res.Removed)
	require.Equal(t, 3, out.Rows())

	age, err := out.Numeric("age")
	require.NoError(t, err)
	assert.Equal(t, []float64{30, 40, 50}, age, "survivors keep input order")
}

// TestApply_Idempotence: re-applying the original snapshot's bounds to the
// filtered table removes nothing, even though the filtered table's own
// moments would give a tighter cutoff.
func TestApply_Idempotence(t *testing.T) {
	cfg := config()
	out, res, err := filter.Apply(fixture(t), cfg)
	require.NoError(t, err)

	again, res2, err := filter.ApplyBounds(out, cfg, res.Bounds)
	require.NoError(t, err)
	assert.Equal(t, 0, res2.Removed)
	assert.Equal(t, out.Rows(), again.Rows())
}

// TestApply_DefaultKnobs: zero-valued cutoffs resolve to the documented
// defaults (age 26, sigma 3).
func TestApply_DefaultKnobs(t *testing.T) {
	cfg := filter.Config{AgeField: "age", SigmaFields: []string{"income"}}

	_, res, err := filter.Apply(fixture(t), cfg)
	require.NoError(t, err)

	// Sigma 3 keeps the 120 outlier; only the age-18 row falls.
	assert.Equal(t, 1, res.Removed)
}

// TestBounds_SingleRow: a one-row snapshot has undefined stddev; the bound
// degrades to the row's own value.
func TestBounds_SingleRow(t *testing.T) {
	tbl, err := table.New(1).WithNumeric("age", []float64{40})
	require.NoError(t, err)
	tbl, err = tbl.WithNumeric("income", []float64{55})
	require.NoError(t, err)

	bounds, err := filter.Bounds(tbl, config())
	require.NoError(t, err)
	require.Len(t, bounds, 1)
	assert.Equal(t, 0.0, bounds[0].Std)
	assert.Equal(t, 55.0, bounds[0].Upper)
}

// TestFaults covers empty tables, non-finite cells and bad sigma.
func TestFaults(t *testing.T) {
	empty := table.New(0)
	_, err := filter.Bounds(empty, config())
	assert.ErrorIs(t, err, filter.ErrNoRows)

	tbl, err := table.New(1).WithNumeric("age", []float64{40})
	require.NoError(t, err)
	tbl, err = tbl.WithNumeric("income", []float64{math.NaN()})
	require.NoError(t, err)
	_, err = filter.Bounds(tbl, config())
	assert.ErrorIs(t, err, filter.ErrNonFinite)

	bad := config()
	bad.Sigma = -1
	_, err = filter.Bounds(fixture(t), bad)
	assert.ErrorIs(t, err, filter.ErrBadSigma)

	missing := config()
	missing.SigmaFields = []string{"ghost"}
	_, err = filter.Bounds(fixture(t), missing)
	assert.ErrorIs(t, err, table.ErrColumnNotFound)

	_, err = filter.Bounds(nil, config())
	assert.ErrorIs(t, err, table.ErrNilTable)
	_, _, err = filter.Apply(nil, config())
	assert.ErrorIs(t, err, table.ErrNilTable)
}
