// SPDX-License-Identifier: MIT

package split_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/stratum/label"
	"github.com/katalvlaran/stratum/split"
	"github.com/katalvlaran/stratum/table"
)

// fixtureTable builds a table whose group column holds the given values.
func fixtureTable(t *testing.T, groups []string) *table.Table {
	t.Helper()

	ids := make([]float64, len(groups))
	for i := range ids {
		ids[i] = float64(i)
	}
	tbl, err := table.New(len(groups)).WithNumeric("id", ids)
	require.NoError(t, err)
	tbl, err = tbl.WithCategorical(label.Column, groups)
	require.NoError(t, err)

	return tbl
}

// tenRows is the canonical small fixture: 2 aid, 3 poor, 5 no.
func tenRows() []string {
	return []string{"aid", "aid", "poor", "poor", "poor", "no", "no", "no", "no", "no"}
}

// zeroSource is a rand.Source whose stream is constant zero, making every
// Intn call return 0 and the partial Fisher–Yates a pure prefix selection.
type zeroSource struct{}

func (zeroSource) Int63() int64   { return 0 }
func (zeroSource) Seed(seed int64) {}

// TestAssign_Determinism verifies that the same seed and input ordering
// reproduce identical partitions.
func TestAssign_Determinism(t *testing.T) {
	tbl := fixtureTable(t, tenRows())

	a, err := split.Assign(tbl, split.WithSeed(1405))
	require.NoError(t, err)
	b, err := split.Assign(tbl, split.WithSeed(1405))
	require.NoError(t, err)

	assert.Equal(t, a.Train, b.Train, "train sets must match bit for bit")
	assert.Equal(t, a.Validation, b.Validation, "validation sets must match bit for bit")
	assert.Equal(t, a.Test, b.Test, "test sets must match bit for bit")
}

// TestAssign_SeedSensitivity checks that the seed actually reaches the
// draws: across a few seeds at least one partition must differ.
func TestAssign_SeedSensitivity(t *testing.T) {
	groups := make([]string, 60)
	for i := range groups {
		groups[i] = label.Names[i%3]
	}
	tbl := fixtureTable(t, groups)

	base, err := split.Assign(tbl, split.WithSeed(1))
	require.NoError(t, err)

	differs := false
	for seed := int64(2); seed <= 6; seed++ {
		next, aerr := split.Assign(tbl, split.WithSeed(seed))
		require.NoError(t, aerr)
		if !assert.ObjectsAreEqual(base.Train, next.Train) {
			differs = true

			break
		}
	}
	assert.True(t, differs, "different seeds should eventually produce different draws")
}

// TestAssign_Partition verifies disjointness and exhaustiveness: every row
// lands in exactly one of the three subsets.
func TestAssign_Partition(t *testing.T) {
	tbl := fixtureTable(t, tenRows())

	a, err := split.Assign(tbl, split.WithSeed(7))
	require.NoError(t, err)

	seen := make(map[int]int)
	for _, r := range a.Train {
		seen[r]++
	}
	for _, r := range a.Validation {
		seen[r]++
	}
	for _, r := range a.Test {
		seen[r]++
	}

	require.Len(t, seen, tbl.Rows(), "union must cover every row")
	for r, n := range seen {
		assert.Equal(t, 1, n, "row %d assigned %d times", r, n)
	}
}

// TestAssign_CountFixture pins the round-half-to-even counts on the
// canonical 10-row fixture, independent of the RNG stream:
//
//	aid (2):  train round(1.0)=1, valid round(0.6·1)=1, test 0
//	poor (3): train round(1.5)=2, valid round(0.6·1)=1, test 0
//	no (5):   train round(2.5)=2, valid round(0.6·3)=2, test 1
func TestAssign_CountFixture(t *testing.T) {
	tbl := fixtureTable(t, tenRows())

	a, err := split.Assign(tbl, split.WithSeed(42))
	require.NoError(t, err)

	assert.Len(t, a.Train, 5)
	assert.Len(t, a.Validation, 4)
	assert.Len(t, a.Test, 1)

	wantDrawn := []int{1, 2, 2, 1, 1, 2} // train aid,poor,no then valid aid,poor,no
	require.Len(t, a.Plan, len(wantDrawn))
	for i, step := range a.Plan {
		assert.Equal(t, wantDrawn[i], step.Drawn, "plan step %d (%s/%s)", i, step.Stage, step.Group)
	}
}

// TestAssign_PlanOrder verifies the audited draw order: train stage over
// aid, poor, no, then validation stage over aid, poor, no.
func TestAssign_PlanOrder(t *testing.T) {
	tbl := fixtureTable(t, tenRows())

	a, err := split.Assign(tbl)
	require.NoError(t, err)

	require.Len(t, a.Plan, 6)
	for i, g := range label.Order {
		assert.Equal(t, split.StageTrain, a.Plan[i].Stage)
		assert.Equal(t, g, a.Plan[i].Group)
		assert.Equal(t, split.StageValidation, a.Plan[i+3].Stage)
		assert.Equal(t, g, a.Plan[i+3].Group)
	}
}

// TestAssign_ZeroRNGFixture injects a constant-zero RNG stream so the
// partial Fisher–Yates degenerates to prefix selection, pinning the exact
// row-index sets the algorithm must produce.
func TestAssign_ZeroRNGFixture(t *testing.T) {
	tbl := fixtureTable(t, tenRows())

	a, err := split.Assign(tbl, split.WithRand(rand.New(zeroSource{})))
	require.NoError(t, err)

	// Prefix draws per group: aid {0}, poor {2,3}, no {5,6} → train;
	// remainders aid {1}, poor {4}, no {7,8,9} → valid takes {1},{4},{7,8}.
	assert.Equal(t, []int{0, 2, 3, 5, 6}, a.Train)
	assert.Equal(t, []int{1, 4, 7, 8}, a.Validation)
	assert.Equal(t, []int{9}, a.Test)
}

// TestAssign_GroupProportions checks the stratification property on a
// larger table: each subset holds its fraction of every group within one
// row of rounding tolerance.
func TestAssign_GroupProportions(t *testing.T) {
	groups := make([]string, 200)
	for i := range groups {
		switch {
		case i < 40:
			groups[i] = "aid"
		case i < 100:
			groups[i] = "poor"
		default:
			groups[i] = "no"
		}
	}
	tbl := fixtureTable(t, groups)

	a, err := split.Assign(tbl, split.WithSeed(99))
	require.NoError(t, err)

	sizes := map[string]float64{"aid": 40, "poor": 60, "no": 100}
	raw, err := tbl.Categorical(label.Column)
	require.NoError(t, err)

	count := func(rows []int, g string) float64 {
		n := 0.0
		for _, r := range rows {
			if raw[r] == g {
				n++
			}
		}

		return n
	}

	for g, total := range sizes {
		assert.InDelta(t, 0.5*total, count(a.Train, g), 1, "train share of %s", g)
		assert.InDelta(t, 0.3*total, count(a.Validation, g), 1, "validation share of %s", g)
		assert.InDelta(t, 0.2*total, count(a.Test, g), 1, "test share of %s", g)
	}
}

// TestAssign_AbsentGroup verifies that a table with no poor rows still
// yields valid (empty) draws for that group, not an error.
func TestAssign_AbsentGroup(t *testing.T) {
	tbl := fixtureTable(t, []string{"aid", "aid", "no", "no", "no", "no"})

	a, err := split.Assign(tbl, split.WithSeed(3))
	require.NoError(t, err)

	for _, step := range a.Plan {
		if step.Group == label.Poor {
			assert.Zero(t, step.Pool, "poor pool must be empty")
			assert.Zero(t, step.Drawn, "poor draw must be empty")
		}
	}
	assert.Equal(t, tbl.Rows(), len(a.Train)+len(a.Validation)+len(a.Test))
}

// TestAssign_SingleMemberGroup accepts rounding a one-member group into a
// single bucket without error.
func TestAssign_SingleMemberGroup(t *testing.T) {
	tbl := fixtureTable(t, []string{"aid", "no", "no", "no", "no"})

	a, err := split.Assign(tbl, split.WithSeed(5))
	require.NoError(t, err)
	assert.Equal(t, tbl.Rows(), len(a.Train)+len(a.Validation)+len(a.Test))
}

// TestAssign_BadInput covers the sentinel error paths.
func TestAssign_BadInput(t *testing.T) {
	tbl := fixtureTable(t, tenRows())

	_, err := split.Assign(nil)
	assert.ErrorIs(t, err, split.ErrNilTable)

	_, err = split.Assign(tbl, split.WithFractions(1.5, 0.6))
	assert.ErrorIs(t, err, split.ErrBadFraction)

	_, err = split.Assign(tbl, split.WithFractions(0.5, -0.1))
	assert.ErrorIs(t, err, split.ErrBadFraction)

	_, err = split.Assign(tbl, split.WithGroupColumn("missing"))
	assert.ErrorIs(t, err, split.ErrGroupColumn)

	bad := fixtureTable(t, []string{"aid", "rich"})
	_, err = split.Assign(bad)
	assert.ErrorIs(t, err, split.ErrUnknownGroup)
}

// TestStamp verifies the sample column agrees with the assignment and
// that inconsistent assignments are rejected.
func TestStamp(t *testing.T) {
	tbl := fixtureTable(t, tenRows())

	a, err := split.Assign(tbl, split.WithSeed(11))
	require.NoError(t, err)

	stamped, err := a.Stamp(tbl, "")
	require.NoError(t, err)

	vals, err := stamped.Categorical(split.DefaultSampleColumn)
	require.NoError(t, err)
	for _, r := range a.Train {
		assert.Equal(t, split.Train, vals[r])
	}
	for _, r := range a.Validation {
		assert.Equal(t, split.Validation, vals[r])
	}
	for _, r := range a.Test {
		assert.Equal(t, split.Test, vals[r])
	}

	short := fixtureTable(t, tenRows()[:4])
	_, err = a.Stamp(short, "sample")
	assert.ErrorIs(t, err, split.ErrConsistency)
}
