// SPDX-License-Identifier: MIT

package table_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/stratum/table"
)

// sample builds a 4-row table with one numeric and one categorical column.
func sample(t *testing.T) *table.Table {
	t.Helper()

	tbl, err := table.New(4).WithNumeric("age", []float64{30, 41, 26, 58})
	require.NoError(t, err)
	tbl, err = tbl.WithCategorical("sex", []string{"Male", "Female", "Female", "Male"})
	require.NoError(t, err)

	return tbl
}

// TestWith_Immutability verifies that adding a column leaves the receiver
// untouched — the pure-pipeline contract.
func TestWith_Immutability(t *testing.T) {
	base := sample(t)

	next, err := base.WithNumeric("income", []float64{1, 2, 3, 4})
	require.NoError(t, err)

	assert.Equal(t, 2, base.Cols(), "receiver must not grow")
	assert.Equal(t, 3, next.Cols())
	assert.False(t, base.Has("income"))
	assert.True(t, next.Has("income"))
}

// TestAccessors_KindMismatch covers sentinel errors of the typed getters.
func TestAccessors_KindMismatch(t *testing.T) {
	tbl := sample(t)

	_, err := tbl.Numeric("sex")
	assert.ErrorIs(t, err, table.ErrKindMismatch)

	_, err = tbl.Categorical("age")
	assert.ErrorIs(t, err, table.ErrKindMismatch)

	_, err = tbl.Numeric("missing")
	assert.ErrorIs(t, err, table.ErrColumnNotFound)
}

// TestWith_Validation covers duplicate names and ragged lengths.
func TestWith_Validation(t *testing.T) {
	tbl := sample(t)

	_, err := tbl.WithNumeric("age", []float64{1, 2, 3, 4})
	assert.ErrorIs(t, err, table.ErrColumnExists)

	_, err = tbl.WithNumeric("short", []float64{1, 2})
	assert.ErrorIs(t, err, table.ErrLengthMismatch)
}

// TestSelect_ProjectsAndOrders verifies projection keeps the requested
// order and rejects unknown names.
func TestSelect_ProjectsAndOrders(t *testing.T) {
	tbl := sample(t)

	out, err := tbl.Select("sex", "age")
	require.NoError(t, err)
	assert.Equal(t, []string{"sex", "age"}, out.Names())

	_, err = tbl.Select("age", "ghost")
	assert.ErrorIs(t, err, table.ErrColumnNotFound)
}

// TestRename covers mnemonic renaming, unknown keys and collisions.
func TestRename(t *testing.T) {
	tbl := sample(t)

	out, err := tbl.Rename(map[string]string{"age": "AGE_YEARS"})
	require.NoError(t, err)
	assert.True(t, out.Has("AGE_YEARS"))
	assert.False(t, out.Has("age"))
	assert.True(t, tbl.Has("age"), "receiver keeps its name")

	_, err = tbl.Rename(map[string]string{"ghost": "x"})
	assert.ErrorIs(t, err, table.ErrColumnNotFound)

	_, err = tbl.Rename(map[string]string{"age": "sex"})
	assert.ErrorIs(t, err, table.ErrColumnExists)
}

// TestRetain_MaskFilter verifies row filtering preserves relative order
// and rejects ragged masks.
func TestRetain_MaskFilter(t *testing.T) {
	tbl := sample(t)

	out, err := tbl.Retain([]bool{true, false, false, true})
	require.NoError(t, err)
	require.Equal(t, 2, out.Rows())

	age, err := out.Numeric("age")
	require.NoError(t, err)
	assert.Equal(t, []float64{30, 58}, age)

	_, err = tbl.Retain([]bool{true})
	assert.ErrorIs(t, err, table.ErrLengthMismatch)
}

// TestSubset verifies row selection by index and range checking.
func TestSubset(t *testing.T) {
	tbl := sample(t)

	out, err := tbl.Subset([]int{3, 0})
	require.NoError(t, err)
	sex, err := out.Categorical("sex")
	require.NoError(t, err)
	assert.Equal(t, []string{"Male", "Male"}, sex)

	_, err = tbl.Subset([]int{4})
	assert.ErrorIs(t, err, table.ErrRowRange)
}

// TestCSV_RoundTrip writes and re-reads a table, including a NaN cell.
func TestCSV_RoundTrip(t *testing.T) {
	tbl, err := table.New(3).WithNumeric("income", []float64{1200.5, math.NaN(), 98})
	require.NoError(t, err)
	tbl, err = tbl.WithCategorical("group", []string{"aid", "no", "poor"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tbl.WriteCSV(&buf))

	back, err := table.ReadCSV(&buf, table.WithStringColumns("group"))
	require.NoError(t, err)

	income, err := back.Numeric("income")
	require.NoError(t, err)
	assert.Equal(t, 1200.5, income[0])
	assert.True(t, math.IsNaN(income[1]), "empty cell round-trips to NaN")
	assert.Equal(t, 98.0, income[2])

	group, err := back.Categorical("group")
	require.NoError(t, err)
	assert.Equal(t, []string{"aid", "no", "poor"}, group)
}

// TestReadCSV_Faults covers header and cell parse errors.
func TestReadCSV_Faults(t *testing.T) {
	_, err := table.ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, table.ErrEmptyHeader)

	_, err = table.ReadCSV(strings.NewReader("a,a\n1,2\n"))
	assert.ErrorIs(t, err, table.ErrDuplicateHeader)

	_, err = table.ReadCSV(strings.NewReader("a\nnot-a-number\n"))
	assert.ErrorIs(t, err, table.ErrBadCell)
}

// TestToDense packs numeric columns in the requested order.
func TestToDense(t *testing.T) {
	tbl := sample(t)
	tbl, err := tbl.WithNumeric("income", []float64{10, 20, 30, 40})
	require.NoError(t, err)

	m, err := tbl.ToDense("income", "age")
	require.NoError(t, err)

	r, c := m.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 20.0, m.At(1, 0))
	assert.Equal(t, 41.0, m.At(1, 1))

	_, err = tbl.ToDense("sex")
	assert.ErrorIs(t, err, table.ErrKindMismatch)

	assert.Equal(t, []string{"age", "income"}, tbl.NumericNames())
}
