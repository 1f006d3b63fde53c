// SPDX-License-Identifier: MIT

package metrics_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/stratum/label"
	"github.com/katalvlaran/stratum/metrics"
)

// matrix builds the hand-checked 10-observation fixture:
//
//	true\pred  aid poor no
//	aid          2    1  0   (row 3)
//	poor         1    3  0   (row 4)
//	no           0    1  2   (row 3)
func matrix(t *testing.T) *metrics.ConfusionMatrix {
	t.Helper()

	truth := []string{"aid", "aid", "aid", "poor", "poor", "poor", "poor", "no", "no", "no"}
	pred := []string{"aid", "aid", "poor", "aid", "poor", "poor", "poor", "poor", "no", "no"}

	m, err := metrics.Confusion(truth, pred)
	require.NoError(t, err)

	return m
}

// TestConfusion_Cells pins every cell and the marginal sums.
func TestConfusion_Cells(t *testing.T) {
	m := matrix(t)

	assert.Equal(t, 10, m.Total())
	assert.Equal(t, 2, m.At(label.Aid, label.Aid))
	assert.Equal(t, 1, m.At(label.Aid, label.Poor))
	assert.Equal(t, 0, m.At(label.Aid, label.None))
	assert.Equal(t, 1, m.At(label.Poor, label.Aid))
	assert.Equal(t, 3, m.At(label.Poor, label.Poor))
	assert.Equal(t, 1, m.At(label.None, label.Poor))
	assert.Equal(t, 2, m.At(label.None, label.None))

	assert.Equal(t, 3, m.RowSum(label.Aid))
	assert.Equal(t, 4, m.RowSum(label.Poor))
	assert.Equal(t, 3, m.RowSum(label.None))
	assert.Equal(t, 3, m.ColSum(label.Aid))
	assert.Equal(t, 5, m.ColSum(label.Poor))
	assert.Equal(t, 2, m.ColSum(label.None))
}

// TestDerivedMetrics checks accuracy and the aid-group ratios against the
// fixture's hand-computed values.
func TestDerivedMetrics(t *testing.T) {
	m := matrix(t)

	acc, err := m.Accuracy()
	require.NoError(t, err)
	assert.InDelta(t, 0.7, acc, 1e-12) // (2+3+2)/10

	recall, err := m.Recall(label.Aid)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, recall, 1e-12)

	precision, err := m.Precision(label.Aid)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, precision, 1e-12)

	f1, err := m.F1(label.Aid)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, f1, 1e-12) // harmonic mean of equal ratios
}

// TestUndefinedMetrics: zero denominators surface as errors, never NaN.
func TestUndefinedMetrics(t *testing.T) {
	// Ground truth has no aid rows; nothing is predicted no.
	m, err := metrics.Confusion(
		[]string{"poor", "poor", "no"},
		[]string{"poor", "aid", "poor"},
	)
	require.NoError(t, err)

	_, err = m.Recall(label.Aid)
	assert.ErrorIs(t, err, metrics.ErrUndefinedMetric)

	_, err = m.Precision(label.None)
	assert.ErrorIs(t, err, metrics.ErrUndefinedMetric)

	_, err = m.F1(label.Aid)
	assert.ErrorIs(t, err, metrics.ErrUndefinedMetric)
}

// TestConfusion_Faults covers input validation.
func TestConfusion_Faults(t *testing.T) {
	_, err := metrics.Confusion([]string{"aid"}, []string{"aid", "no"})
	assert.ErrorIs(t, err, metrics.ErrLengthMismatch)

	_, err = metrics.Confusion(nil, nil)
	assert.ErrorIs(t, err, metrics.ErrEmpty)

	_, err = metrics.Confusion([]string{"rich"}, []string{"aid"})
	assert.ErrorIs(t, err, label.ErrUnknownGroup)

	_, err = metrics.Confusion([]string{"aid"}, []string{"rich"})
	assert.ErrorIs(t, err, label.ErrUnknownGroup)
}

// TestString renders fixed-order axes.
func TestString(t *testing.T) {
	s := matrix(t).String()

	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "true\\pred\taid\tpoor\tno", lines[0])
	assert.Equal(t, "aid\t2\t1\t0", lines[1])
	assert.Equal(t, "poor\t1\t3\t0", lines[2])
	assert.Equal(t, "no\t0\t1\t2", lines[3])
}
