// SPDX-License-Identifier: MIT

package logit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/stratum/label"
	"github.com/katalvlaran/stratum/logit"
)

// corners builds three tight 2-feature clusters: aid near (1,0), poor near
// (0,1), no near (0,0). Six rows per class, linearly separable.
func corners() (*mat.Dense, []string) {
	centers := map[string][2]float64{
		"aid":  {1, 0},
		"poor": {0, 1},
		"no":   {0, 0},
	}
	jitter := [][2]float64{
		{0, 0}, {0.05, 0}, {0, 0.05}, {-0.05, 0}, {0, -0.05}, {0.05, 0.05},
	}

	data := make([]float64, 0, 36)
	groups := make([]string, 0, 18)
	for _, name := range label.Names {
		c := centers[name]
		for _, j := range jitter {
			data = append(data, c[0]+j[0], c[1]+j[1])
			groups = append(groups, name)
		}
	}

	return mat.NewDense(18, 2, data), groups
}

// TestFit_SeparatesClusters: the fitted model classifies every training
// row and fresh near-center points correctly.
func TestFit_SeparatesClusters(t *testing.T) {
	X, groups := corners()

	m, err := logit.Fit(X, groups, logit.WithLearningRate(0.5))
	require.NoError(t, err)
	assert.Equal(t, label.None, m.Reference())

	pred, err := m.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, groups, pred)

	fresh, err := m.Predict(mat.NewDense(3, 2, []float64{
		0.9, 0.1,
		0.1, 0.9,
		0.02, 0.02,
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"aid", "poor", "no"}, fresh)
}

// TestFit_IterationCap: hitting the cap is a reported state, not an error.
func TestFit_IterationCap(t *testing.T) {
	X, groups := corners()

	m, err := logit.Fit(X, groups, logit.WithMaxIter(1))
	require.NoError(t, err)
	assert.Equal(t, 1, m.Iterations)
	assert.False(t, m.Converged)
}

// TestCoefficients: non-reference groups expose one row each of length
// features+1; the reference exposes none.
func TestCoefficients(t *testing.T) {
	X, groups := corners()
	m, err := logit.Fit(X, groups, logit.WithMaxIter(10))
	require.NoError(t, err)

	for _, g := range []label.Group{label.Aid, label.Poor} {
		row, ok := m.Coefficients(g)
		require.True(t, ok)
		assert.Len(t, row, 3)
	}

	_, ok := m.Coefficients(label.None)
	assert.False(t, ok)
}

// TestDrift_SelfZero: identical fits carry identical coefficients.
func TestDrift_SelfZero(t *testing.T) {
	X, groups := corners()
	a, err := logit.Fit(X, groups, logit.WithMaxIter(50))
	require.NoError(t, err)
	b, err := logit.Fit(X, groups, logit.WithMaxIter(50))
	require.NoError(t, err)

	d, err := logit.Drift(a, b)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
}

// TestDrift_Incomparable rejects models with different baselines.
func TestDrift_Incomparable(t *testing.T) {
	X, groups := corners()
	a, err := logit.Fit(X, groups, logit.WithMaxIter(5))
	require.NoError(t, err)
	b, err := logit.Fit(X, groups, logit.WithMaxIter(5), logit.WithReference(label.Aid))
	require.NoError(t, err)

	_, err = logit.Drift(a, b)
	assert.ErrorIs(t, err, logit.ErrDimensionMismatch)
}

// TestWithReference re-bases the model; the old reference gains a
// coefficient row and the new one loses its own.
func TestWithReference(t *testing.T) {
	X, groups := corners()
	m, err := logit.Fit(X, groups, logit.WithMaxIter(10), logit.WithReference(label.Aid))
	require.NoError(t, err)

	assert.Equal(t, label.Aid, m.Reference())
	_, ok := m.Coefficients(label.None)
	assert.True(t, ok)
	_, ok = m.Coefficients(label.Aid)
	assert.False(t, ok)
}

// TestFit_Faults covers the sentinel paths.
func TestFit_Faults(t *testing.T) {
	X, groups := corners()

	_, err := logit.Fit(X, groups, logit.WithMaxIter(0))
	assert.ErrorIs(t, err, logit.ErrBadOption)

	_, err = logit.Fit(X, groups, logit.WithLearningRate(-1))
	assert.ErrorIs(t, err, logit.ErrBadOption)

	_, err = logit.Fit(X, groups[:4])
	assert.ErrorIs(t, err, logit.ErrLabelMismatch)

	bad := append([]string(nil), groups...)
	bad[0] = "rich"
	_, err = logit.Fit(X, bad)
	assert.ErrorIs(t, err, label.ErrUnknownGroup)

	// No row belongs to the reference group.
	aidOnly := mat.NewDense(2, 2, []float64{0, 0, 1, 1})
	_, err = logit.Fit(aidOnly, []string{"aid", "aid"})
	assert.ErrorIs(t, err, logit.ErrBadReference)

	m, err := logit.Fit(X, groups, logit.WithMaxIter(5))
	require.NoError(t, err)
	_, err = m.Predict(mat.NewDense(1, 3, []float64{1, 2, 3}))
	assert.ErrorIs(t, err, logit.ErrDimensionMismatch)
}
