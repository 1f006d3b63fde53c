// SPDX-License-Identifier: MIT

package pca

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/stratum/label"
)

// Sentinel errors for PCA fitting and scoring.
var (
	// ErrEmptyInput is returned for a matrix with no rows or no columns.
	ErrEmptyInput = errors.New("pca: empty input matrix")

	// ErrDecomposition is returned when the principal-component
	// decomposition fails to converge.
	ErrDecomposition = errors.New("pca: decomposition failed")

	// ErrBadComponents is returned when the requested component count is
	// non-positive or exceeds the feature count.
	ErrBadComponents = errors.New("pca: component count out of range")

	// ErrDimensionMismatch is returned when scoring data disagrees with the
	// fitted feature count.
	ErrDimensionMismatch = errors.New("pca: feature count mismatch")

	// ErrLabelMismatch is returned when labels and rows disagree in length.
	ErrLabelMismatch = errors.New("pca: label/row count mismatch")

	// ErrEmptyClass is returned when a prediction is requested but no group
	// had any training rows to form a centroid.
	ErrEmptyClass = errors.New("pca: no group centroids available")
)

// DefaultComponents is the component count the study projects onto.
const DefaultComponents = 2

// Option configures Fit.
type Option func(*options)

type options struct{ components int }

// WithComponents sets how many leading components the model keeps.
func WithComponents(k int) Option {
	return func(o *options) { o.components = k }
}

// Model is a train-fitted principal-component projection with per-group
// centroids in component space.
type Model struct {
	features  int
	k         int
	means     []float64  // train column means, for centering new data
	loadings  *mat.Dense // features×k leading eigenvectors
	variances []float64  // full variance spectrum from the fit
	centroids [3][]float64
	present   [3]bool // group had ≥1 train row
}

// Fit runs the decomposition on X (rows = observations) and computes the
// per-group centroids of the projected train rows. groups holds canonical
// group names aligned with X's rows.
//
// Errors: ErrEmptyInput, ErrBadComponents, ErrLabelMismatch,
// ErrDecomposition, label.ErrUnknownGroup.
// Complexity: dominated by the decomposition, O(rows·features²).
func Fit(X *mat.Dense, groups []string, opts ...Option) (*Model, error) {
	o := options{components: DefaultComponents}
	for _, opt := range opts {
		opt(&o)
	}

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, fmt.Errorf("Fit(%d×%d): %w", r, c, ErrEmptyInput)
	}
	if o.components <= 0 || o.components > c {
		return nil, fmt.Errorf("Fit(components %d of %d): %w", o.components, c, ErrBadComponents)
	}
	if len(groups) != r {
		return nil, fmt.Errorf("Fit(%d labels, %d rows): %w", len(groups), r, ErrLabelMismatch)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(X, nil); !ok {
		return nil, fmt.Errorf("Fit: %w", ErrDecomposition)
	}

	var vec mat.Dense
	pc.VectorsTo(&vec)

	m := &Model{
		features:  c,
		k:         o.components,
		means:     make([]float64, c),
		variances: pc.VarsTo(nil),
	}
	for j := 0; j < c; j++ {
		m.means[j] = stat.Mean(mat.Col(nil, j, X), nil)
	}
	m.loadings = mat.DenseCopyOf(vec.Slice(0, c, 0, o.components))

	// Per-group centroids over the projected train rows; ties later resolve
	// to the earlier group in label.Order.
	scores, err := m.Transform(X)
	if err != nil {
		return nil, err
	}
	var counts [3]int
	for i := 0; i < r; i++ {
		g, perr := label.Parse(groups[i])
		if perr != nil {
			return nil, fmt.Errorf("Fit(row %d): %w", i, perr)
		}
		if m.centroids[g] == nil {
			m.centroids[g] = make([]float64, m.k)
		}
		for j := 0; j < m.k; j++ {
			m.centroids[g][j] += scores.At(i, j)
		}
		counts[g]++
	}
	for _, g := range label.Order {
		if counts[g] == 0 {
			continue // empty group: no centroid, prediction skips it
		}
		m.present[g] = true
		for j := 0; j < m.k; j++ {
			m.centroids[g][j] /= float64(counts[g])
		}
	}

	return m, nil
}

// Components reports how many leading components the model keeps.
func (m *Model) Components() int { return m.k }

// ExplainedVariance returns the proportion of total variance carried by
// each fitted component (full spectrum, not only the kept ones).
func (m *Model) ExplainedVariance() []float64 {
	total := 0.0
	for _, v := range m.variances {
		total += v
	}
	out := make([]float64, len(m.variances))
	if total == 0 {
		return out
	}
	for i, v := range m.variances {
		out[i] = v / total
	}

	return out
}

// Loadings returns a copy of the features×k projection matrix. Columns are
// orthonormal eigenvectors of the train covariance.
func (m *Model) Loadings() *mat.Dense {
	return mat.DenseCopyOf(m.loadings)
}

// Centroid returns the group's train centroid in component space, or false
// when the group had no training rows.
func (m *Model) Centroid(g label.Group) ([]float64, bool) {
	if !m.present[g] {
		return nil, false
	}

	return append([]float64(nil), m.centroids[g]...), true
}

// Transform centers X with the train means and projects it onto the kept
// components. X must have the fitted feature count.
func (m *Model) Transform(X *mat.Dense) (*mat.Dense, error) {
	r, c := X.Dims()
	if c != m.features {
		return nil, fmt.Errorf("Transform(%d features, fitted %d): %w", c, m.features, ErrDimensionMismatch)
	}

	centered := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			centered.Set(i, j, X.At(i, j)-m.means[j])
		}
	}

	scores := mat.NewDense(r, m.k, nil)
	scores.Mul(centered, m.loadings)

	return scores, nil
}

// parameters flattens the fitted quantities in a fixed deterministic order
// for drift comparison: kept explained-variance proportions, loadings, and
// the non-empty group centroids. Each component's sign is normalized so its
// largest-magnitude loading entry is positive — eigenvector signs are
// arbitrary, and the centroid coordinates flip with them.
func (m *Model) parameters() []float64 {
	signs := make([]float64, m.k)
	for j := 0; j < m.k; j++ {
		signs[j] = 1
		top := 0.0
		for i := 0; i < m.features; i++ {
			if v := math.Abs(m.loadings.At(i, j)); v > top {
				top = v
				if m.loadings.At(i, j) < 0 {
					signs[j] = -1
				} else {
					signs[j] = 1
				}
			}
		}
	}

	out := make([]float64, 0, m.k+m.features*m.k+3*m.k)
	out = append(out, m.ExplainedVariance()[:m.k]...)
	for i := 0; i < m.features; i++ {
		for j := 0; j < m.k; j++ {
			out = append(out, signs[j]*m.loadings.At(i, j))
		}
	}
	for _, g := range label.Order {
		if !m.present[g] {
			continue
		}
		for j := 0; j < m.k; j++ {
			out = append(out, signs[j]*m.centroids[g][j])
		}
	}

	return out
}

// Drift reports the maximum elementwise relative difference between the
// parameter vectors of two models fitted with the same configuration — the
// train-vs-validation stability check applied to the projection and its
// group centroids.
func Drift(a, b *Model) (float64, error) {
	if a.features != b.features || a.k != b.k || a.present != b.present {
		return 0, fmt.Errorf("Drift: %w", ErrDimensionMismatch)
	}

	pa, pb := a.parameters(), b.parameters()
	maxRel := 0.0
	for i := range pa {
		rel := math.Abs(pa[i]-pb[i]) / (1 + math.Abs(pa[i]))
		if rel > maxRel {
			maxRel = rel
		}
	}

	return maxRel, nil
}

// Predict assigns each row of X the group of its nearest train centroid
// (squared Euclidean distance in component space). Ties resolve to the
// earlier group in the fixed order.
func (m *Model) Predict(X *mat.Dense) ([]string, error) {
	anyCentroid := false
	for _, g := range label.Order {
		anyCentroid = anyCentroid || m.present[g]
	}
	if !anyCentroid {
		return nil, fmt.Errorf("Predict: %w", ErrEmptyClass)
	}

	scores, err := m.Transform(X)
	if err != nil {
		return nil, err
	}

	r, _ := scores.Dims()
	out := make([]string, r)
	for i := 0; i < r; i++ {
		best := label.Group(0)
		bestDist := 0.0
		first := true
		for _, g := range label.Order {
			if !m.present[g] {
				continue
			}
			d := 0.0
			for j := 0; j < m.k; j++ {
				diff := scores.At(i, j) - m.centroids[g][j]
				d += diff * diff
			}
			if first || d < bestDist {
				best, bestDist, first = g, d, false
			}
		}
		out[i] = best.String()
	}

	return out, nil
}
