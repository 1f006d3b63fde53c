// SPDX-License-Identifier: MIT

package logit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/stratum/label"
)

// Sentinel errors for multinomial fitting and scoring.
var (
	// ErrEmptyInput is returned for a matrix with no rows or no columns.
	ErrEmptyInput = errors.New("logit: empty input matrix")

	// ErrLabelMismatch is returned when labels and rows disagree in length.
	ErrLabelMismatch = errors.New("logit: label/row count mismatch")

	// ErrBadReference is returned when the reference group has no training
	// rows — coefficients against an absent baseline are meaningless.
	ErrBadReference = errors.New("logit: reference group absent from training data")

	// ErrBadOption is returned for a non-positive iteration cap, learning
	// rate, or tolerance.
	ErrBadOption = errors.New("logit: invalid option value")

	// ErrDimensionMismatch is returned when scoring data disagrees with the
	// fitted feature count.
	ErrDimensionMismatch = errors.New("logit: feature count mismatch")
)

// Defaults, named after the study configuration.
const (
	// DefaultMaxIter is the iteration cap handed to the fitter (maxit).
	DefaultMaxIter = 250

	// DefaultLearningRate is the gradient-descent step size.
	DefaultLearningRate = 0.1

	// DefaultTolerance stops the fit when the gradient's max absolute
	// entry falls below it.
	DefaultTolerance = 1e-6
)

// DefaultReference is the baseline group coefficients compare against.
var DefaultReference = label.None

// Option configures Fit.
type Option func(*options)

type options struct {
	maxIter   int
	rate      float64
	tolerance float64
	reference label.Group
}

// WithMaxIter caps the number of gradient steps.
func WithMaxIter(n int) Option { return func(o *options) { o.maxIter = n } }

// WithLearningRate sets the gradient-descent step size.
func WithLearningRate(r float64) Option { return func(o *options) { o.rate = r } }

// WithTolerance sets the gradient-norm stopping threshold.
func WithTolerance(tol float64) Option { return func(o *options) { o.tolerance = tol } }

// WithReference selects the baseline group (default: no).
func WithReference(g label.Group) Option { return func(o *options) { o.reference = g } }

// Model is a fitted multinomial logistic regression.
type Model struct {
	features  int
	reference label.Group
	others    []label.Group // non-reference groups, fixed order
	coef      *mat.Dense    // len(others) × (features+1), column 0 = intercept

	// Iterations actually run and whether the tolerance was reached
	// before the cap.
	Iterations int
	Converged  bool
}

// Fit estimates the coefficients on X (rows = observations) with aligned
// canonical group names.
//
// Errors: ErrEmptyInput, ErrLabelMismatch, ErrBadOption, ErrBadReference,
// label.ErrUnknownGroup.
// Complexity: O(maxIter·rows·groups·features).
func Fit(X *mat.Dense, groups []string, opts ...Option) (*Model, error) {
	o := options{
		maxIter:   DefaultMaxIter,
		rate:      DefaultLearningRate,
		tolerance: DefaultTolerance,
		reference: DefaultReference,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxIter <= 0 || o.rate <= 0 || o.tolerance <= 0 {
		return nil, fmt.Errorf("Fit(maxIter %d, rate %v, tolerance %v): %w",
			o.maxIter, o.rate, o.tolerance, ErrBadOption)
	}

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, fmt.Errorf("Fit(%d×%d): %w", r, c, ErrEmptyInput)
	}
	if len(groups) != r {
		return nil, fmt.Errorf("Fit(%d labels, %d rows): %w", len(groups), r, ErrLabelMismatch)
	}

	y := make([]label.Group, r)
	refSeen := false
	for i, name := range groups {
		g, err := label.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("Fit(row %d): %w", i, err)
		}
		y[i] = g
		refSeen = refSeen || g == o.reference
	}
	if !refSeen {
		return nil, fmt.Errorf("Fit(reference %s): %w", o.reference, ErrBadReference)
	}

	m := &Model{features: c, reference: o.reference}
	for _, g := range label.Order {
		if g != o.reference {
			m.others = append(m.others, g)
		}
	}
	kk := len(m.others)
	m.coef = mat.NewDense(kk, c+1, nil)

	// rowOf maps a group to its coefficient row, or -1 for the reference.
	rowOf := [3]int{-1, -1, -1}
	for idx, g := range m.others {
		rowOf[g] = idx
	}

	// Full-batch gradient descent on the mean negative log-likelihood.
	probs := make([]float64, kk)
	grad := mat.NewDense(kk, c+1, nil)
	x := make([]float64, c)
	for it := 1; it <= o.maxIter; it++ {
		grad.Zero()
		for i := 0; i < r; i++ {
			mat.Row(x, i, X)
			m.probabilities(x, probs)
			for idx := range m.others {
				delta := probs[idx]
				if rowOf[y[i]] == idx {
					delta -= 1
				}
				grad.Set(idx, 0, grad.At(idx, 0)+delta)
				for j := 0; j < c; j++ {
					grad.Set(idx, j+1, grad.At(idx, j+1)+delta*x[j])
				}
			}
		}

		maxAbs := 0.0
		inv := 1 / float64(r)
		for idx := 0; idx < kk; idx++ {
			for j := 0; j <= c; j++ {
				gv := grad.At(idx, j) * inv
				m.coef.Set(idx, j, m.coef.At(idx, j)-o.rate*gv)
				if a := math.Abs(gv); a > maxAbs {
					maxAbs = a
				}
			}
		}

		m.Iterations = it
		if maxAbs < o.tolerance {
			m.Converged = true

			break
		}
	}

	return m, nil
}

// Reference reports the baseline group.
func (m *Model) Reference() label.Group { return m.reference }

// Coefficients returns the coefficient row [intercept, β₁…β_p] for a
// non-reference group, or false for the reference or an unknown group.
func (m *Model) Coefficients(g label.Group) ([]float64, bool) {
	for idx, other := range m.others {
		if other == g {
			row := make([]float64, m.features+1)
			mat.Row(row, idx, m.coef)

			return row, true
		}
	}

	return nil, false
}

// probabilities fills p with P(other_idx | x) using a log-sum-exp shift;
// the reference class carries the remaining mass.
func (m *Model) probabilities(x []float64, p []float64) {
	maxScore := 0.0 // reference score is 0
	for idx := range m.others {
		s := m.coef.At(idx, 0)
		for j := 0; j < m.features; j++ {
			s += m.coef.At(idx, j+1) * x[j]
		}
		p[idx] = s
		if s > maxScore {
			maxScore = s
		}
	}

	denom := math.Exp(-maxScore) // shifted reference term
	for idx := range p {
		p[idx] = math.Exp(p[idx] - maxScore)
		denom += p[idx]
	}
	for idx := range p {
		p[idx] /= denom
	}
}

// Predict returns the argmax group per row of X. The reference competes
// with linear score zero; ties resolve to the earlier group in the fixed
// order.
func (m *Model) Predict(X *mat.Dense) ([]string, error) {
	r, c := X.Dims()
	if c != m.features {
		return nil, fmt.Errorf("Predict(%d features, fitted %d): %w", c, m.features, ErrDimensionMismatch)
	}

	out := make([]string, r)
	x := make([]float64, c)
	scores := [3]float64{}
	for i := 0; i < r; i++ {
		mat.Row(x, i, X)
		for _, g := range label.Order {
			scores[g] = math.Inf(-1)
		}
		scores[m.reference] = 0
		for idx, g := range m.others {
			s := m.coef.At(idx, 0)
			for j := 0; j < c; j++ {
				s += m.coef.At(idx, j+1) * x[j]
			}
			scores[g] = s
		}

		best := label.Order[0]
		for _, g := range label.Order[1:] {
			if scores[g] > scores[best] {
				best = g
			}
		}
		out[i] = best.String()
	}

	return out, nil
}

// Drift reports the maximum elementwise relative difference between two
// coefficient sets fitted with the same configuration — the
// train-vs-validation stability check.
func Drift(a, b *Model) (float64, error) {
	if a.features != b.features || a.reference != b.reference {
		return 0, fmt.Errorf("Drift: %w", ErrDimensionMismatch)
	}

	maxRel := 0.0
	kk := len(a.others)
	for idx := 0; idx < kk; idx++ {
		for j := 0; j <= a.features; j++ {
			va, vb := a.coef.At(idx, j), b.coef.At(idx, j)
			rel := math.Abs(va-vb) / (1 + math.Abs(va))
			if rel > maxRel {
				maxRel = rel
			}
		}
	}

	return maxRel, nil
}
