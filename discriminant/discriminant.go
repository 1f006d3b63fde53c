// SPDX-License-Identifier: MIT

package discriminant

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/stratum/label"
)

// Sentinel errors for discriminant fitting and scoring.
var (
	// ErrEmptyInput is returned for a matrix with no rows or no columns.
	ErrEmptyInput = errors.New("discriminant: empty input matrix")

	// ErrLabelMismatch is returned when labels and rows disagree in length.
	ErrLabelMismatch = errors.New("discriminant: label/row count mismatch")

	// ErrNoClasses is returned when no group has any training rows.
	ErrNoClasses = errors.New("discriminant: no non-empty classes")

	// ErrDegenerateClass is returned when QDA meets a class with fewer than
	// two rows — its covariance is undefined.
	ErrDegenerateClass = errors.New("discriminant: class too small for covariance")

	// ErrSingular is returned when a covariance matrix is not positive
	// definite and cannot be factorized.
	ErrSingular = errors.New("discriminant: covariance not positive definite")

	// ErrDimensionMismatch is returned when scoring data disagrees with the
	// fitted feature count.
	ErrDimensionMismatch = errors.New("discriminant: feature count mismatch")

	// ErrKindMismatch is returned when Drift compares models of different
	// kinds or feature counts.
	ErrKindMismatch = errors.New("discriminant: incomparable models")
)

// Kind selects the covariance structure.
type Kind uint8

const (
	// Linear shares one pooled covariance across classes (LDA).
	Linear Kind = iota
	// Quadratic fits one covariance per class (QDA).
	Quadratic
)

// String returns the conventional acronym.
func (k Kind) String() string {
	if k == Linear {
		return "lda"
	}

	return "qda"
}

// Option configures Fit.
type Option func(*options)

type options struct{ kind Kind }

// WithKind selects LDA (default) or QDA.
func WithKind(k Kind) Option {
	return func(o *options) { o.kind = k }
}

// Model is a fitted Gaussian discriminant classifier.
type Model struct {
	kind     Kind
	features int
	present  [3]bool
	priors   [3]float64
	means    [3][]float64

	// Linear: precomputed w_g = Σ⁻¹ μ_g and the constant term.
	weights [3][]float64
	bias    [3]float64

	// Quadratic: per-class factorization and log-determinant.
	chol   [3]*mat.Cholesky
	logdet [3]float64
}

// Fit estimates class priors, means and covariance structure from the
// train split. groups holds canonical group names aligned with X's rows.
//
// Errors: ErrEmptyInput, ErrLabelMismatch, ErrNoClasses,
// ErrDegenerateClass, ErrSingular, label.ErrUnknownGroup.
// Complexity: O(rows·features²) plus one (LDA) or three (QDA) Cholesky
// factorizations at O(features³).
func Fit(X *mat.Dense, groups []string, opts ...Option) (*Model, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, fmt.Errorf("Fit(%d×%d): %w", r, c, ErrEmptyInput)
	}
	if len(groups) != r {
		return nil, fmt.Errorf("Fit(%d labels, %d rows): %w", len(groups), r, ErrLabelMismatch)
	}

	// Stage 1 (Strata): bucket row indices per class, input order.
	var rows [3][]int
	for i, name := range groups {
		g, err := label.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("Fit(row %d): %w", i, err)
		}
		rows[g] = append(rows[g], i)
	}

	m := &Model{kind: o.kind, features: c}
	classes := 0
	for _, g := range label.Order {
		if len(rows[g]) == 0 {
			continue
		}
		classes++
		m.present[g] = true
		m.priors[g] = float64(len(rows[g])) / float64(r)
		m.means[g] = classMean(X, rows[g], c)
	}
	if classes == 0 {
		return nil, fmt.Errorf("Fit: %w", ErrNoClasses)
	}

	// Stage 2 (Covariance): pooled for LDA, per class for QDA.
	if o.kind == Linear {
		if err := m.fitLinear(X, rows, r, classes); err != nil {
			return nil, err
		}

		return m, nil
	}
	if err := m.fitQuadratic(X, rows); err != nil {
		return nil, err
	}

	return m, nil
}

// Kind reports the fitted covariance structure.
func (m *Model) Kind() Kind { return m.kind }

// Prior returns the train prior of g, or false when the class was empty.
func (m *Model) Prior(g label.Group) (float64, bool) {
	return m.priors[g], m.present[g]
}

// Mean returns the train mean vector of g, or false when the class was empty.
func (m *Model) Mean(g label.Group) ([]float64, bool) {
	if !m.present[g] {
		return nil, false
	}

	return append([]float64(nil), m.means[g]...), true
}

// fitLinear pools the class covariances and precomputes linear scores.
func (m *Model) fitLinear(X *mat.Dense, rows [3][]int, n, classes int) error {
	c := m.features
	pooled := mat.NewSymDense(c, nil)
	for _, g := range label.Order {
		ng := len(rows[g])
		if ng < 2 {
			continue // 0 or 1 rows add nothing to the pooled scatter
		}
		var cov mat.SymDense
		stat.CovarianceMatrix(&cov, subMatrix(X, rows[g], c), nil)
		for i := 0; i < c; i++ {
			for j := i; j < c; j++ {
				pooled.SetSym(i, j, pooled.At(i, j)+float64(ng-1)*cov.At(i, j))
			}
		}
	}
	denom := float64(n - classes)
	if denom <= 0 {
		return fmt.Errorf("fitLinear(%d rows, %d classes): %w", n, classes, ErrDegenerateClass)
	}
	for i := 0; i < c; i++ {
		for j := i; j < c; j++ {
			pooled.SetSym(i, j, pooled.At(i, j)/denom)
		}
	}

	var ch mat.Cholesky
	if ok := ch.Factorize(pooled); !ok {
		return fmt.Errorf("fitLinear: %w", ErrSingular)
	}

	for _, g := range label.Order {
		if !m.present[g] {
			continue
		}
		mu := mat.NewVecDense(c, append([]float64(nil), m.means[g]...))
		var w mat.VecDense
		if err := ch.SolveVecTo(&w, mu); err != nil {
			return fmt.Errorf("fitLinear(%s): %w", g, ErrSingular)
		}
		m.weights[g] = append([]float64(nil), w.RawVector().Data...)
		m.bias[g] = -0.5*mat.Dot(mu, &w) + math.Log(m.priors[g])
	}

	return nil
}

// fitQuadratic factorizes one covariance per class.
func (m *Model) fitQuadratic(X *mat.Dense, rows [3][]int) error {
	for _, g := range label.Order {
		if !m.present[g] {
			continue
		}
		if len(rows[g]) < 2 {
			return fmt.Errorf("fitQuadratic(%s, %d rows): %w", g, len(rows[g]), ErrDegenerateClass)
		}
		var cov mat.SymDense
		stat.CovarianceMatrix(&cov, subMatrix(X, rows[g], m.features), nil)

		ch := &mat.Cholesky{}
		if ok := ch.Factorize(&cov); !ok {
			return fmt.Errorf("fitQuadratic(%s): %w", g, ErrSingular)
		}
		m.chol[g] = ch
		m.logdet[g] = ch.LogDet()
	}

	return nil
}

// Predict scores every row of X against each non-empty class and returns
// the argmax group names. Ties resolve to the earlier group in the fixed
// order.
func (m *Model) Predict(X *mat.Dense) ([]string, error) {
	r, c := X.Dims()
	if c != m.features {
		return nil, fmt.Errorf("Predict(%d features, fitted %d): %w", c, m.features, ErrDimensionMismatch)
	}

	out := make([]string, r)
	x := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(x, i, X)
		best := label.Group(0)
		bestScore := 0.0
		first := true
		for _, g := range label.Order {
			if !m.present[g] {
				continue
			}
			score, err := m.score(x, g)
			if err != nil {
				return nil, fmt.Errorf("Predict(row %d, %s): %w", i, g, err)
			}
			if first || score > bestScore {
				best, bestScore, first = g, score, false
			}
		}
		if first {
			return nil, fmt.Errorf("Predict: %w", ErrNoClasses)
		}
		out[i] = best.String()
	}

	return out, nil
}

// score evaluates the discriminant function of class g at x.
func (m *Model) score(x []float64, g label.Group) (float64, error) {
	if m.kind == Linear {
		s := m.bias[g]
		for j, w := range m.weights[g] {
			s += x[j] * w
		}

		return s, nil
	}

	// Quadratic: −½ ln|Σ_g| − ½ dᵀ Σ_g⁻¹ d + ln π_g with d = x − μ_g.
	c := m.features
	d := mat.NewVecDense(c, nil)
	for j := 0; j < c; j++ {
		d.SetVec(j, x[j]-m.means[g][j])
	}
	var solved mat.VecDense
	if err := m.chol[g].SolveVecTo(&solved, d); err != nil {
		return 0, ErrSingular
	}

	return -0.5*m.logdet[g] - 0.5*mat.Dot(d, &solved) + math.Log(m.priors[g]), nil
}

// Parameters flattens the fitted coefficients in a fixed deterministic
// order (class order, then feature order) for drift comparison: priors,
// means, and for LDA the linear weights and bias.
func (m *Model) Parameters() []float64 {
	out := make([]float64, 0, 3*(2*m.features+2))
	for _, g := range label.Order {
		if !m.present[g] {
			continue
		}
		out = append(out, m.priors[g])
		out = append(out, m.means[g]...)
		if m.kind == Linear {
			out = append(out, m.weights[g]...)
			out = append(out, m.bias[g])
		} else {
			out = append(out, m.logdet[g])
		}
	}

	return out
}

// Drift reports the maximum elementwise relative difference between the
// parameter vectors of two models fitted with the same configuration —
// the train-vs-validation coefficient stability check.
func Drift(a, b *Model) (float64, error) {
	if a.kind != b.kind || a.features != b.features {
		return 0, fmt.Errorf("Drift: %w", ErrKindMismatch)
	}
	pa, pb := a.Parameters(), b.Parameters()
	if len(pa) != len(pb) {
		return 0, fmt.Errorf("Drift(%d vs %d parameters): %w", len(pa), len(pb), ErrKindMismatch)
	}

	maxRel := 0.0
	for i := range pa {
		rel := math.Abs(pa[i]-pb[i]) / (1 + math.Abs(pa[i]))
		if rel > maxRel {
			maxRel = rel
		}
	}

	return maxRel, nil
}

// classMean averages the selected rows of X.
func classMean(X *mat.Dense, rows []int, c int) []float64 {
	mu := make([]float64, c)
	for _, i := range rows {
		for j := 0; j < c; j++ {
			mu[j] += X.At(i, j)
		}
	}
	for j := range mu {
		mu[j] /= float64(len(rows))
	}

	return mu
}

// subMatrix copies the selected rows of X into a fresh dense matrix.
func subMatrix(X *mat.Dense, rows []int, c int) *mat.Dense {
	out := mat.NewDense(len(rows), c, nil)
	for k, i := range rows {
		for j := 0; j < c; j++ {
			out.Set(k, j, X.At(i, j))
		}
	}

	return out
}
