// SPDX-License-Identifier: MIT

// Package discriminant fits Gaussian discriminant classifiers over the
// encoded design matrix: linear (LDA, classes share one pooled covariance)
// and quadratic (QDA, one covariance per class).
//
// Scoring follows the textbook discriminant functions. For LDA the
// per-class score is
//
//	δ_g(x) = xᵀ Σ⁻¹ μ_g − ½ μ_gᵀ Σ⁻¹ μ_g + ln π_g
//
// and for QDA
//
//	δ_g(x) = −½ ln|Σ_g| − ½ (x−μ_g)ᵀ Σ_g⁻¹ (x−μ_g) + ln π_g
//
// with priors π_g estimated from the train split. All linear solves go
// through a Cholesky factorization (gonum mat); a class covariance that is
// not positive definite aborts with ErrSingular rather than producing
// unstable inverses.
//
// Coefficient stability across splits is checked with Drift: fit the same
// configuration on train and on validation separately and compare the
// flattened parameter vectors; a large drift flags an unstable design
// matrix before the test split is touched.
//
// Determinism: classes are iterated and tie-broken in the fixed order
// (aid, poor, no).
package discriminant
