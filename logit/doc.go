// SPDX-License-Identifier: MIT

// Package logit fits a multinomial logistic (softmax) regression of the
// three-way group label on the encoded design matrix.
//
// One group is the configured reference (default "no"); each non-reference
// group g gets a coefficient row β_g over [intercept | features], and
//
//	P(g | x) = exp(β_g·x̃) / (1 + Σ_h exp(β_h·x̃))
//
// with the reference's linear score fixed at zero. Coefficient signs are
// therefore interpreted against the reference group, exactly as the dummy
// encoding interprets indicators against their reference level.
//
// Fitting is full-batch gradient descent on the negative log-likelihood
// with a hard iteration cap (default 250, the study's maxit) and a
// gradient-norm tolerance; hitting the cap is not an error — the model
// records Converged=false and the iteration count, matching how iterative
// statistical fitters report a capped run. Scores are computed with a
// log-sum-exp shift so large linear predictors cannot overflow.
//
// Determinism: fixed iteration order, zero-initialized coefficients, no
// randomness anywhere in the fit.
package logit
