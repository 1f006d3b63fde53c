// SPDX-License-Identifier: MIT

// Package pca fits principal components on the train split and scores test
// observations by nearest group centroid in component space.
//
// Fitting delegates the eigen-decomposition to gonum's stat.PC; this
// package owns only the pipeline obligations around it: centering new data
// with the train means, projecting every split with the same train-fitted
// loadings, per-group centroids, and a deterministic nearest-centroid
// prediction so PCA participates in the shared confusion-matrix evaluation
// exactly like the discriminant and logit methods.
//
// Determinism: centroid and prediction ties resolve to the earlier group in
// the fixed order (aid, poor, no).
package pca
