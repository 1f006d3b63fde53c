// SPDX-License-Identifier: MIT

// Package baseline provides a KNN reference classifier around golearn.
//
// The three main methods (PCA scoring, discriminant analysis, multinomial
// logit) are all model-based; the baseline gives the narrative a
// nonparametric sanity point on the identical splits and design matrix.
// The package owns only the bridge work: packing the numeric design matrix
// and group labels into golearn DenseInstances with a stable attribute
// schema (the class dictionary is seeded with all three groups in the
// fixed order, so train and test instance sets always agree), fitting
// golearn's KnnClassifier, and unpacking the predicted class per row.
package baseline
