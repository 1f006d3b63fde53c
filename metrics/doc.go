// SPDX-License-Identifier: MIT

// Package metrics evaluates predicted against true group labels through a
// 3×3 confusion matrix.
//
// Both axes use the fixed group order (aid, poor, no): rows are true
// labels, columns are predicted labels. Accuracy is the diagonal sum over
// the total; recall, precision and F1 are derived per class from the
// class's row and column sums.
//
// A ratio whose denominator is zero — a class absent from the ground truth
// or from the predictions — fails explicitly with ErrUndefinedMetric
// naming the class. Nothing here ever emits NaN.
package metrics
