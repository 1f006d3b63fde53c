// SPDX-License-Identifier: MIT

package metrics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/stratum/label"
)

// Sentinel errors for evaluation.
var (
	// ErrLengthMismatch is returned when truth and prediction slices differ
	// in length.
	ErrLengthMismatch = errors.New("metrics: truth/prediction length mismatch")

	// ErrEmpty is returned for an empty evaluation set.
	ErrEmpty = errors.New("metrics: no observations to evaluate")

	// ErrUndefinedMetric is returned when a recall/precision/F1 denominator
	// is zero — the ratio is undefined and must not silently become NaN.
	ErrUndefinedMetric = errors.New("metrics: metric undefined (zero denominator)")
)

// ConfusionMatrix cross-tabulates true (rows) against predicted (columns)
// group labels in the fixed order label.Order.
type ConfusionMatrix struct {
	cells [3][3]int
	total int
}

// Confusion builds the matrix from aligned truth/prediction slices holding
// canonical group names.
//
// Errors: ErrLengthMismatch, ErrEmpty, label.ErrUnknownGroup with the
// offending row and side.
// Complexity: O(n).
func Confusion(truth, predicted []string) (*ConfusionMatrix, error) {
	if len(truth) != len(predicted) {
		return nil, fmt.Errorf("Confusion(%d truth, %d predicted): %w",
			len(truth), len(predicted), ErrLengthMismatch)
	}
	if len(truth) == 0 {
		return nil, fmt.Errorf("Confusion: %w", ErrEmpty)
	}

	m := &ConfusionMatrix{}
	for i := range truth {
		tg, err := label.Parse(truth[i])
		if err != nil {
			return nil, fmt.Errorf("Confusion(truth row %d): %w", i, err)
		}
		pg, err := label.Parse(predicted[i])
		if err != nil {
			return nil, fmt.Errorf("Confusion(prediction row %d): %w", i, err)
		}
		m.cells[tg][pg]++
		m.total++
	}

	return m, nil
}

// At returns the count of observations with the given true and predicted
// groups.
func (m *ConfusionMatrix) At(truth, predicted label.Group) int {
	return m.cells[truth][predicted]
}

// Total returns the number of evaluated observations.
func (m *ConfusionMatrix) Total() int { return m.total }

// RowSum returns the number of observations whose true group is g.
func (m *ConfusionMatrix) RowSum(g label.Group) int {
	s := 0
	for _, p := range label.Order {
		s += m.cells[g][p]
	}

	return s
}

// ColSum returns the number of observations predicted as g.
func (m *ConfusionMatrix) ColSum(g label.Group) int {
	s := 0
	for _, t := range label.Order {
		s += m.cells[t][g]
	}

	return s
}

// Accuracy is the diagonal sum over the total.
func (m *ConfusionMatrix) Accuracy() (float64, error) {
	if m.total == 0 {
		return 0, fmt.Errorf("Accuracy: %w", ErrUndefinedMetric)
	}

	diag := 0
	for _, g := range label.Order {
		diag += m.cells[g][g]
	}

	return float64(diag) / float64(m.total), nil
}

// Recall is TP / row-sum for the class of interest.
func (m *ConfusionMatrix) Recall(g label.Group) (float64, error) {
	row := m.RowSum(g)
	if row == 0 {
		return 0, fmt.Errorf("Recall(%s): class absent from ground truth: %w", g, ErrUndefinedMetric)
	}

	return float64(m.cells[g][g]) / float64(row), nil
}

// Precision is TP / column-sum for the class of interest.
func (m *ConfusionMatrix) Precision(g label.Group) (float64, error) {
	col := m.ColSum(g)
	if col == 0 {
		return 0, fmt.Errorf("Precision(%s): class absent from predictions: %w", g, ErrUndefinedMetric)
	}

	return float64(m.cells[g][g]) / float64(col), nil
}

// F1 is the harmonic mean of recall and precision. It is undefined when
// either component is undefined, or when both are zero.
func (m *ConfusionMatrix) F1(g label.Group) (float64, error) {
	recall, err := m.Recall(g)
	if err != nil {
		return 0, fmt.Errorf("F1(%s): %w", g, err)
	}
	precision, err := m.Precision(g)
	if err != nil {
		return 0, fmt.Errorf("F1(%s): %w", g, err)
	}
	if recall+precision == 0 {
		return 0, fmt.Errorf("F1(%s): recall and precision both zero: %w", g, ErrUndefinedMetric)
	}

	return 2 * recall * precision / (recall + precision), nil
}

// String renders the matrix with labeled axes for reports and logs.
func (m *ConfusionMatrix) String() string {
	var b strings.Builder
	b.WriteString("true\\pred")
	for _, p := range label.Order {
		fmt.Fprintf(&b, "\t%s", p)
	}
	b.WriteByte('\n')
	for _, t := range label.Order {
		b.WriteString(t.String())
		for _, p := range label.Order {
			fmt.Fprintf(&b, "\t%d", m.cells[t][p])
		}
		b.WriteByte('\n')
	}

	return b.String()
}
