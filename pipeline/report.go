// SPDX-License-Identifier: MIT

package pipeline

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/stratum/metrics"
)

// MethodReport is one method's evaluation on the test split. Recall,
// Precision and F1 are for the aid group — the label of interest.
type MethodReport struct {
	Method    string
	Confusion *metrics.ConfusionMatrix
	Accuracy  float64
	Recall    float64
	Precision float64
	F1        float64

	// Drift is the train-vs-validation coefficient stability check,
	// present for the model-based methods.
	Drift    float64
	HasDrift bool

	// Iterations/Converged describe the capped iterative fit (logit).
	Iterations int
	Converged  bool
}

// Report is the full study outcome for one configuration and seed.
type Report struct {
	Seed       int64
	Rows       int
	Train      int
	Validation int
	Test       int
	Features   []string
	Methods    []MethodReport
}

// String renders a compact text report: split sizes, then one block per
// method with its confusion matrix and aid-group metrics.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "seed=%d rows=%d split: train=%d validation=%d test=%d\n",
		r.Seed, r.Rows, r.Train, r.Validation, r.Test)
	fmt.Fprintf(&b, "features: %s\n", strings.Join(r.Features, ", "))
	for _, m := range r.Methods {
		fmt.Fprintf(&b, "\n[%s] accuracy=%.4f recall(aid)=%.4f precision(aid)=%.4f f1(aid)=%.4f",
			m.Method, m.Accuracy, m.Recall, m.Precision, m.F1)
		if m.HasDrift {
			fmt.Fprintf(&b, " drift=%.4g", m.Drift)
		}
		if m.Iterations > 0 {
			fmt.Fprintf(&b, " iterations=%d converged=%t", m.Iterations, m.Converged)
		}
		b.WriteByte('\n')
		b.WriteString(m.Confusion.String())
	}

	return b.String()
}
