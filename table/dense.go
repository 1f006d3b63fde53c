// SPDX-License-Identifier: MIT
//
// File: dense.go
// Role: Adapter from Table columns to gonum mat.Dense for the model
//       packages (PCA, discriminant analysis, multinomial logit).
// Policy:
//   - Column order in the output matrix is exactly the order requested;
//     the caller owns that order and must reuse it across splits so
//     coefficients line up.
//   - Only numeric columns participate; categorical columns must be
//     expanded to indicators first (package encode).

package table

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ToDense packs the named numeric columns into a rows×len(names) dense
// matrix, one column per name, in the order given.
// Errors: ErrColumnNotFound, ErrKindMismatch.
// Complexity: O(rows·len(names)).
func (t *Table) ToDense(names ...string) (*mat.Dense, error) {
	if t == nil {
		return nil, fmt.Errorf("ToDense: %w", ErrNilTable)
	}
	if t.rows == 0 || len(names) == 0 {
		return nil, fmt.Errorf("ToDense(%d rows, %d columns): %w",
			t.rows, len(names), ErrLengthMismatch)
	}

	cols := make([][]float64, len(names))
	for j, name := range names {
		vals, err := t.Numeric(name)
		if err != nil {
			return nil, fmt.Errorf("ToDense: %w", err)
		}
		cols[j] = vals
	}

	out := mat.NewDense(t.rows, len(names), nil)
	for i := 0; i < t.rows; i++ {
		for j := range cols {
			out.Set(i, j, cols[j][i])
		}
	}

	return out, nil
}

// NumericNames returns the names of all numeric columns in column order.
// Convenient for handing a full design matrix to ToDense after dummy
// expansion has removed the categorical originals.
func (t *Table) NumericNames() []string {
	out := make([]string, 0, len(t.cols))
	for i := range t.cols {
		if t.cols[i].kind == Numeric {
			out = append(out, t.cols[i].name)
		}
	}

	return out
}
