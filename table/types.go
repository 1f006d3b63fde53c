// SPDX-License-Identifier: MIT
//
// File: types.go
// Role: Table and column storage plus read-only accessors and builders.
// Policy:
//   - Tables are immutable by convention: transforming methods return copies.
//   - Column order is insertion order; all iteration is in that order.
//   - Accessors return defensive copies only where documented; the raw
//     slices handed back by Numeric/Categorical must not be mutated.

package table

import (
	"fmt"
)

// Kind discriminates the storage of a column.
type Kind uint8

const (
	// Numeric columns store float64 values; missing cells are NaN.
	Numeric Kind = iota
	// Categorical columns store string level names; missing cells are "".
	Categorical
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	if k == Numeric {
		return "numeric"
	}

	return "categorical"
}

// column is the single storage unit. Exactly one of nums/cats is non-nil,
// matching kind.
type column struct {
	name string
	kind Kind
	nums []float64
	cats []string
}

// Table is an ordered collection of equally sized named columns.
// The zero value is not usable; construct with New or ReadCSV.
type Table struct {
	cols  []column
	index map[string]int // name → position in cols
	rows  int
}

// New returns an empty table with the given row count.
// Columns are attached with WithNumeric / WithCategorical.
// Complexity: O(1).
func New(rows int) *Table {
	return &Table{index: make(map[string]int), rows: rows}
}

// Rows reports the number of rows.
func (t *Table) Rows() int { return t.rows }

// Cols reports the number of columns.
func (t *Table) Cols() int { return len(t.cols) }

// Names returns the column names in column order. The slice is a copy.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i := range t.cols {
		out[i] = t.cols[i].name
	}

	return out
}

// Has reports whether a column with the given name exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]

	return ok
}

// KindOf returns the kind of the named column.
func (t *Table) KindOf(name string) (Kind, error) {
	i, ok := t.index[name]
	if !ok {
		return 0, fmt.Errorf("KindOf(%q): %w", name, ErrColumnNotFound)
	}

	return t.cols[i].kind, nil
}

// Numeric returns the backing slice of a numeric column.
// The slice is shared, not copied — callers must treat it as read-only.
func (t *Table) Numeric(name string) ([]float64, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("Numeric(%q): %w", name, ErrColumnNotFound)
	}
	if t.cols[i].kind != Numeric {
		return nil, fmt.Errorf("Numeric(%q): %w", name, ErrKindMismatch)
	}

	return t.cols[i].nums, nil
}

// Categorical returns the backing slice of a categorical column.
// The slice is shared, not copied — callers must treat it as read-only.
func (t *Table) Categorical(name string) ([]string, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("Categorical(%q): %w", name, ErrColumnNotFound)
	}
	if t.cols[i].kind != Categorical {
		return nil, fmt.Errorf("Categorical(%q): %w", name, ErrKindMismatch)
	}

	return t.cols[i].cats, nil
}

// WithNumeric returns a copy of t with a numeric column appended.
// The values slice is copied. Errors: ErrColumnExists, ErrLengthMismatch.
func (t *Table) WithNumeric(name string, values []float64) (*Table, error) {
	if t == nil {
		return nil, fmt.Errorf("WithNumeric(%q): %w", name, ErrNilTable)
	}
	if t.Has(name) {
		return nil, fmt.Errorf("WithNumeric(%q): %w", name, ErrColumnExists)
	}
	if len(values) != t.rows {
		return nil, fmt.Errorf("WithNumeric(%q): have %d values, want %d: %w",
			name, len(values), t.rows, ErrLengthMismatch)
	}

	out := t.clone()
	out.cols = append(out.cols, column{
		name: name,
		kind: Numeric,
		nums: append([]float64(nil), values...),
	})
	out.index[name] = len(out.cols) - 1

	return out, nil
}

// WithCategorical returns a copy of t with a categorical column appended.
// The values slice is copied. Errors: ErrColumnExists, ErrLengthMismatch.
func (t *Table) WithCategorical(name string, values []string) (*Table, error) {
	if t == nil {
		return nil, fmt.Errorf("WithCategorical(%q): %w", name, ErrNilTable)
	}
	if t.Has(name) {
		return nil, fmt.Errorf("WithCategorical(%q): %w", name, ErrColumnExists)
	}
	if len(values) != t.rows {
		return nil, fmt.Errorf("WithCategorical(%q): have %d values, want %d: %w",
			name, len(values), t.rows, ErrLengthMismatch)
	}

	out := t.clone()
	out.cols = append(out.cols, column{
		name: name,
		kind: Categorical,
		cats: append([]string(nil), values...),
	})
	out.index[name] = len(out.cols) - 1

	return out, nil
}

// Without returns a copy of t with the named column removed.
func (t *Table) Without(name string) (*Table, error) {
	if t == nil {
		return nil, fmt.Errorf("Without(%q): %w", name, ErrNilTable)
	}
	pos, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("Without(%q): %w", name, ErrColumnNotFound)
	}

	out := New(t.rows)
	for i := range t.cols {
		if i == pos {
			continue
		}
		out.cols = append(out.cols, t.cols[i].copy())
		out.index[t.cols[i].name] = len(out.cols) - 1
	}

	return out, nil
}

// clone copies the table structure and every column buffer.
// Complexity: O(rows·cols).
func (t *Table) clone() *Table {
	out := New(t.rows)
	out.cols = make([]column, len(t.cols))
	for i := range t.cols {
		out.cols[i] = t.cols[i].copy()
		out.index[t.cols[i].name] = i
	}

	return out
}

// copy duplicates a column's buffer.
func (c column) copy() column {
	d := column{name: c.name, kind: c.kind}
	if c.kind == Numeric {
		d.nums = append([]float64(nil), c.nums...)
	} else {
		d.cats = append([]string(nil), c.cats...)
	}

	return d
}
