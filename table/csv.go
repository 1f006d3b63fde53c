// SPDX-License-Identifier: MIT
//
// File: csv.go
// Role: CSV ingestion and emission for the file-based pipeline boundary.
// Policy:
//   - The first record is the header; duplicate names are rejected.
//   - Every column parses as numeric unless listed in WithStringColumns.
//   - Empty cells become NaN (numeric) or "" (categorical); nothing else
//     is inferred here — missingness policy belongs to downstream stages.

package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
)

// ReadOption configures CSV ingestion.
type ReadOption func(*readConfig)

type readConfig struct {
	stringCols map[string]bool
}

// WithStringColumns marks the named columns as categorical; their cells are
// kept verbatim instead of being parsed as float64.
func WithStringColumns(names ...string) ReadOption {
	return func(c *readConfig) {
		for _, n := range names {
			c.stringCols[n] = true
		}
	}
}

// ReadCSV parses a headered CSV stream into a Table.
// Errors: ErrEmptyHeader, ErrDuplicateHeader, ErrBadCell (with row/column
// context), plus any underlying csv reader error.
// Complexity: O(rows·cols).
func ReadCSV(r io.Reader, opts ...ReadOption) (*Table, error) {
	cfg := readConfig{stringCols: make(map[string]bool)}
	for _, opt := range opts {
		opt(&cfg)
	}

	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ReadCSV: %w", err)
	}
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, fmt.Errorf("ReadCSV: %w", ErrEmptyHeader)
	}

	header := records[0]
	body := records[1:]

	seen := make(map[string]bool, len(header))
	for _, name := range header {
		if seen[name] {
			return nil, fmt.Errorf("ReadCSV(%q): %w", name, ErrDuplicateHeader)
		}
		seen[name] = true
	}

	out := New(len(body))
	for j, name := range header {
		if cfg.stringCols[name] {
			vals := make([]string, len(body))
			for i := range body {
				vals[i] = body[i][j]
			}
			out.cols = append(out.cols, column{name: name, kind: Categorical, cats: vals})
		} else {
			vals := make([]float64, len(body))
			for i := range body {
				cell := body[i][j]
				if cell == "" {
					vals[i] = math.NaN()

					continue
				}
				v, perr := strconv.ParseFloat(cell, 64)
				if perr != nil {
					return nil, fmt.Errorf("ReadCSV(row %d, column %q, cell %q): %w",
						i+1, name, cell, ErrBadCell)
				}
				vals[i] = v
			}
			out.cols = append(out.cols, column{name: name, kind: Numeric, nums: vals})
		}
		out.index[name] = j
	}

	return out, nil
}

// WriteCSV emits the table as a headered CSV stream.
// Numeric cells use the shortest round-trip float format; NaN cells are
// written empty so a ReadCSV round-trip restores them.
func (t *Table) WriteCSV(w io.Writer) error {
	if t == nil {
		return fmt.Errorf("WriteCSV: %w", ErrNilTable)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return fmt.Errorf("WriteCSV header: %w", err)
	}

	record := make([]string, len(t.cols))
	for r := 0; r < t.rows; r++ {
		for j := range t.cols {
			c := t.cols[j]
			if c.kind == Categorical {
				record[j] = c.cats[r]

				continue
			}
			if math.IsNaN(c.nums[r]) {
				record[j] = ""
			} else {
				record[j] = strconv.FormatFloat(c.nums[r], 'g', -1, 64)
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("WriteCSV row %d: %w", r, err)
		}
	}
	cw.Flush()

	return cw.Error()
}
