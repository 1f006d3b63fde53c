// SPDX-License-Identifier: MIT
//
// File: ops.go
// Role: Pure transforming operations — projection, renaming, row filtering
//       and row subsetting. Each returns a fresh Table; the receiver is
//       never mutated (pipeline stages compose without shared state).

package table

import (
	"fmt"
	"sort"
)

// Select returns a new table containing exactly the named columns, in the
// order given. Errors: ErrColumnNotFound for any absent name.
// Complexity: O(rows·len(names)).
func (t *Table) Select(names ...string) (*Table, error) {
	if t == nil {
		return nil, fmt.Errorf("Select: %w", ErrNilTable)
	}

	out := New(t.rows)
	for _, name := range names {
		i, ok := t.index[name]
		if !ok {
			return nil, fmt.Errorf("Select(%q): %w", name, ErrColumnNotFound)
		}
		out.cols = append(out.cols, t.cols[i].copy())
		out.index[name] = len(out.cols) - 1
	}

	return out, nil
}

// Rename returns a new table with columns renamed according to mapping
// (old → new). Columns absent from the mapping keep their name; a mapping
// key that names no column is an error, so configuration typos surface
// instead of silently passing through.
// Errors: ErrColumnNotFound, ErrColumnExists (rename collides).
func (t *Table) Rename(mapping map[string]string) (*Table, error) {
	if t == nil {
		return nil, fmt.Errorf("Rename: %w", ErrNilTable)
	}

	// Validate keys in deterministic order for stable error messages.
	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !t.Has(k) {
			return nil, fmt.Errorf("Rename(%q): %w", k, ErrColumnNotFound)
		}
	}

	out := New(t.rows)
	for i := range t.cols {
		c := t.cols[i].copy()
		if next, ok := mapping[c.name]; ok {
			c.name = next
		}
		if _, dup := out.index[c.name]; dup {
			return nil, fmt.Errorf("Rename(→%q): %w", c.name, ErrColumnExists)
		}
		out.cols = append(out.cols, c)
		out.index[c.name] = len(out.cols) - 1
	}

	return out, nil
}

// Retain returns a new table keeping exactly the rows whose mask entry is
// true, preserving relative order. len(keep) must equal Rows.
// Complexity: O(rows·cols).
func (t *Table) Retain(keep []bool) (*Table, error) {
	if t == nil {
		return nil, fmt.Errorf("Retain: %w", ErrNilTable)
	}
	if len(keep) != t.rows {
		return nil, fmt.Errorf("Retain: mask has %d entries, want %d: %w",
			len(keep), t.rows, ErrLengthMismatch)
	}

	kept := 0
	for _, k := range keep {
		if k {
			kept++
		}
	}

	out := New(kept)
	for i := range t.cols {
		src := t.cols[i]
		dst := column{name: src.name, kind: src.kind}
		if src.kind == Numeric {
			dst.nums = make([]float64, 0, kept)
			for r, k := range keep {
				if k {
					dst.nums = append(dst.nums, src.nums[r])
				}
			}
		} else {
			dst.cats = make([]string, 0, kept)
			for r, k := range keep {
				if k {
					dst.cats = append(dst.cats, src.cats[r])
				}
			}
		}
		out.cols = append(out.cols, dst)
		out.index[src.name] = i
	}

	return out, nil
}

// Subset returns a new table containing the given rows in the given order.
// Indices may not repeat usefully for analysis, but repetition is not
// rejected — the splitter always passes disjoint ascending indices.
// Errors: ErrRowRange for any index outside [0, Rows).
func (t *Table) Subset(rows []int) (*Table, error) {
	if t == nil {
		return nil, fmt.Errorf("Subset: %w", ErrNilTable)
	}
	for _, r := range rows {
		if r < 0 || r >= t.rows {
			return nil, fmt.Errorf("Subset(row %d of %d): %w", r, t.rows, ErrRowRange)
		}
	}

	out := New(len(rows))
	for i := range t.cols {
		src := t.cols[i]
		dst := column{name: src.name, kind: src.kind}
		if src.kind == Numeric {
			dst.nums = make([]float64, len(rows))
			for j, r := range rows {
				dst.nums[j] = src.nums[r]
			}
		} else {
			dst.cats = make([]string, len(rows))
			for j, r := range rows {
				dst.cats[j] = src.cats[r]
			}
		}
		out.cols = append(out.cols, dst)
		out.index[src.name] = i
	}

	return out, nil
}
