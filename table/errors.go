// SPDX-License-Identifier: MIT
// Package table: sentinel error set.
// Only package-level sentinels live here; all operations return these and
// tests match them via errors.Is. Context is added with
// fmt.Errorf("op: %w", ErrX) at the boundary — never by rewording sentinels.

package table

import "errors"

var (
	// ErrNilTable is returned when an operation receives a nil *Table.
	ErrNilTable = errors.New("table: table is nil")

	// ErrColumnNotFound indicates a referenced column name is absent.
	ErrColumnNotFound = errors.New("table: column not found")

	// ErrColumnExists indicates an attempt to add a column whose name is taken.
	ErrColumnExists = errors.New("table: column already exists")

	// ErrKindMismatch indicates a numeric accessor hit a categorical column
	// or vice versa.
	ErrKindMismatch = errors.New("table: column kind mismatch")

	// ErrLengthMismatch indicates a column or mask whose length differs from
	// the table's row count.
	ErrLengthMismatch = errors.New("table: length mismatch")

	// ErrRowRange indicates a row index outside [0, Rows).
	ErrRowRange = errors.New("table: row index out of range")

	// ErrEmptyHeader indicates a CSV stream without a header row.
	ErrEmptyHeader = errors.New("table: empty or missing CSV header")

	// ErrDuplicateHeader indicates a CSV header with a repeated column name.
	ErrDuplicateHeader = errors.New("table: duplicate CSV header name")

	// ErrBadCell indicates a CSV cell that failed numeric parsing.
	ErrBadCell = errors.New("table: cannot parse numeric cell")
)
