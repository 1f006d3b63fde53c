// SPDX-License-Identifier: MIT

// Package table provides the column-oriented Table primitive shared by every
// stage of the stratum pipeline.
//
// A Table holds an ordered set of named columns, each either numeric
// ([]float64) or categorical ([]string), all of equal length. Tables are
// immutable by convention: every transforming operation (Select, Rename,
// Retain, Subset, With*) returns a fresh Table and never mutates its
// receiver, so pipeline stages compose without shared mutable state.
//
// Determinism:
//   - Column order is insertion order and is preserved by every operation.
//   - Row order is input order; Retain and Subset preserve relative order.
//   - CSV round-trips are byte-stable for a fixed table.
//
// Missing values: an empty CSV cell parses to NaN in a numeric column and to
// the empty string in a categorical column. The table package itself never
// interprets missingness; downstream stages decide whether NaN is a fault.
//
// Errors are package-level sentinels (ErrColumnNotFound, ErrKindMismatch, …)
// and are matched with errors.Is.
package table
