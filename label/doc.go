// SPDX-License-Identifier: MIT

// Package label derives the three-way study group for every observation.
//
// The rule is ordered and short-circuiting, evaluated row-independently:
//
//  1. poor — the official OR the supplemental poverty flag is set;
//  2. aid  — otherwise, any subsidy amount (SNAP, housing, school lunch,
//     WIC/energy) is strictly positive;
//  3. no   — otherwise.
//
// The three outcomes are exhaustive and mutually exclusive by construction:
// "aid" is only tested after "poor" has been excluded, and "no" is only
// reached when both earlier conditions failed. Implementing the rule as
// independent membership tests would allow double-labeling; this package
// preserves the ordered evaluation exactly.
//
// A missing cell (NaN) is an absent indicator. A row whose flags and
// amounts are all absent cannot be grouped and aborts the run with
// ErrMissingIndicators naming the row — groups are never defaulted.
//
// Once derived, the group column is immutable ground truth: no downstream
// stage recomputes or reassigns it (filtering may delete a row, never
// relabel it).
package label
