// SPDX-License-Identifier: MIT

// Package filter removes observations outside plausibility bounds.
//
// Two rules, applied together as one combined predicate:
//
//   - a fixed minimum-age cutoff (default 26) on the configured age column;
//   - for each configured financial field, an upper bound of
//     mean + 3·stddev. Only the upper tail is filtered — the fields are
//     non-negative volumes, so the lower tail carries no outliers.
//
// The bounds are recomputed from the data present at filter time, which
// makes ordering matter: filtering field A first would change field B's
// mean before its bound is computed. To keep results independent of field
// order, all per-field bounds are computed from the same pre-filter
// snapshot and applied in a single pass as a logical AND across fields.
//
// The filter is idempotent in the practical sense pinned by tests:
// re-applying the same Bounds to the already-filtered table removes
// nothing. Filtering deletes rows; it never mutates the rows it keeps.
package filter
