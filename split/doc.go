// SPDX-License-Identifier: MIT

// Package split partitions a labeled table into train / validation / test
// subsets with sampling stratified by group, reproducibly under one seed.
//
// Algorithm (fixed, auditable):
//
//  1. Every observation keeps its stable row index; all draws select row
//     indices, never rows themselves.
//  2. Train stage: for each group in the fixed order (aid, poor, no), draw
//     round(TrainFraction·|group|) indices uniformly without replacement
//     from the group's rows and mark them train.
//  3. Validation stage: for each group in the same fixed order, draw
//     round(ValidationFraction·|remaining group|) indices from the rows the
//     train stage left behind and mark them validation.
//  4. Everything still unmarked is test.
//
// With the default fractions (0.5, then 0.6 of the remainder) the nominal
// shares are 50% / 30% / 20%. Exact counts are rounding-dependent per
// group; the rounding rule is round half to even (math.RoundToEven), pinned
// by fixture tests.
//
// Determinism: exactly one *rand.Rand is consumed, in the documented stage
// and group order, so the same seed and the same input row order reproduce
// the same three partitions bit for bit. Per-group independent seeding
// would break this and is deliberately impossible through this API. The
// consumed sequence of draws is materialized as Assignment.Plan — an
// ordered list of (stage, group, fraction) steps — so the randomness
// consumption order is an inspectable artifact, not incidental code order.
//
// Edge behavior: an empty group yields empty draws at every stage (not an
// error); a one-member group may round to zero members in two of the three
// buckets, which is accepted behavior.
package split
