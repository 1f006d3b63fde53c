// SPDX-License-Identifier: MIT

// Package encode maps raw numeric category codes onto fixed, ordered level
// sets and expands multi-level categoricals into binary indicator columns.
//
// Two operations:
//
//   - Map: replace a numeric code column (sex, marital status, race,
//     education, mortgage, state, …) with a categorical column whose values
//     come from the field's configured level set. A code outside the set is
//     a fatal data fault (ErrUnknownCode), never a silent passthrough.
//
//   - Expand: turn a k-level categorical into k−1 binary indicator columns
//     against an explicitly configured reference level. The reference is
//     configuration, not inference — it fixes the sign and interpretation
//     of every downstream coefficient, so it must be identical on every
//     run and on every split. The source column is dropped after expansion.
//
// Indicator columns are named <field>_<level> and appear in the field's
// configured level order (reference omitted), so design matrices line up
// across train/validation/test without any sorting.
package encode
