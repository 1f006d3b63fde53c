// SPDX-License-Identifier: MIT

// Package pipeline wires the stages into one reproducible run:
//
//	read extract → rename → derive group → map categoricals → outlier
//	filter → project → write intermediate artifact → dummy expansion →
//	stratified split → fit/predict per method → confusion matrices.
//
// Everything configurable lives in Config — the seed, the split fractions,
// the outlier field list, the rename map, every categorical level set with
// its reference level, and the model knobs — loaded from YAML through
// viper with documented defaults. None of these are inlined literals in
// the stages; a run is fully described by its config.
//
// The package logs stage boundaries and row counts through zap; the
// library packages underneath stay silent.
package pipeline
