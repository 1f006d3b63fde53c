// Package stratum is a deterministic toolkit for census poverty-group
// classification studies: label derivation, categorical encoding, outlier
// filtering, seed-reproducible stratified splitting, and three independent
// classification methods evaluated on a shared confusion-matrix contract.
//
// 🚀 What is stratum?
//
//	A reproducible analysis pipeline that answers one research question:
//	does the subsidy-recipient group resemble the impoverished group or
//	the unaffected group? It brings together:
//		• table     — column-oriented Table primitive with CSV I/O
//		• label     — three-way group derivation (aid / poor / no)
//		• encode    — categorical level maps + dummy-indicator expansion
//		• filter    — fixed-cutoff and mean+3σ outlier removal
//		• split     — stratified 50/30/20 train/validation/test splitter
//		• pca       — principal components + nearest-centroid scoring
//		• discriminant — linear and quadratic discriminant analysis
//		• logit     — multinomial logistic regression
//		• baseline  — KNN reference classifier (golearn)
//		• metrics   — 3×3 confusion matrix, accuracy/recall/precision/F1
//		• pipeline  — configuration, logging, stage orchestration
//
// ✨ Why choose stratum?
//
//   - Seeded reproducibility — one RNG per run, fixed consumption order,
//     bit-identical partitions for the same seed and input ordering
//   - Explicit configuration — reference levels, split fractions, outlier
//     fields and seeds are named config, never library defaults
//   - Fail-loud data hygiene — missing indicators, unknown codes and
//     undefined metric ratios abort the run with the offending row/field
//   - Pure pipeline — every stage takes an immutable table and returns a
//     new one; no shared mutable state between stages
//
// Data flows strictly downstream:
//
//	raw extract → labeled/cleaned table → stratified splits
//	            → fitted models → confusion matrices → metrics
//
// Dive into examples/ for end-to-end runs, and cmd/stratum for the CLI.
//
//	go get github.com/katalvlaran/stratum
package stratum
