// Package dedupe partitions catalog records into exact-hash duplicate groups,
// curates those groups, and selects the keeper record within each group.
//
// Grouping is a pure partition: every non-denylisted hashed record lands in
// exactly one bucket keyed by its perceptual hash. Curation only ever removes
// members and groups, never adds, so a curated result is always a subset of
// its input.
package dedupe
