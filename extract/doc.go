// Package extract runs the per-document extraction pass: image and table
// primitives are deduplicated, associated with captions and descriptions,
// composited into padded snapshot regions, quality-filtered, and turned
// into layout items for sequencing.
package extract
