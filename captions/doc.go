// Package captions implements caption association: classifying text blocks
// as figure/table caption candidates, selecting the best candidate for a
// primitive by spatial proximity, and merging subsequent blocks into a
// single description.
package captions
