// Package source defines the contracts between the extraction pipeline and
// its document-level collaborators: the structural parser that yields page
// primitives and rasterizes regions, and the table detector.
package source
