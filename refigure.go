// Package refigure reassembles the figures and tables of a document batch
// into a single output document. Each figure and table is paired with its
// caption and descriptive text and emitted in original reading order.
//
// Basic usage:
//
//	batch := refigure.NewBatch(opener, detector)
//	out, warnings, err := batch.Process(docBytes)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", refigure.FormatWarnings(warnings))
//	}
//
// The structural parser (opener), table detector, and renderer are
// collaborators behind the source and render interfaces; the htmldoc
// package ships a built-in HTML adapter.
package refigure

import (
	"errors"
	"strings"

	"github.com/tsawler/refigure/extract"
)

// ErrNoContent is returned when no figures and no tables were found across
// the entire batch: there is nothing to render, which is a user-visible
// condition rather than a processing bug.
var ErrNoContent = errors.New("no figures or tables found in the batch")

// Warning describes a non-fatal issue encountered during processing.
// The affected item degrades gracefully; the batch continues.
type Warning = extract.Warning

// FormatWarnings joins warnings into a readable multi-line string.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "\n")
}

// Must is a helper that wraps a call returning (T, error) and panics on a
// non-nil error. Intended for scripts and tests.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
