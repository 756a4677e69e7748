package source

import (
	"github.com/tsawler/refigure/model"
)

// Document is the structural-parser view of one open document. Pages are
// numbered from 1. Implementations may be backed by an external parser
// process or an in-process reader; calls are treated as synchronous and
// potentially slow.
type Document interface {
	// PageCount returns the number of pages.
	PageCount() int

	// ImagePrimitives returns the embedded images on a page with their
	// bounding boxes in page coordinates.
	ImagePrimitives(page int) ([]model.ImagePrimitive, error)

	// TextBlocks returns the page's text blocks. Callers must not assume
	// any ordering; use model.SortBlocks for layout order.
	TextBlocks(page int) ([]model.TextBlock, error)

	// RasterizeRegion renders the given region of a page into an encoded
	// image (PNG unless the implementation documents otherwise). Scale is
	// a zoom factor applied on both axes.
	RasterizeRegion(page int, r model.Rect, scale float64) ([]byte, error)

	// Close releases parser resources. Safe to call more than once.
	Close() error
}

// Opener opens raw document bytes with a structural parser.
type Opener interface {
	Open(data []byte) (Document, error)
}

// TableDetector finds tables in an open document. Implementations scan all
// pages. A failure applies to the whole document: the caller degrades to
// zero tables for that document and continues with image extraction.
type TableDetector interface {
	DetectTables(doc Document) ([]model.TablePrimitive, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(data []byte) (Document, error)

// Open calls f.
func (f OpenerFunc) Open(data []byte) (Document, error) { return f(data) }

// TableDetectorFunc adapts a function to the TableDetector interface.
type TableDetectorFunc func(doc Document) ([]model.TablePrimitive, error)

// DetectTables calls f.
func (f TableDetectorFunc) DetectTables(doc Document) ([]model.TablePrimitive, error) {
	return f(doc)
}
