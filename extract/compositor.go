package extract

import (
	"github.com/tsawler/refigure/model"
	"github.com/tsawler/refigure/source"
)

// Compositor assembles the padded union region covering a primitive plus
// its caption and description, and requests a rasterized snapshot of that
// region from the structural parser. Flattening the region into one image
// preserves the original layout of figure and text.
type Compositor struct {
	// Padding is added on all sides of the union, clamped to non-negative
	// page coordinates.
	Padding float64

	// Scale is the zoom factor passed to the parser when rasterizing.
	Scale float64
}

// NewCompositor creates a compositor with the default padding and scale.
func NewCompositor() *Compositor {
	return &Compositor{Padding: 4, Scale: 2}
}

// Region unions the primitive rectangle with the caption and description
// rectangles present in match, then expands by the configured padding.
// The result always contains the primitive's rectangle.
func (c *Compositor) Region(prim model.Rect, match model.CaptionMatch, matched bool) model.Rect {
	region := prim
	if matched {
		region = region.Union(match.CaptionRect)
		if match.HasDescription {
			region = region.Union(match.DescriptionRect)
		}
	}
	return region.Expand(c.Padding)
}

// Snapshot rasterizes the region of the given page. A parser error is
// returned to the caller, which treats it as non-fatal: the composite path
// is left absent and the item falls back to its original image plus
// separate caption text.
func (c *Compositor) Snapshot(doc source.Document, page int, region model.Rect) ([]byte, error) {
	return doc.RasterizeRegion(page, region, c.Scale)
}
