package extract

import (
	"github.com/tsawler/refigure/model"
)

// QualityFilter rejects detected tables that are too small or too sparse
// to be meaningful output. Low-quality extractions (single rows, nearly
// empty grids) are dropped rather than rendered.
type QualityFilter struct {
	MinRows      int
	MinCols      int
	MinFillRatio float64
}

// NewQualityFilter creates a filter with the default thresholds.
func NewQualityFilter() *QualityFilter {
	return &QualityFilter{
		MinRows:      2,
		MinCols:      2,
		MinFillRatio: 0.15,
	}
}

// Accept reports whether the table meets the minimum size and content
// thresholds.
func (f *QualityFilter) Accept(t model.TablePrimitive) bool {
	if t.Rows() < f.MinRows || t.Cols() < f.MinCols {
		return false
	}
	return t.FillRatio() >= f.MinFillRatio
}

// tableDeduplicator drops repeated tables with identical content on the
// same page, keyed by (page, serialized grid).
type tableDeduplicator struct {
	seen map[string]struct{}
}

func newTableDeduplicator() *tableDeduplicator {
	return &tableDeduplicator{seen: make(map[string]struct{})}
}

func (d *tableDeduplicator) admit(t model.TablePrimitive) bool {
	key := t.SerializedKey()
	if _, ok := d.seen[key]; ok {
		return false
	}
	d.seen[key] = struct{}{}
	return true
}

// RasterPolicy decides whether a table is emitted as a rasterized image or
// as a structured grid. Rasterizing is the only lossless option when a
// table contains an embedded diagram, so the global flag defaults to on.
type RasterPolicy struct {
	// ForceAll rasterizes every table regardless of content.
	ForceAll bool
}

// ShouldRasterize reports whether the table must be flattened to an image:
// either the global flag is set, or an image primitive on the same page
// geometrically intersects the table's rectangle.
func (p *RasterPolicy) ShouldRasterize(t model.TablePrimitive, pageImages []model.ImagePrimitive) bool {
	if p.ForceAll {
		return true
	}
	for _, img := range pageImages {
		if img.Rect.Intersects(t.Rect) {
			return true
		}
	}
	return false
}
