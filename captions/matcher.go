package captions

import (
	"math"

	"github.com/tsawler/refigure/model"
)

// proximityRule scores one spatial relationship between a primitive and a
// candidate block. It returns the vertical distance and whether the block
// satisfies the rule. Rules are evaluated in order per block; the first
// rule a block satisfies supplies its distance.
type proximityRule struct {
	name     string
	distance func(prim, block model.Rect) (float64, bool)
}

// Matcher selects the caption block for a primitive among a page's text
// blocks. Candidates must match the marker pattern and sit within a
// vertical window of the primitive, horizontally aligned within the
// primitive's width. Blocks below are checked before blocks above for each
// candidate; across candidates the smallest distance found in a single
// pass wins.
type Matcher struct {
	// BelowWindow is the maximum gap between the primitive's bottom and a
	// caption below it. Boundary-inclusive.
	BelowWindow float64

	// AboveWindow is the maximum gap between a caption's bottom and the
	// primitive's top. Boundary-inclusive.
	AboveWindow float64

	rules []proximityRule
}

// NewMatcher creates a matcher with the default proximity windows.
func NewMatcher() *Matcher {
	m := &Matcher{
		BelowWindow: 150,
		AboveWindow: 100,
	}
	m.rules = []proximityRule{
		{
			name: "below",
			distance: func(prim, block model.Rect) (float64, bool) {
				d := block.Y0 - prim.Y1
				if d >= 0 && d <= m.BelowWindow && hAligned(prim, block) {
					return d, true
				}
				return 0, false
			},
		},
		{
			name: "above",
			distance: func(prim, block model.Rect) (float64, bool) {
				d := prim.Y0 - block.Y1
				if d >= 0 && d <= m.AboveWindow && hAligned(prim, block) {
					return d, true
				}
				return 0, false
			},
		},
	}
	return m
}

// hAligned reports whether the block's horizontal span overlaps the
// primitive's within the primitive's own width.
func hAligned(prim, block model.Rect) bool {
	return math.Abs(block.X0-prim.X0) < prim.Width()
}

// Match scans blocks (in layout order) for the best caption candidate for a
// primitive with the given rectangle. It returns the index of the winning
// block, or ok=false when no candidate qualifies. No match is not an error;
// the primitive is simply emitted without caption or description.
func (m *Matcher) Match(prim model.Rect, blocks []model.TextBlock, pattern *Pattern) (int, bool) {
	bestIdx := -1
	bestDistance := math.Inf(1)

	for idx, block := range blocks {
		if !pattern.Matches(block.Text) {
			continue
		}
		for _, rule := range m.rules {
			d, ok := rule.distance(prim, block.Rect)
			if !ok {
				continue
			}
			if d < bestDistance {
				bestDistance = d
				bestIdx = idx
			}
			break // first satisfied rule decides this block's distance
		}
	}

	if bestIdx < 0 {
		return 0, false
	}
	return bestIdx, true
}
