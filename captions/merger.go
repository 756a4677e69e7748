package captions

import (
	"strings"

	"github.com/tsawler/refigure/model"
)

// Merger folds the text blocks following a matched caption into a single
// description. Blocks are consumed in layout order while they stay within
// MaxGap of the merge cursor; a block matching the caption pattern marks
// the start of the next figure's caption and terminates merging without
// being consumed.
type Merger struct {
	// MaxGap is the largest vertical gap, from the bottom of the last
	// consumed block to the top of the next, that still merges.
	MaxGap float64
}

// NewMerger creates a merger with the default gap cutoff.
func NewMerger() *Merger {
	return &Merger{MaxGap: 80}
}

// Merge builds a CaptionMatch starting at the caption block captionIdx.
// blocks must be in layout order. The description's horizontal extent is
// seeded from the caption's span so the composite region covers both.
func (m *Merger) Merge(blocks []model.TextBlock, captionIdx int, pattern *Pattern) model.CaptionMatch {
	caption := blocks[captionIdx]
	match := model.CaptionMatch{
		Caption:     strings.TrimSpace(caption.Text),
		CaptionRect: caption.Rect,
	}

	cursorBottom := caption.Rect.Y1
	minX := caption.Rect.X0
	maxX := caption.Rect.X1
	descTop := 0.0
	haveTop := false

	var parts []string

	for j := captionIdx + 1; j < len(blocks); j++ {
		block := blocks[j]
		text := strings.TrimSpace(block.Text)
		if text == "" {
			continue
		}
		if pattern.Matches(text) {
			break
		}
		if block.Rect.Y0-cursorBottom > m.MaxGap {
			break
		}

		parts = append(parts, text)
		cursorBottom = block.Rect.Y1
		if !haveTop {
			descTop = block.Rect.Y0
			haveTop = true
		}
		if block.Rect.X0 < minX {
			minX = block.Rect.X0
		}
		if block.Rect.X1 > maxX {
			maxX = block.Rect.X1
		}
	}

	if len(parts) > 0 {
		match.Description = strings.Join(parts, " ")
		match.DescriptionRect = model.Rect{X0: minX, Y0: descTop, X1: maxX, Y1: cursorBottom}
		match.HasDescription = true
	}

	return match
}
