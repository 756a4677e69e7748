package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// TextBlock is a positioned run of text produced by a structural parser.
// Blocks on a page are totally ordered by (Y0, X0) ascending; that order is
// the page's layout order.
type TextBlock struct {
	Rect Rect
	Text string
	Page int
}

// SortBlocks sorts blocks into layout order: top to bottom, then left to
// right. The sort is stable so parser stream order breaks ties.
func SortBlocks(blocks []TextBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].Rect.Y0 != blocks[j].Rect.Y0 {
			return blocks[i].Rect.Y0 < blocks[j].Rect.Y0
		}
		return blocks[i].Rect.X0 < blocks[j].Rect.X0
	})
}

// ImagePrimitive is a raw embedded image extracted from a page.
type ImagePrimitive struct {
	Page        int
	Rect        Rect
	ContentHash string // sha256 hex digest of Data
	Data        []byte
	Format      string // "png", "jpeg", etc. as reported by the parser
}

// NewImagePrimitive builds an ImagePrimitive, computing the content hash.
// Two primitives with equal hashes are the same physical image regardless
// of page or position.
func NewImagePrimitive(page int, rect Rect, data []byte, format string) ImagePrimitive {
	sum := sha256.Sum256(data)
	return ImagePrimitive{
		Page:        page,
		Rect:        rect,
		ContentHash: hex.EncodeToString(sum[:]),
		Data:        data,
		Format:      format,
	}
}

// TablePrimitive is a detected table: a position and a grid of cell strings.
// Grid rows may be irregular; Cols reports the first row's width.
type TablePrimitive struct {
	Page int
	Rect Rect
	Grid [][]string
}

// Rows returns the number of rows in the grid.
func (t TablePrimitive) Rows() int {
	return len(t.Grid)
}

// Cols returns the number of columns in the first row, or 0 for an empty grid.
func (t TablePrimitive) Cols() int {
	if len(t.Grid) == 0 {
		return 0
	}
	return len(t.Grid[0])
}

// FillRatio returns the fraction of cells that are non-empty after trimming
// whitespace. An empty grid has ratio 0.
func (t TablePrimitive) FillRatio() float64 {
	total := 0
	nonEmpty := 0
	for _, row := range t.Grid {
		for _, cell := range row {
			total++
			if strings.TrimSpace(cell) != "" {
				nonEmpty++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(nonEmpty) / float64(total)
}

// SerializedKey returns a dedup key combining the page number and the full
// grid contents. Tables on the same page with identical content share a key.
func (t TablePrimitive) SerializedKey() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d|", t.Page)
	for _, row := range t.Grid {
		sb.WriteString(strings.Join(row, "\x1f"))
		sb.WriteString("\x1e")
	}
	return sb.String()
}
