// Package render lays out ordered figure and table entries into a final
// output document. The HTML renderer is the default; the raster renderer
// produces a single PNG proof sheet.
package render

import (
	"fmt"

	"github.com/tsawler/refigure/sequence"
)

// Renderer turns a sequenced list of entries into a final document. The
// renderer owns pagination: page-break entries mark where the original
// reading order crossed a page boundary. When an item carries no caption
// the renderer generates a default one ("Figure N (Page P)").
type Renderer interface {
	// Render produces the final document bytes.
	Render(entries []sequence.Entry) ([]byte, error)

	// ContentType reports the MIME type of the rendered output.
	ContentType() string
}

// Content box limits shared by the built-in renderers: images are scaled
// down (never up) to fit.
const (
	MaxContentWidth  = 450
	MaxContentHeight = 600
)

// defaultCaption builds the generated caption used when none was found.
func defaultCaption(kind string, n, page int) string {
	return fmt.Sprintf("%s %d (Page %d)", kind, n, page)
}
