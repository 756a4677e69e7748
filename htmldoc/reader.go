// Package htmldoc adapts HTML documents to the structural-parser contract.
// HTML carries no page geometry, so the reader synthesizes a single-column
// layout: elements are assigned rectangles on letter-sized pages in DOM
// order, which preserves reading order and keeps captions adjacent to the
// figures and tables they follow.
package htmldoc

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/refigure/imaging"
	"github.com/tsawler/refigure/model"
	"github.com/tsawler/refigure/source"
)

// ErrRasterUnsupported is returned by RasterizeRegion: an HTML document has
// no renderable page surface, so the pipeline falls back to emitting the
// original image plus separate caption text.
var ErrRasterUnsupported = errors.New("htmldoc: region rasterization not supported")

// Synthesized page metrics (letter-ish, in the same units the pipeline's
// proximity windows assume).
const (
	pageWidth   = 612.0
	pageHeight  = 792.0
	pageMargin  = 36.0
	contentW    = pageWidth - 2*pageMargin
	lineHeight  = 14.0
	elementGap  = 8.0
	defaultImgH = 150.0
	charsPerRow = 90
)

// Reader is an HTML-backed source.Document.
type Reader struct {
	title  string
	pages  int
	images []model.ImagePrimitive
	blocks []model.TextBlock
	tables []model.TablePrimitive
}

// Open parses HTML bytes into a Reader.
func Open(data []byte) (*Reader, error) {
	return OpenReader(bytes.NewReader(data))
}

// OpenReader parses HTML from an io.Reader.
func OpenReader(r io.Reader) (*Reader, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	reader := &Reader{pages: 1}
	layout := &layoutCursor{page: 1, y: pageMargin}
	reader.extractTitle(doc)
	reader.walk(findElement(doc, "body"), layout)
	reader.pages = layout.page
	return reader, nil
}

// Opener returns a source.Opener backed by this package.
func Opener() source.Opener {
	return source.OpenerFunc(func(data []byte) (source.Document, error) {
		return Open(data)
	})
}

// TableDetector returns a detector that yields the <table> grids collected
// while parsing. It only understands documents opened by this package.
func TableDetector() source.TableDetector {
	return source.TableDetectorFunc(func(doc source.Document) ([]model.TablePrimitive, error) {
		r, ok := doc.(*Reader)
		if !ok {
			return nil, fmt.Errorf("htmldoc: detector requires an htmldoc document, got %T", doc)
		}
		return r.tables, nil
	})
}

// Title returns the document title, if any.
func (r *Reader) Title() string { return r.title }

// PageCount implements source.Document.
func (r *Reader) PageCount() int { return r.pages }

// ImagePrimitives implements source.Document.
func (r *Reader) ImagePrimitives(page int) ([]model.ImagePrimitive, error) {
	var out []model.ImagePrimitive
	for _, img := range r.images {
		if img.Page == page {
			out = append(out, img)
		}
	}
	return out, nil
}

// TextBlocks implements source.Document.
func (r *Reader) TextBlocks(page int) ([]model.TextBlock, error) {
	var out []model.TextBlock
	for _, b := range r.blocks {
		if b.Page == page {
			out = append(out, b)
		}
	}
	return out, nil
}

// RasterizeRegion implements source.Document. Always fails: see
// ErrRasterUnsupported.
func (r *Reader) RasterizeRegion(page int, rect model.Rect, scale float64) ([]byte, error) {
	return nil, ErrRasterUnsupported
}

// Close implements source.Document.
func (r *Reader) Close() error { return nil }

// layoutCursor tracks the synthesized vertical position while walking the
// DOM.
type layoutCursor struct {
	page int
	y    float64
}

// place reserves height units at the cursor, breaking to a new page when
// the element would run past the bottom margin, and returns the rectangle.
func (c *layoutCursor) place(height float64) (int, model.Rect) {
	if c.y+height > pageHeight-pageMargin && c.y > pageMargin {
		c.page++
		c.y = pageMargin
	}
	rect := model.Rect{X0: pageMargin, Y0: c.y, X1: pageMargin + contentW, Y1: c.y + height}
	c.y += height + elementGap
	return c.page, rect
}

// walk traverses the DOM in order, emitting primitives.
func (r *Reader) walk(n *html.Node, cursor *layoutCursor) {
	if n == nil {
		return
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "nav", "head":
			return
		case "img":
			r.addImage(n, cursor)
			return
		case "table":
			r.addTable(n, cursor)
			return
		case "p", "h1", "h2", "h3", "h4", "h5", "h6", "li", "figcaption", "blockquote", "pre":
			text := strings.TrimSpace(getTextContent(n))
			if text != "" {
				r.addText(text, cursor)
			}
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.walk(c, cursor)
	}
}

// addText emits a text block sized by an estimated wrapped line count.
func (r *Reader) addText(text string, cursor *layoutCursor) {
	lines := math.Ceil(float64(len(text)) / charsPerRow)
	if lines < 1 {
		lines = 1
	}
	page, rect := cursor.place(lines * lineHeight)
	r.blocks = append(r.blocks, model.TextBlock{Rect: rect, Text: text, Page: page})
}

// addImage emits an image primitive for data-URI images. External sources
// carry no bytes and are skipped.
func (r *Reader) addImage(n *html.Node, cursor *layoutCursor) {
	src := attr(n, "src")
	data, ok := decodeDataURI(src)
	if !ok {
		return
	}

	height := defaultImgH
	width := contentW
	if info, err := imaging.Probe(data); err == nil && info.Width > 0 && info.Height > 0 {
		scale := imaging.FitScale(float64(info.Width), float64(info.Height), contentW, pageHeight-2*pageMargin)
		width = float64(info.Width) * scale
		height = float64(info.Height) * scale
	}

	page, rect := cursor.place(height)
	rect.X1 = rect.X0 + width
	r.images = append(r.images, model.NewImagePrimitive(page, rect, data, sniffFormat(data)))
}

// addTable collects the cell grid and emits a table primitive.
func (r *Reader) addTable(n *html.Node, cursor *layoutCursor) {
	var grid [][]string
	for _, row := range collectElements(n, "tr") {
		var cells []string
		for _, tag := range []string{"th", "td"} {
			for _, cell := range collectElements(row, tag) {
				cells = append(cells, strings.TrimSpace(getTextContent(cell)))
			}
		}
		if len(cells) > 0 {
			grid = append(grid, cells)
		}
	}
	if len(grid) == 0 {
		return
	}

	page, rect := cursor.place(float64(len(grid)) * lineHeight * 1.3)
	r.tables = append(r.tables, model.TablePrimitive{Page: page, Rect: rect, Grid: grid})
}

// extractTitle pulls the <title> text.
func (r *Reader) extractTitle(n *html.Node) {
	if t := findElement(n, "title"); t != nil {
		r.title = strings.TrimSpace(getTextContent(t))
	}
}

// getTextContent returns the concatenated text of a node's subtree.
func getTextContent(n *html.Node) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// findElement finds the first element with the given tag, depth-first.
func findElement(n *html.Node, tag string) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// collectElements returns descendant elements with the given tag in
// document order, without descending into matches.
func collectElements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		visit(c)
	}
	return out
}

// attr returns the value of the named attribute.
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// decodeDataURI decodes a base64 data URI into raw bytes.
func decodeDataURI(src string) ([]byte, bool) {
	if !strings.HasPrefix(src, "data:") {
		return nil, false
	}
	idx := strings.Index(src, ";base64,")
	if idx < 0 {
		return nil, false
	}
	data, err := base64.StdEncoding.DecodeString(src[idx+len(";base64,"):])
	if err != nil {
		return nil, false
	}
	return data, true
}

// sniffFormat guesses the encoded format from magic bytes.
func sniffFormat(data []byte) string {
	switch {
	case len(data) > 8 && string(data[1:4]) == "PNG":
		return "png"
	case len(data) > 2 && data[0] == 0xff && data[1] == 0xd8:
		return "jpeg"
	case len(data) > 3 && string(data[:3]) == "GIF":
		return "gif"
	case len(data) > 2 && string(data[:2]) == "BM":
		return "bmp"
	default:
		return "bin"
	}
}
