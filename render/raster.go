package render

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/tsawler/refigure/imaging"
	"github.com/tsawler/refigure/model"
	"github.com/tsawler/refigure/sequence"
)

// RasterRenderer renders entries into a single tall PNG: images and
// rasterized tables drawn at content-box scale, structured grids and
// captions drawn as text. Useful as a dependency-free proof sheet when no
// external document renderer is wired in.
type RasterRenderer struct{}

// NewRasterRenderer creates a raster renderer.
func NewRasterRenderer() *RasterRenderer {
	return &RasterRenderer{}
}

// ContentType implements Renderer.
func (r *RasterRenderer) ContentType() string { return "image/png" }

const (
	rasterMargin   = 20
	rasterLineGap  = 4
	rasterItemGap  = 24
	rasterTextWrap = 78
)

// block is one vertical slice of the output: an image, text lines, or a
// page divider.
type block struct {
	img     image.Image
	lines   []string
	divider bool
}

func (b block) height(face font.Face) int {
	switch {
	case b.divider:
		return rasterItemGap
	case b.img != nil:
		return b.img.Bounds().Dy()
	default:
		lineHeight := face.Metrics().Height.Ceil() + rasterLineGap
		return len(b.lines) * lineHeight
	}
}

// Render implements Renderer.
func (r *RasterRenderer) Render(entries []sequence.Entry) ([]byte, error) {
	face := basicfont.Face7x13

	blocks := r.layout(entries)

	height := rasterMargin * 2
	for _, b := range blocks {
		height += b.height(face) + rasterItemGap
	}
	width := MaxContentWidth + rasterMargin*2

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	y := rasterMargin
	for _, b := range blocks {
		switch {
		case b.divider:
			for x := rasterMargin; x < width-rasterMargin; x += 6 {
				canvas.Set(x, y+rasterItemGap/2, color.Gray{Y: 0xbb})
			}
		case b.img != nil:
			bounds := b.img.Bounds()
			dst := image.Rect(rasterMargin, y, rasterMargin+bounds.Dx(), y+bounds.Dy())
			draw.Draw(canvas, dst, b.img, bounds.Min, draw.Over)
		default:
			lineHeight := face.Metrics().Height.Ceil() + rasterLineGap
			drawer := font.Drawer{
				Dst:  canvas,
				Src:  image.Black,
				Face: face,
			}
			for i, line := range b.lines {
				drawer.Dot = fixed.P(rasterMargin, y+face.Metrics().Ascent.Ceil()+i*lineHeight)
				drawer.DrawString(line)
			}
		}
		y += b.height(face) + rasterItemGap
	}

	return imaging.EncodePNG(canvas)
}

// layout converts entries into drawable blocks, decoding and fitting
// images as it goes.
func (r *RasterRenderer) layout(entries []sequence.Entry) []block {
	var blocks []block
	figureCount := 0
	tableCount := 0

	for _, entry := range entries {
		if entry.PageBreak {
			blocks = append(blocks, block{divider: true})
			continue
		}
		item := entry.Item

		kind := "Figure"
		n := 0
		switch item.Kind {
		case model.ItemFigure:
			figureCount++
			n = figureCount
		case model.ItemTable:
			kind = "Table"
			tableCount++
			n = tableCount
		}

		if item.Raster != nil {
			img, _, err := imaging.Decode(item.Raster)
			if err != nil {
				// Degrade to the caption text alone.
				blocks = append(blocks, block{lines: wrapText(captionText(item, kind, n), rasterTextWrap)})
				continue
			}
			bounds := img.Bounds()
			scale := imaging.FitScale(float64(bounds.Dx()), float64(bounds.Dy()), MaxContentWidth, MaxContentHeight)
			if scale < 1 {
				img = imaging.Downscale(img, int(float64(bounds.Dx())*scale), int(float64(bounds.Dy())*scale))
			}
			blocks = append(blocks, block{img: img})
			if !item.RasterIsComposite {
				blocks = append(blocks, block{lines: wrapText(captionText(item, kind, n), rasterTextWrap)})
			}
			continue
		}

		if item.Grid != nil {
			lines := make([]string, 0, len(item.Grid)+2)
			for _, row := range item.Grid {
				lines = append(lines, strings.Join(row, " | "))
			}
			lines = append(lines, "")
			lines = append(lines, wrapText(captionText(item, kind, n), rasterTextWrap)...)
			blocks = append(blocks, block{lines: lines})
			continue
		}

		// Neither raster nor grid: degrade to the caption text alone rather
		// than failing the whole render.
		blocks = append(blocks, block{lines: wrapText(captionText(item, kind, n), rasterTextWrap)})
	}

	return blocks
}

// wrapText splits text into lines no longer than width characters,
// breaking on spaces.
func wrapText(text string, width int) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			if len(line)+1+len(word) > width {
				lines = append(lines, line)
				line = word
				continue
			}
			line += " " + word
		}
		lines = append(lines, line)
	}
	return lines
}
