package render

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/tsawler/refigure/model"
	"github.com/tsawler/refigure/sequence"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func renderHTML(t *testing.T, entries []sequence.Entry) string {
	t.Helper()
	out, err := NewHTMLRenderer().Render(entries)
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

func TestHTMLRendererDefaultCaptions(t *testing.T) {
	entries := []sequence.Entry{
		{Item: model.LayoutItem{Kind: model.ItemFigure, Page: 1, Raster: testPNG(t, 10, 10)}},
		{Item: model.LayoutItem{Kind: model.ItemFigure, Page: 3, Raster: testPNG(t, 10, 10)}},
		{Item: model.LayoutItem{Kind: model.ItemTable, Page: 3, Grid: [][]string{{"a"}, {"b"}}}},
	}

	out := renderHTML(t, entries)
	for _, want := range []string{"Figure 1 (Page 1)", "Figure 2 (Page 3)", "Table 1 (Page 3)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing default caption %q", want)
		}
	}
}

func TestHTMLRendererCompositeSkipsCaptionBlock(t *testing.T) {
	entries := []sequence.Entry{
		{Item: model.LayoutItem{
			Kind:              model.ItemFigure,
			Page:              1,
			Raster:            testPNG(t, 10, 10),
			RasterIsComposite: true,
			Caption:           "Figure 1: already inside the image",
		}},
	}

	out := renderHTML(t, entries)
	if strings.Contains(out, "<figcaption>") {
		t.Error("composite snapshot must not repeat the caption as text")
	}
	if !strings.Contains(out, "data:image/png;base64,") {
		t.Error("image must be embedded inline")
	}
}

func TestHTMLRendererCaptionAndDescription(t *testing.T) {
	entries := []sequence.Entry{
		{Item: model.LayoutItem{
			Kind:        model.ItemFigure,
			Page:        2,
			Raster:      testPNG(t, 10, 10),
			Caption:     "Figure 4: Throughput",
			Description: "Measured under sustained load.",
		}},
	}

	out := renderHTML(t, entries)
	if !strings.Contains(out, "Figure 4: Throughput") {
		t.Error("caption missing")
	}
	if !strings.Contains(out, "Measured under sustained load.") {
		t.Error("description missing")
	}
	if strings.Contains(out, "Figure 1 (Page 2)") {
		t.Error("default caption must not appear when a real one exists")
	}
}

func TestHTMLRendererStructuredTable(t *testing.T) {
	entries := []sequence.Entry{
		{Item: model.LayoutItem{
			Kind:    model.ItemTable,
			Page:    1,
			Grid:    [][]string{{"metric", "value"}, {"latency", "<12ms>"}},
			Caption: "Table 1: Results",
		}},
	}

	out := renderHTML(t, entries)
	if !strings.Contains(out, "<th>metric</th><th>value</th>") {
		t.Error("first row must render as header cells")
	}
	if !strings.Contains(out, "<td>latency</td>") {
		t.Error("data rows must render as td cells")
	}
	if !strings.Contains(out, "&lt;12ms&gt;") {
		t.Error("cell content must be escaped")
	}
	if !strings.Contains(out, "background:#808080") {
		t.Error("header styling missing")
	}
}

func TestHTMLRendererPageBreaks(t *testing.T) {
	entries := []sequence.Entry{
		{Item: model.LayoutItem{Kind: model.ItemFigure, Page: 1, Raster: testPNG(t, 10, 10)}},
		{PageBreak: true},
		{Item: model.LayoutItem{Kind: model.ItemFigure, Page: 2, Raster: testPNG(t, 10, 10)}},
	}

	out := renderHTML(t, entries)
	if strings.Count(out, `<hr class="page-break">`) != 1 {
		t.Error("expected exactly one page break")
	}
}

func TestHTMLRendererScalesOversizedImages(t *testing.T) {
	entries := []sequence.Entry{
		{Item: model.LayoutItem{Kind: model.ItemFigure, Page: 1, Raster: testPNG(t, 900, 600)}},
	}

	out := renderHTML(t, entries)
	if !strings.Contains(out, `width="450" height="300"`) {
		t.Error("oversized image must be scaled to the content box")
	}
}
