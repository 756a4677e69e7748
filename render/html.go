package render

import (
	"encoding/base64"
	"fmt"
	"html"
	"strings"

	"github.com/tsawler/refigure/imaging"
	"github.com/tsawler/refigure/model"
	"github.com/tsawler/refigure/sequence"
)

// HTMLRenderer renders entries into a standalone HTML document with
// embedded images. Tables kept in structured form become styled <table>
// elements: grey bold header row, centered cells, full grid.
type HTMLRenderer struct {
	// Title is the document title. Empty means a generic one.
	Title string
}

// NewHTMLRenderer creates an HTML renderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

// ContentType implements Renderer.
func (r *HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }

const htmlStyle = `body{font-family:Helvetica,Arial,sans-serif;max-width:680px;margin:24px auto;color:#111}
figure{margin:24px 0;text-align:center}
figure img{max-width:100%}
figcaption{margin-top:6px;font-size:0.9em;text-align:left}
table{border-collapse:collapse;margin:24px auto;font-size:8pt}
td,th{border:0.5px solid #000;padding:3px 6px;text-align:center}
th{background:#808080;color:#f5f5f5;font-weight:bold}
.page-break{border:none;border-top:1px dashed #bbb;margin:32px 0;page-break-after:always}`

// Render implements Renderer.
func (r *HTMLRenderer) Render(entries []sequence.Entry) ([]byte, error) {
	title := r.Title
	if title == "" {
		title = "Extracted figures and tables"
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n<style>%s</style>\n</head>\n<body>\n", html.EscapeString(title), htmlStyle)

	figureCount := 0
	tableCount := 0

	for _, entry := range entries {
		if entry.PageBreak {
			sb.WriteString("<hr class=\"page-break\">\n")
			continue
		}
		item := entry.Item
		switch item.Kind {
		case model.ItemFigure:
			figureCount++
			r.writeFigure(&sb, item, "Figure", figureCount)
		case model.ItemTable:
			tableCount++
			if item.Grid != nil {
				r.writeGrid(&sb, item, tableCount)
			} else {
				r.writeFigure(&sb, item, "Table", tableCount)
			}
		}
	}

	sb.WriteString("</body>\n</html>\n")
	return []byte(sb.String()), nil
}

// writeFigure emits one image entry. Composite snapshots already include
// the caption text inside the image; plain images get a caption block.
func (r *HTMLRenderer) writeFigure(sb *strings.Builder, item model.LayoutItem, kind string, n int) {
	sb.WriteString("<figure>\n")

	data, err := imaging.ToPNG(item.Raster)
	if err == nil {
		w, h := fittedSize(data)
		fmt.Fprintf(sb, "<img src=\"data:image/png;base64,%s\"%s alt=\"%s\">\n",
			base64.StdEncoding.EncodeToString(data), sizeAttrs(w, h), html.EscapeString(kind))
	}
	// On decode failure the caption text below still carries the content.

	if !item.RasterIsComposite || err != nil {
		sb.WriteString("<figcaption>")
		sb.WriteString(html.EscapeString(captionText(item, kind, n)))
		sb.WriteString("</figcaption>\n")
	}
	sb.WriteString("</figure>\n")
}

// writeGrid emits a structured table with its caption block.
func (r *HTMLRenderer) writeGrid(sb *strings.Builder, item model.LayoutItem, n int) {
	sb.WriteString("<table>\n")
	for i, row := range item.Grid {
		tag := "td"
		if i == 0 {
			tag = "th"
		}
		sb.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(sb, "<%s>%s</%s>", tag, html.EscapeString(cell), tag)
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</table>\n<figure><figcaption>")
	sb.WriteString(html.EscapeString(captionText(item, "Table", n)))
	sb.WriteString("</figcaption></figure>\n")
}

// captionText joins caption and description, falling back to a generated
// default when the item carries neither.
func captionText(item model.LayoutItem, kind string, n int) string {
	var parts []string
	if item.Caption != "" {
		parts = append(parts, item.Caption)
	}
	if item.Description != "" {
		parts = append(parts, item.Description)
	}
	if len(parts) == 0 {
		return defaultCaption(kind, n, item.Page)
	}
	return strings.Join(parts, "\n\n")
}

// fittedSize probes encoded PNG bytes and scales the dimensions to the
// content box. Returns zeros when the header cannot be read.
func fittedSize(data []byte) (int, int) {
	info, err := imaging.Probe(data)
	if err != nil {
		return 0, 0
	}
	scale := imaging.FitScale(float64(info.Width), float64(info.Height), MaxContentWidth, MaxContentHeight)
	return int(float64(info.Width) * scale), int(float64(info.Height) * scale)
}

func sizeAttrs(w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	return fmt.Sprintf(" width=\"%d\" height=\"%d\"", w, h)
}
