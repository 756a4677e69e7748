package extract

import (
	"bytes"
	"errors"
	"testing"

	"github.com/tsawler/refigure/model"
	"github.com/tsawler/refigure/source"
)

// fakeDoc is an in-memory source.Document.
type fakeDoc struct {
	pages     int
	images    map[int][]model.ImagePrimitive
	blocks    map[int][]model.TextBlock
	raster    []byte
	rasterErr error

	rasterCalls []model.Rect
}

func (d *fakeDoc) PageCount() int { return d.pages }

func (d *fakeDoc) ImagePrimitives(page int) ([]model.ImagePrimitive, error) {
	return d.images[page], nil
}

func (d *fakeDoc) TextBlocks(page int) ([]model.TextBlock, error) {
	return d.blocks[page], nil
}

func (d *fakeDoc) RasterizeRegion(page int, r model.Rect, scale float64) ([]byte, error) {
	d.rasterCalls = append(d.rasterCalls, r)
	if d.rasterErr != nil {
		return nil, d.rasterErr
	}
	return d.raster, nil
}

func (d *fakeDoc) Close() error { return nil }

func imageOn(page int, rect model.Rect, payload string) model.ImagePrimitive {
	return model.NewImagePrimitive(page, rect, []byte(payload), "png")
}

func textOn(page int, rect model.Rect, text string) model.TextBlock {
	return model.TextBlock{Page: page, Rect: rect, Text: text}
}

func detectorOf(tables ...model.TablePrimitive) source.TableDetector {
	return source.TableDetectorFunc(func(source.Document) ([]model.TablePrimitive, error) {
		return tables, nil
	})
}

func TestExtractFigureWithComposite(t *testing.T) {
	primRect := model.Rect{X0: 50, Y0: 100, X1: 250, Y1: 300}
	capRect := model.Rect{X0: 50, Y0: 305, X1: 250, Y1: 320}
	doc := &fakeDoc{
		pages:  1,
		images: map[int][]model.ImagePrimitive{1: {imageOn(1, primRect, "img-a")}},
		blocks: map[int][]model.TextBlock{1: {
			textOn(1, capRect, "Figure 1: Sample diagram"),
			textOn(1, model.Rect{X0: 50, Y0: 330, X1: 250, Y1: 345}, "A short description."),
		}},
		raster: []byte("composite-bytes"),
	}

	items, warnings, err := New(DefaultConfig()).ExtractDocument(0, doc, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}

	item := items[0]
	if item.Kind != model.ItemFigure {
		t.Errorf("Kind = %v", item.Kind)
	}
	if item.Caption != "Figure 1: Sample diagram" {
		t.Errorf("Caption = %q", item.Caption)
	}
	if item.Description != "A short description." {
		t.Errorf("Description = %q", item.Description)
	}
	if !item.RasterIsComposite || !bytes.Equal(item.Raster, doc.raster) {
		t.Error("item must carry the composite snapshot")
	}
	if item.CompositeRect == nil {
		t.Fatal("composite rect missing")
	}
	if !item.CompositeRect.Contains(primRect) || !item.CompositeRect.Contains(capRect) {
		t.Errorf("composite rect %+v must cover primitive and caption", *item.CompositeRect)
	}
	if item.YHint != item.CompositeRect.Y0 {
		t.Errorf("YHint = %v, want composite top %v", item.YHint, item.CompositeRect.Y0)
	}
}

func TestExtractFigureRasterFailureFallsBack(t *testing.T) {
	primRect := model.Rect{X0: 50, Y0: 100, X1: 250, Y1: 300}
	doc := &fakeDoc{
		pages:     1,
		images:    map[int][]model.ImagePrimitive{1: {imageOn(1, primRect, "img-a")}},
		blocks:    map[int][]model.TextBlock{1: {textOn(1, model.Rect{X0: 50, Y0: 305, X1: 250, Y1: 320}, "Figure 1")}},
		rasterErr: errors.New("no page surface"),
	}

	items, warnings, err := New(DefaultConfig()).ExtractDocument(0, doc, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
	item := items[0]
	if item.RasterIsComposite || item.CompositeRect != nil {
		t.Error("failed rasterization must leave the composite absent")
	}
	if !bytes.Equal(item.Raster, []byte("img-a")) {
		t.Error("item must fall back to the original image bytes")
	}
	if item.Caption != "Figure 1" {
		t.Errorf("caption must survive the fallback, got %q", item.Caption)
	}
	if item.YHint != primRect.Y0 {
		t.Errorf("YHint = %v, want primitive top %v", item.YHint, primRect.Y0)
	}
}

func TestExtractFigureWithoutCaption(t *testing.T) {
	doc := &fakeDoc{
		pages:  1,
		images: map[int][]model.ImagePrimitive{1: {imageOn(1, model.Rect{X0: 50, Y0: 100, X1: 250, Y1: 300}, "img-a")}},
		raster: []byte("unused"),
	}

	items, _, err := New(DefaultConfig()).ExtractDocument(0, doc, nil)
	if err != nil {
		t.Fatal(err)
	}
	item := items[0]
	if item.Caption != "" || item.RasterIsComposite {
		t.Error("uncaptioned figure must carry only the original image")
	}
	if len(doc.rasterCalls) != 0 {
		t.Error("no composite must be requested without a caption")
	}
}

func TestExtractDeduplicatesWithinDocument(t *testing.T) {
	rect := model.Rect{X0: 50, Y0: 100, X1: 250, Y1: 300}
	doc := &fakeDoc{
		pages: 2,
		images: map[int][]model.ImagePrimitive{
			1: {imageOn(1, rect, "same-bytes")},
			2: {imageOn(2, rect, "same-bytes")},
		},
	}

	items, _, err := New(DefaultConfig()).ExtractDocument(0, doc, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1 (repeated image collapses)", len(items))
	}
	if items[0].Page != 1 {
		t.Errorf("surviving item on page %d, want first occurrence", items[0].Page)
	}
}

func TestExtractTableRasterized(t *testing.T) {
	tableRect := model.Rect{X0: 50, Y0: 400, X1: 400, Y1: 500}
	capRect := model.Rect{X0: 50, Y0: 370, X1: 400, Y1: 385}
	doc := &fakeDoc{
		pages:  1,
		blocks: map[int][]model.TextBlock{1: {textOn(1, capRect, "Table 1: Results")}},
		raster: []byte("table-raster"),
	}
	detector := detectorOf(model.TablePrimitive{
		Page: 1,
		Rect: tableRect,
		Grid: [][]string{{"metric", "value"}, {"latency", "12ms"}},
	})

	items, warnings, err := New(DefaultConfig()).ExtractDocument(0, doc, detector)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}

	item := items[0]
	if item.Kind != model.ItemTable {
		t.Errorf("Kind = %v", item.Kind)
	}
	if item.Grid != nil {
		t.Error("rasterized table must not also carry the grid")
	}
	if !bytes.Equal(item.Raster, []byte("table-raster")) {
		t.Error("item must carry the rasterized region")
	}
	if item.Caption != "Table 1: Results" {
		t.Errorf("Caption = %q", item.Caption)
	}
	// Composite region extends above the caption top, so the hint follows it.
	if item.YHint > capRect.Y0 {
		t.Errorf("YHint = %v, want at most caption top %v", item.YHint, capRect.Y0)
	}
}

func TestExtractTableStructuredFallback(t *testing.T) {
	grid := [][]string{{"a", "b"}, {"1", "2"}}
	doc := &fakeDoc{
		pages:     1,
		rasterErr: errors.New("no page surface"),
	}
	detector := detectorOf(model.TablePrimitive{Page: 1, Rect: model.Rect{X0: 50, Y0: 400, X1: 400, Y1: 500}, Grid: grid})

	items, warnings, err := New(DefaultConfig()).ExtractDocument(0, doc, detector)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
	item := items[0]
	if item.Raster != nil {
		t.Error("failed rasterization must not leave raster bytes")
	}
	if len(item.Grid) != 2 {
		t.Error("item must fall back to the structured grid")
	}
}

func TestExtractTableSkipsRasterWhenPolicyAllows(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ForceRasterizeAllTables = false

	grid := [][]string{{"a", "b"}, {"1", "2"}}
	doc := &fakeDoc{pages: 1, raster: []byte("unused")}
	detector := detectorOf(model.TablePrimitive{Page: 1, Rect: model.Rect{X0: 50, Y0: 400, X1: 400, Y1: 500}, Grid: grid})

	items, _, err := New(cfg).ExtractDocument(0, doc, detector)
	if err != nil {
		t.Fatal(err)
	}
	if items[0].Raster != nil || items[0].Grid == nil {
		t.Error("table without embedded images must stay structured")
	}
	if len(doc.rasterCalls) != 0 {
		t.Error("no rasterization must be requested")
	}
}

func TestExtractRejectsLowQualityTables(t *testing.T) {
	doc := &fakeDoc{pages: 1, raster: []byte("unused")}
	detector := detectorOf(
		model.TablePrimitive{Page: 1, Grid: [][]string{{"only", "one", "row"}}},
		model.TablePrimitive{Page: 1, Grid: [][]string{{"", ""}, {"", ""}, {"", ""}}},
	)

	items, warnings, err := New(DefaultConfig()).ExtractDocument(0, doc, detector)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Errorf("got %d items, want 0 (low-quality tables dropped silently)", len(items))
	}
	if len(warnings) != 0 {
		t.Errorf("quality rejection must not warn, got %v", warnings)
	}
}

func TestExtractDetectorFailureDegradesToImagesOnly(t *testing.T) {
	doc := &fakeDoc{
		pages:  1,
		images: map[int][]model.ImagePrimitive{1: {imageOn(1, model.Rect{X0: 50, Y0: 100, X1: 250, Y1: 300}, "img-a")}},
	}
	detector := source.TableDetectorFunc(func(source.Document) ([]model.TablePrimitive, error) {
		return nil, errors.New("detector crashed")
	})

	items, warnings, err := New(DefaultConfig()).ExtractDocument(0, doc, detector)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Kind != model.ItemFigure {
		t.Fatalf("images must still be extracted, got %d items", len(items))
	}
	if len(warnings) != 1 {
		t.Errorf("detector failure must produce one warning, got %d", len(warnings))
	}
}

func TestExtractEmptyDocument(t *testing.T) {
	if _, _, err := New(DefaultConfig()).ExtractDocument(0, &fakeDoc{pages: 0}, nil); err == nil {
		t.Error("a document with no pages is an error")
	}
}
