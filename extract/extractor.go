package extract

import (
	"fmt"

	"github.com/tsawler/refigure/captions"
	"github.com/tsawler/refigure/model"
	"github.com/tsawler/refigure/source"
)

// Config holds the thresholds and policy flags for one extraction pass.
type Config struct {
	// ForceRasterizeAllTables flattens every table to an image. This is
	// the default policy: a structured re-typeset of a table that itself
	// contains an embedded diagram would lose that diagram.
	ForceRasterizeAllTables bool

	// CompositePadding is the padding around composite snapshot regions.
	CompositePadding float64

	// RasterScale is the zoom factor for rasterized snapshots.
	RasterScale float64

	// Table quality thresholds.
	MinTableRows     int
	MinTableCols     int
	MinTableFillRate float64
}

// DefaultConfig returns the default extraction configuration.
func DefaultConfig() Config {
	return Config{
		ForceRasterizeAllTables: true,
		CompositePadding:        4,
		RasterScale:             2,
		MinTableRows:            2,
		MinTableCols:            2,
		MinTableFillRate:        0.15,
	}
}

// Extractor runs the per-document extraction pass. Each document is
// independent; a fresh Extractor (or at least a fresh call) per document is
// safe to run concurrently with others. Cross-document deduplication is the
// caller's responsibility, applied when results are merged.
type Extractor struct {
	config     Config
	matcher    *captions.Matcher
	merger     *captions.Merger
	compositor *Compositor
	quality    *QualityFilter
	policy     *RasterPolicy

	figurePattern *captions.Pattern
	tablePattern  *captions.Pattern
}

// New creates an extractor with the given configuration.
func New(config Config) *Extractor {
	compositor := NewCompositor()
	compositor.Padding = config.CompositePadding
	compositor.Scale = config.RasterScale

	quality := NewQualityFilter()
	quality.MinRows = config.MinTableRows
	quality.MinCols = config.MinTableCols
	quality.MinFillRatio = config.MinTableFillRate

	return &Extractor{
		config:        config,
		matcher:       captions.NewMatcher(),
		merger:        captions.NewMerger(),
		compositor:    compositor,
		quality:       quality,
		policy:        &RasterPolicy{ForceAll: config.ForceRasterizeAllTables},
		figurePattern: captions.FigurePattern(),
		tablePattern:  captions.TablePattern(),
	}
}

// pageData caches per-page parser output so the image and table passes
// share one set of collaborator calls.
type pageData struct {
	images []model.ImagePrimitive
	blocks []model.TextBlock
}

// ExtractDocument extracts figure and table layout items from one document.
// docIndex identifies the document within the batch and is stamped on every
// item and warning. Collaborator failures degrade the affected item and are
// reported as warnings; only a completely unreadable document is an error.
func (e *Extractor) ExtractDocument(docIndex int, doc source.Document, detector source.TableDetector) ([]model.LayoutItem, []Warning, error) {
	pageCount := doc.PageCount()
	if pageCount <= 0 {
		return nil, nil, fmt.Errorf("document %d has no pages", docIndex)
	}

	var warnings []Warning
	pages := make(map[int]*pageData, pageCount)

	loadPage := func(page int) *pageData {
		if pd, ok := pages[page]; ok {
			return pd
		}
		pd := &pageData{}
		images, err := doc.ImagePrimitives(page)
		if err != nil {
			warnings = append(warnings, Warning{docIndex, page, fmt.Sprintf("image extraction failed: %v", err)})
		} else {
			pd.images = images
		}
		blocks, err := doc.TextBlocks(page)
		if err != nil {
			warnings = append(warnings, Warning{docIndex, page, fmt.Sprintf("text extraction failed: %v", err)})
		} else {
			model.SortBlocks(blocks)
			pd.blocks = blocks
		}
		pages[page] = pd
		return pd
	}

	var items []model.LayoutItem

	// Image primitives, deduplicated within this document. Batch-level
	// merging deduplicates again across documents.
	dedup := NewDeduplicator()
	for page := 1; page <= pageCount; page++ {
		pd := loadPage(page)
		for _, prim := range pd.images {
			if !dedup.Admit(prim.ContentHash) {
				continue
			}
			item, w := e.extractFigure(docIndex, doc, prim, pd.blocks)
			warnings = append(warnings, w...)
			items = append(items, item)
		}
	}

	// Tables. A detector failing wholesale means this document contributes
	// zero tables; image extraction above already succeeded independently.
	if detector != nil {
		tables, err := detector.DetectTables(doc)
		if err != nil {
			warnings = append(warnings, Warning{docIndex, 0, fmt.Sprintf("table detection failed: %v", err)})
		} else {
			tdedup := newTableDeduplicator()
			for _, t := range tables {
				if !e.quality.Accept(t) {
					continue
				}
				if !tdedup.admit(t) {
					continue
				}
				pd := loadPage(t.Page)
				item, w := e.extractTable(docIndex, doc, t, pd)
				warnings = append(warnings, w...)
				items = append(items, item)
			}
		}
	}

	return items, warnings, nil
}

// extractFigure associates one image primitive with its caption and
// description and assembles the composite snapshot when possible.
func (e *Extractor) extractFigure(docIndex int, doc source.Document, prim model.ImagePrimitive, blocks []model.TextBlock) (model.LayoutItem, []Warning) {
	item := model.LayoutItem{
		Kind:        model.ItemFigure,
		DocIndex:    docIndex,
		Page:        prim.Page,
		YHint:       prim.Rect.Y0,
		Raster:      prim.Data,
		ContentHash: prim.ContentHash,
	}

	idx, ok := e.matcher.Match(prim.Rect, blocks, e.figurePattern)
	if !ok {
		return item, nil
	}

	match := e.merger.Merge(blocks, idx, e.figurePattern)
	item.Caption = match.Caption
	item.Description = match.Description

	region := e.compositor.Region(prim.Rect, match, true)
	snapshot, err := e.compositor.Snapshot(doc, prim.Page, region)
	if err != nil {
		// Non-fatal: keep the original image plus separate caption text.
		return item, []Warning{{docIndex, prim.Page, fmt.Sprintf("composite rasterization failed: %v", err)}}
	}

	item.Raster = snapshot
	item.RasterIsComposite = true
	item.CompositeRect = &region
	item.YHint = region.Y0
	return item, nil
}

// extractTable associates one surviving table with its caption and applies
// the rasterization policy.
func (e *Extractor) extractTable(docIndex int, doc source.Document, t model.TablePrimitive, pd *pageData) (model.LayoutItem, []Warning) {
	item := model.LayoutItem{
		Kind:     model.ItemTable,
		DocIndex: docIndex,
		Page:     t.Page,
		YHint:    t.Rect.Y0,
		Grid:     t.Grid,
	}

	var match model.CaptionMatch
	matched := false
	if idx, ok := e.matcher.Match(t.Rect, pd.blocks, e.tablePattern); ok {
		match = e.merger.Merge(pd.blocks, idx, e.tablePattern)
		matched = true
		item.Caption = match.Caption
		item.Description = match.Description
		item.YHint = match.CaptionRect.Y0
	}

	if !e.policy.ShouldRasterize(t, pd.images) {
		return item, nil
	}

	region := e.compositor.Region(t.Rect, match, matched)
	snapshot, err := e.compositor.Snapshot(doc, t.Page, region)
	if err != nil {
		// Fall back to the structured grid rather than dropping the table.
		return item, []Warning{{docIndex, t.Page, fmt.Sprintf("table rasterization failed: %v", err)}}
	}

	item.Raster = snapshot
	item.RasterIsComposite = matched
	item.Grid = nil
	item.CompositeRect = &region
	if region.Y0 < item.YHint {
		item.YHint = region.Y0
	}
	return item, nil
}
