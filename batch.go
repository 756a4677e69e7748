package refigure

import (
	"fmt"
	"sync"

	"github.com/tsawler/refigure/extract"
	"github.com/tsawler/refigure/model"
	"github.com/tsawler/refigure/render"
	"github.com/tsawler/refigure/sequence"
	"github.com/tsawler/refigure/source"
)

// Batch is the request-scoped pipeline context. It owns the cross-document
// content-hash set, which lives for exactly one Process call. Rasters are
// carried as byte slices from extraction to rendering, so a batch leaves no
// files behind. Configuration methods return a new Batch, so a configured
// Batch is safe to share as a template.
type Batch struct {
	opener   source.Opener
	detector source.TableDetector
	options  Options
}

// NewBatch creates a batch bound to a structural parser and table detector.
// The detector may be nil, in which case documents contribute no tables.
func NewBatch(opener source.Opener, detector source.TableDetector) *Batch {
	return &Batch{
		opener:   opener,
		detector: detector,
		options:  defaultOptions(),
	}
}

// clone copies the batch with cloned options.
func (b *Batch) clone() *Batch {
	return &Batch{
		opener:   b.opener,
		detector: b.detector,
		options:  b.options.clone(),
	}
}

// ForceRasterizeAllTables sets the global table rasterization policy. On
// (the default) guarantees that diagrams embedded inside tables survive;
// off renders tables as structured grids unless an embedded image is
// detected.
func (b *Batch) ForceRasterizeAllTables(force bool) *Batch {
	nb := b.clone()
	nb.options.extraction.ForceRasterizeAllTables = force
	return nb
}

// Renderer replaces the output renderer.
func (b *Batch) Renderer(r render.Renderer) *Batch {
	nb := b.clone()
	nb.options.renderer = r
	return nb
}

// Workers enables document-level parallel extraction with up to n workers.
// Each document's extraction is independent; the content-hash set and the
// final ordering are merged after all per-document work completes, never
// mutated concurrently.
func (b *Batch) Workers(n int) *Batch {
	nb := b.clone()
	if n < 1 {
		n = 1
	}
	nb.options.workers = n
	return nb
}

// docResult is one document's extraction output, merged in input order.
type docResult struct {
	items    []model.LayoutItem
	warnings []Warning
	err      error
}

// Items extracts, deduplicates, and sequences the batch without rendering.
// Returns ErrNoContent when the whole batch yields nothing.
func (b *Batch) Items(docs ...[]byte) ([]sequence.Entry, []Warning, error) {
	items, warnings, err := b.extractAll(docs)
	if err != nil {
		return nil, warnings, err
	}
	if len(items) == 0 {
		return nil, warnings, ErrNoContent
	}
	return sequence.Sequence(items), warnings, nil
}

// Process runs the full pipeline over one or more documents and returns
// the rendered output.
func (b *Batch) Process(docs ...[]byte) ([]byte, []Warning, error) {
	entries, warnings, err := b.Items(docs...)
	if err != nil {
		return nil, warnings, err
	}

	out, err := b.options.renderer.Render(entries)
	if err != nil {
		return nil, warnings, fmt.Errorf("rendering: %w", err)
	}
	return out, warnings, nil
}

// extractAll runs per-document extraction (optionally in parallel) and
// merges the results in input order, applying cross-document image
// deduplication post-hoc.
func (b *Batch) extractAll(docs [][]byte) ([]model.LayoutItem, []Warning, error) {
	extractor := extract.New(b.options.extraction)
	results := make([]docResult, len(docs))

	processDoc := func(i int) {
		doc, err := b.opener.Open(docs[i])
		if err != nil {
			results[i].err = fmt.Errorf("document %d: %w", i, err)
			return
		}
		defer doc.Close()

		items, warnings, err := extractor.ExtractDocument(i, doc, b.detector)
		results[i] = docResult{items: items, warnings: warnings, err: err}
	}

	if b.options.workers > 1 && len(docs) > 1 {
		var wg sync.WaitGroup
		sem := make(chan struct{}, b.options.workers)
		for i := range docs {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int) {
				defer wg.Done()
				defer func() { <-sem }()
				processDoc(i)
			}(i)
		}
		wg.Wait()
	} else {
		for i := range docs {
			processDoc(i)
		}
	}

	// Merge in input order; first occurrence of an image hash wins across
	// the whole batch.
	dedup := extract.NewDeduplicator()
	var items []model.LayoutItem
	var warnings []Warning
	for _, res := range results {
		if res.err != nil {
			return nil, warnings, res.err
		}
		warnings = append(warnings, res.warnings...)
		for _, item := range res.items {
			if item.Kind == model.ItemFigure && item.ContentHash != "" && !dedup.Admit(item.ContentHash) {
				continue
			}
			items = append(items, item)
		}
	}
	return items, warnings, nil
}
