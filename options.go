package refigure

import (
	"github.com/tsawler/refigure/extract"
	"github.com/tsawler/refigure/render"
)

// Options holds batch-level configuration.
type Options struct {
	// extraction holds the per-document extraction thresholds.
	extraction extract.Config

	// renderer produces the final document. Defaults to the HTML renderer.
	renderer render.Renderer

	// workers bounds concurrent per-document extraction. 1 means
	// sequential processing.
	workers int
}

// defaultOptions returns the default batch options.
func defaultOptions() Options {
	return Options{
		extraction: extract.DefaultConfig(),
		renderer:   render.NewHTMLRenderer(),
		workers:    1,
	}
}

// clone creates a copy of Options so fluent configuration never mutates a
// shared batch.
func (o Options) clone() Options {
	return Options{
		extraction: o.extraction,
		renderer:   o.renderer,
		workers:    o.workers,
	}
}
