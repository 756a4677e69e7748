// Package sequence merges extracted figure and table items from all input
// documents into one globally ordered reading sequence.
package sequence

import (
	"sort"

	"github.com/tsawler/refigure/model"
)

// Entry is one element of the final sequence: either a layout item or a
// page-break marker preceding it.
type Entry struct {
	PageBreak bool
	Item      model.LayoutItem
}

// Order sorts items by (document, page, vertical hint) ascending, ties
// broken by stable input order. Page numbers are local to each source
// document, so a page break separates every page transition, including
// transitions across document boundaries. That is an accepted
// simplification: the output is not renumbered.
func Order(items []model.LayoutItem) []model.LayoutItem {
	ordered := make([]model.LayoutItem, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		di, pi, yi := ordered[i].SortKey()
		dj, pj, yj := ordered[j].SortKey()
		if di != dj {
			return di < dj
		}
		if pi != pj {
			return pi < pj
		}
		return yi < yj
	})
	return ordered
}

// Sequence orders items and inserts a page-break entry whenever the page
// (or source document) changes between consecutive items.
func Sequence(items []model.LayoutItem) []Entry {
	ordered := Order(items)
	entries := make([]Entry, 0, len(ordered)+8)

	havePrev := false
	prevDoc, prevPage := 0, 0
	for _, item := range ordered {
		if havePrev && (item.DocIndex != prevDoc || item.Page != prevPage) {
			entries = append(entries, Entry{PageBreak: true})
		}
		entries = append(entries, Entry{Item: item})
		prevDoc, prevPage = item.DocIndex, item.Page
		havePrev = true
	}
	return entries
}
