package model

// ItemKind identifies the kind of a layout item.
type ItemKind int

const (
	ItemFigure ItemKind = iota
	ItemTable
)

func (k ItemKind) String() string {
	switch k {
	case ItemFigure:
		return "Figure"
	case ItemTable:
		return "Table"
	default:
		return "Unknown"
	}
}

// CaptionMatch is the result of associating a primitive with nearby text:
// a caption block and, when adjacent lines qualified, a merged description.
type CaptionMatch struct {
	Caption         string
	CaptionRect     Rect
	Description     string
	DescriptionRect Rect
	HasDescription  bool
}

// LayoutItem is the finalized, caption-associated unit handed to a renderer.
// Figure items always carry image bytes in Raster (the composite snapshot
// when one could be produced, otherwise the original image). Table items
// carry exactly one of Raster or Grid.
type LayoutItem struct {
	Kind     ItemKind
	DocIndex int // index of the source document within the batch
	Page     int // page number local to the source document
	YHint    float64

	// CompositeRect is the padded union of the primitive and its caption
	// and description rectangles, when a composite was assembled.
	CompositeRect *Rect

	Raster            []byte
	RasterIsComposite bool // true when Raster already includes caption text
	Grid              [][]string

	// ContentHash carries the source image's content digest for figure
	// items so batch-level merging can deduplicate across documents.
	ContentHash string

	Caption     string
	Description string
}

// SortKey reports the ordering key for the layout sequencer.
func (it LayoutItem) SortKey() (doc int, page int, y float64) {
	return it.DocIndex, it.Page, it.YHint
}
