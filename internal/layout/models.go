// Package layout parses layout-analyzer JSON (the MinerU-style pdf_info
// shape) into an in-memory page/block model. It is a pure function:
// no I/O beyond reading the bytes it is handed.
package layout

// BlockKind enumerates the recognized block types in layout-analyzer output.
type BlockKind string

const (
	KindTitle  BlockKind = "title"
	KindText   BlockKind = "text"
	KindTable  BlockKind = "table"
	KindFigure BlockKind = "figure"
)

// Block is one layout element on a page.
type Block struct {
	Kind  BlockKind
	BBox  [4]float64
	Text  string
	Level int
}

// Page is one page of the layout document, 0-indexed internally.
type Page struct {
	PageIndex int
	Blocks    []Block
}

// Document is the full parsed layout document, immutable after construction.
type Document struct {
	TotalPages int
	Pages      []Page
}
