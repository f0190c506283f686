package layout

import (
	"encoding/json"
	"strings"

	"github.com/spherical-ai/fdd-pipeline/internal/domainerr"
)

type rawDocument struct {
	PdfInfo []rawPage `json:"pdf_info"`
}

type rawPage struct {
	PageIdx    *int       `json:"page_idx"`
	ParaBlocks []rawBlock `json:"para_blocks"`
}

type rawBlock struct {
	Type   string    `json:"type"`
	BBox   []float64 `json:"bbox"`
	Lines  []rawLine `json:"lines"`
	Blocks []rawBlock `json:"blocks,omitempty"`
	Level  int       `json:"level,omitempty"`
}

type rawLine struct {
	Spans []rawSpan `json:"spans"`
}

type rawSpan struct {
	Content string `json:"content"`
	Type    string `json:"type,omitempty"`
}

// Parse decodes layout-analyzer JSON into a Document.
//
// It fails with domainerr.InvalidLayoutInput if the top-level pdf_info
// key is missing or any page lacks page_idx. Blocks whose concatenated
// text is empty after trimming are skipped; reading order within a page
// follows the source's para_blocks order.
func Parse(data []byte) (*Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, domainerr.NewInvalidLayoutInput("malformed layout JSON", err)
	}
	if raw.PdfInfo == nil {
		return nil, domainerr.NewInvalidLayoutInput("missing pdf_info array", nil)
	}

	doc := &Document{Pages: make([]Page, 0, len(raw.PdfInfo))}
	for _, rp := range raw.PdfInfo {
		if rp.PageIdx == nil {
			return nil, domainerr.NewInvalidLayoutInput("page missing page_idx", nil)
		}
		page := Page{PageIndex: *rp.PageIdx}
		for _, rb := range rp.ParaBlocks {
			blocks := flattenBlock(rb)
			page.Blocks = append(page.Blocks, blocks...)
		}
		doc.Pages = append(doc.Pages, page)
	}
	doc.TotalPages = len(doc.Pages)
	return doc, nil
}

// flattenBlock converts one raw block (and any nested blocks) into zero or
// more Blocks, skipping empty text. Nested blocks contribute their own
// entries rather than being merged into the parent's text, preserving
// reading order as emitted by the source.
func flattenBlock(rb rawBlock) []Block {
	text := extractText(rb)
	var out []Block
	if strings.TrimSpace(text) != "" {
		out = append(out, Block{
			Kind:  normalizeKind(rb.Type),
			BBox:  toBBox(rb.BBox),
			Text:  text,
			Level: rb.Level,
		})
	}
	for _, nested := range rb.Blocks {
		out = append(out, flattenBlock(nested)...)
	}
	return out
}

// extractText joins a block's own span contents in reading order. Nested
// blocks are excluded here; they are emitted as separate Blocks by
// flattenBlock so each retains its own Kind.
func extractText(rb rawBlock) string {
	var sb strings.Builder
	for _, line := range rb.Lines {
		for _, span := range line.Spans {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(span.Content)
		}
	}
	return strings.TrimSpace(sb.String())
}

func normalizeKind(t string) BlockKind {
	switch strings.ToLower(t) {
	case "title":
		return KindTitle
	case "table":
		return KindTable
	case "figure", "image":
		return KindFigure
	default:
		return KindText
	}
}

func toBBox(v []float64) [4]float64 {
	var b [4]float64
	for i := 0; i < 4 && i < len(v); i++ {
		b[i] = v[i]
	}
	return b
}
