package segment

import (
	"strings"

	"github.com/gen2brain/go-fitz"
)

// ExtractText concatenates the extractable text of every page in a
// section's PDF bytes, for handing to the extraction engine as section
// content. Unlike Validate, which samples only the first page, this
// reads the whole section.
func ExtractText(pdfBytes []byte) (string, error) {
	doc, err := fitz.NewFromMemory(pdfBytes)
	if err != nil {
		return "", err
	}
	defer doc.Close()

	var b strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(text)
	}
	return strings.TrimSpace(b.String()), nil
}
