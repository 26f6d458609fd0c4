package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFParser extracts plain text from PDF files, one block per page.
type PDFParser struct{}

// Parse reads every page that has extractable text. Pages that fail to
// decode are skipped; a PDF with no text at all is an error.
func (p *PDFParser) Parse(path string, content []byte) (*Document, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	doc := &Document{Path: path, FileType: FileTypePDF}
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			continue
		}
		text = normalizeLines(text)
		if text == "" {
			continue
		}
		doc.Blocks = append(doc.Blocks, Block{Kind: BlockPage, Text: text, Page: i})
	}

	if len(doc.Blocks) == 0 {
		return nil, fmt.Errorf("no extractable text found in pdf")
	}
	return doc, nil
}

// normalizeLines trims each line, collapses inner whitespace and drops
// empty lines
func normalizeLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = normalizeSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
