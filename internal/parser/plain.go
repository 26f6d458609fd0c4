package parser

import (
	"strings"
)

// PlainParser splits plain text into paragraphs at blank lines
type PlainParser struct{}

// Parse parses a plain text file
func (p *PlainParser) Parse(path string, content []byte) (*Document, error) {
	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")

	doc := &Document{Path: path, FileType: FileTypePlain}
	var para []string
	start := 0
	flush := func() {
		if len(para) == 0 {
			return
		}
		doc.Blocks = append(doc.Blocks, Block{
			Kind: BlockParagraph,
			Text: strings.Join(para, "\n"),
			Line: start,
		})
		para = nil
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if len(para) == 0 {
			start = i + 1
		}
		para = append(para, strings.TrimRight(line, " \t"))
	}
	flush()

	return doc, nil
}
