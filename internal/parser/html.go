package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Elements whose text is never prose.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"textarea": true,
	"input":    true,
	"code":     true,
	"pre":      true,
}

// SkipElement reports whether text inside an element with this tag is
// excluded from scanning
func SkipElement(tag string) bool {
	return skippedElements[strings.ToLower(tag)]
}

var blockElements = map[string]BlockKind{
	"p":          BlockParagraph,
	"h1":         BlockHeading,
	"h2":         BlockHeading,
	"h3":         BlockHeading,
	"h4":         BlockHeading,
	"h5":         BlockHeading,
	"h6":         BlockHeading,
	"li":         BlockListItem,
	"dt":         BlockListItem,
	"dd":         BlockListItem,
	"blockquote": BlockQuote,
	"div":        BlockText,
	"section":    BlockText,
	"article":    BlockText,
	"main":       BlockText,
	"header":     BlockText,
	"footer":     BlockText,
	"aside":      BlockText,
	"nav":        BlockText,
	"figcaption": BlockText,
	"caption":    BlockText,
	"td":         BlockText,
	"th":         BlockText,
	"ul":         BlockText,
	"ol":         BlockText,
	"table":      BlockText,
	"tr":         BlockText,
	"br":         BlockText,
	"hr":         BlockText,
}

// HTMLParser extracts visible prose from HTML documents.
type HTMLParser struct{}

// Parse collects text nodes outside skipped elements, grouped by their
// nearest block-level element
func (p *HTMLParser) Parse(path string, content []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	w := &htmlWalker{kind: BlockText}
	for _, n := range doc.Find("body").Nodes {
		w.walk(n)
	}
	w.flush()

	return &Document{
		Path:     path,
		FileType: FileTypeHTML,
		Title:    normalizeSpace(doc.Find("title").First().Text()),
		Blocks:   w.blocks,
	}, nil
}

type htmlWalker struct {
	blocks []Block
	buf    strings.Builder
	kind   BlockKind
}

func (w *htmlWalker) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.buf.WriteString(n.Data)
		return
	case html.ElementNode:
		if SkipElement(n.Data) {
			return
		}
		if kind, ok := blockElements[n.Data]; ok {
			w.flush()
			prev := w.kind
			if kind != BlockText {
				w.kind = kind
			}
			w.children(n)
			w.flush()
			w.kind = prev
			return
		}
	}
	w.children(n)
}

func (w *htmlWalker) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func (w *htmlWalker) flush() {
	t := normalizeSpace(w.buf.String())
	w.buf.Reset()
	if t == "" {
		return
	}
	w.blocks = append(w.blocks, Block{Kind: w.kind, Text: t})
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
