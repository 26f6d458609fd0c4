package parser

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser extracts prose from markdown. Code blocks, inline code and
// raw HTML are skipped.
type MarkdownParser struct{}

// Parse parses a markdown file into prose blocks
func (p *MarkdownParser) Parse(path string, content []byte) (*Document, error) {
	frontmatter, body, lineOffset := ParseFrontmatter(content)

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	doc := &Document{
		Path:        path,
		FileType:    FileTypeMarkdown,
		Frontmatter: frontmatter,
	}
	if title, ok := frontmatter["title"].(string); ok {
		doc.Title = title
	}

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		var kind BlockKind
		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		case *ast.Heading:
			kind = BlockHeading
			if doc.Title == "" && node.Level == 1 {
				doc.Title = plainText(node, body)
			}
		case *ast.Paragraph, *ast.TextBlock:
			kind = enclosingKind(n)
		default:
			return ast.WalkContinue, nil
		}

		t := plainText(n, body)
		if t == "" {
			return ast.WalkSkipChildren, nil
		}
		doc.Blocks = append(doc.Blocks, Block{
			Kind: kind,
			Text: t,
			Line: blockLine(n, body) + lineOffset,
		})
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// enclosingKind classifies a paragraph by its nearest list item or quote
func enclosingKind(n ast.Node) BlockKind {
	for p := n.Parent(); p != nil; p = p.Parent() {
		switch p.(type) {
		case *ast.ListItem:
			return BlockListItem
		case *ast.Blockquote:
			return BlockQuote
		}
	}
	return BlockParagraph
}

func blockLine(n ast.Node, source []byte) int {
	if n.Lines().Len() == 0 {
		return 0
	}
	seg := n.Lines().At(0)
	return bytes.Count(source[:seg.Start], []byte("\n")) + 1
}

// plainText flattens the inline children of n
func plainText(n ast.Node, source []byte) string {
	var b strings.Builder
	writeInline(&b, n, source)
	return strings.TrimSpace(b.String())
}

func writeInline(b *strings.Builder, n ast.Node, source []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(source))
			if node.HardLineBreak() {
				b.WriteByte('\n')
			} else if node.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.CodeSpan, *ast.RawHTML:
			continue
		case *ast.AutoLink:
			b.Write(node.Label(source))
		default:
			writeInline(b, c, source)
		}
	}
}
