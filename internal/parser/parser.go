// Package parser turns input files into prose blocks ready for scanning.
package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the prose extracted from one input.
type Document struct {
	Path        string
	FileType    FileType
	Title       string
	Frontmatter map[string]interface{} // YAML frontmatter from markdown files
	Blocks      []Block
}

// Text joins all blocks with blank lines
func (d *Document) Text() string {
	parts := make([]string, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		parts = append(parts, b.Text)
	}
	return strings.Join(parts, "\n\n")
}

// Block is one unit of prose: a paragraph, heading, list item or page.
// Line is 1-based and 0 when the source has no line information.
type Block struct {
	Kind BlockKind
	Text string
	Line int
	Page int
}

// BlockKind describes where a block came from.
type BlockKind int

const (
	BlockText BlockKind = iota
	BlockParagraph
	BlockHeading
	BlockListItem
	BlockQuote
	BlockPage
)

func (k BlockKind) String() string {
	switch k {
	case BlockParagraph:
		return "paragraph"
	case BlockHeading:
		return "heading"
	case BlockListItem:
		return "list-item"
	case BlockQuote:
		return "blockquote"
	case BlockPage:
		return "page"
	default:
		return "text"
	}
}

// FileType represents the kind of input file
type FileType int

const (
	FileTypePlain FileType = iota
	FileTypeMarkdown
	FileTypeHTML
	FileTypePDF
)

func (t FileType) String() string {
	switch t {
	case FileTypeMarkdown:
		return "markdown"
	case FileTypeHTML:
		return "html"
	case FileTypePDF:
		return "pdf"
	default:
		return "plain"
	}
}

// Parser defines the interface for extracting prose from a file
type Parser interface {
	Parse(path string, content []byte) (*Document, error)
}

// Parse reads path and parses it with the parser for its extension
func Parse(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseBytes(path, content)
}

// ParseBytes parses content that did not come from disk, such as stdin or a
// fetched page. name picks the parser the same way a path would.
func ParseBytes(name string, content []byte) (*Document, error) {
	doc, err := getParser(GetFileType(name)).Parse(name, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return doc, nil
}

// ParseAs parses content with an explicit file type
func ParseAs(name string, fileType FileType, content []byte) (*Document, error) {
	doc, err := getParser(fileType).Parse(name, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return doc, nil
}

func getParser(t FileType) Parser {
	switch t {
	case FileTypeMarkdown:
		return &MarkdownParser{}
	case FileTypeHTML:
		return &HTMLParser{}
	case FileTypePDF:
		return &PDFParser{}
	default:
		return &PlainParser{}
	}
}

// GetFileType returns the FileType for a given path
func GetFileType(path string) FileType {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".md", ".markdown", ".mdx":
		return FileTypeMarkdown
	case ".html", ".htm", ".xhtml":
		return FileTypeHTML
	case ".pdf":
		return FileTypePDF
	default:
		return FileTypePlain
	}
}

// ParseFrontmatter extracts YAML frontmatter from content between --- delimiters.
// Returns the parsed frontmatter, the remaining content, and the number of
// lines the frontmatter occupied.
func ParseFrontmatter(content []byte) (map[string]interface{}, []byte, int) {
	s := string(content)

	if !strings.HasPrefix(s, "---") {
		return nil, content, 0
	}

	rest := s[3:]
	endIdx := strings.Index(rest, "\n---")
	if endIdx == -1 {
		return nil, content, 0
	}

	var frontmatter map[string]interface{}
	if err := yaml.Unmarshal([]byte(strings.TrimSpace(rest[:endIdx])), &frontmatter); err != nil {
		return nil, content, 0
	}

	remaining := rest[endIdx+4:] // +4 for "\n---"
	if i := strings.Index(remaining, "\n"); i >= 0 && strings.TrimSpace(remaining[:i]) == "" {
		remaining = remaining[i+1:]
	} else if strings.TrimSpace(remaining) == "" {
		remaining = ""
	}

	consumed := len(s) - len(remaining)
	return frontmatter, []byte(remaining), strings.Count(s[:consumed], "\n")
}
