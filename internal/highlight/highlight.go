// Package highlight wraps rule matches inside an HTML document in
// annotated spans, and strips them again.
package highlight

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pthm/prosescan/internal/matcher"
	"github.com/pthm/prosescan/internal/parser"
)

const (
	highlightClass = "ai-detect-highlight"
	tooltipClass   = "ai-detect-tooltip"
	styleID        = "ai-detect-styles"
)

// DefaultLinkText labels the reference link inside each tooltip.
const DefaultLinkText = "Learn more on Wikipedia"

// Options controls the generated markup.
type Options struct {
	// ReferenceURL returns the documentation link for a rule; "" omits it.
	ReferenceURL func(*matcher.Rule) string
	LinkText     string
	// NoStyles skips injecting the stylesheet.
	NoStyles bool
}

// Result is the highlighted document and what was added to it.
type Result struct {
	HTML       string
	Total      int
	ByCategory map[matcher.Category]int
}

// Highlight scans every visible text node of src and wraps each match in a
// span carrying the rule's category and a tooltip. Text inside skipped
// elements or existing highlights is left alone, so running Highlight on
// its own output adds nothing. The returned HTML is a full document.
func Highlight(src string, rules []*matcher.Rule, opts Options) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse HTML: %w", err)
	}
	if opts.LinkText == "" {
		opts.LinkText = DefaultLinkText
	}

	var nodes []*html.Node
	for _, body := range doc.Find("body").Nodes {
		collectText(body, &nodes)
	}

	res := Result{ByCategory: make(map[matcher.Category]int)}
	for _, n := range nodes {
		matches := matcher.Scan(n.Data, rules)
		if len(matches) == 0 {
			continue
		}
		inLink := hasAncestor(n, atom.A)
		pos := 0
		for _, m := range matches {
			if m.Start > pos {
				n.Parent.InsertBefore(textNode(n.Data[pos:m.Start]), n)
			}
			n.Parent.InsertBefore(highlightNode(m, opts, inLink), n)
			res.ByCategory[m.Rule.Category]++
			res.Total++
			pos = m.End
		}
		if pos < len(n.Data) {
			n.Parent.InsertBefore(textNode(n.Data[pos:]), n)
		}
		n.Parent.RemoveChild(n)
	}

	if res.Total > 0 && !opts.NoStyles && doc.Find("style#"+styleID).Length() == 0 {
		doc.Find("head").AppendHtml(`<style id="` + styleID + `">` + stylesheet() + `</style>`)
	}

	out, err := doc.Html()
	if err != nil {
		return Result{}, fmt.Errorf("failed to render HTML: %w", err)
	}
	res.HTML = out
	return res, nil
}

// Remove replaces every highlight span with its original text and drops the
// injected stylesheet.
func Remove(src string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("span." + highlightClass).Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		if n.Parent == nil {
			return
		}
		original, ok := s.Attr("data-original-text")
		if !ok {
			original = s.Clone().Find("." + tooltipClass).Remove().End().Text()
		}
		n.Parent.InsertBefore(textNode(original), n)
		n.Parent.RemoveChild(n)
	})
	doc.Find("style#" + styleID).Remove()

	for _, n := range doc.Find("body").Nodes {
		mergeText(n)
	}

	return doc.Html()
}

func collectText(n *html.Node, out *[]*html.Node) {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) != "" {
			*out = append(*out, n)
		}
		return
	case html.ElementNode:
		if parser.SkipElement(n.Data) || hasClass(n, highlightClass) || hasClass(n, tooltipClass) {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, out)
	}
}

// mergeText joins adjacent text nodes left behind by Remove
func mergeText(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.TextNode && next != nil && next.Type == html.TextNode {
			c.Data += next.Data
			n.RemoveChild(next)
			continue
		}
		mergeText(c)
		c = next
	}
}

func highlightNode(m matcher.Match, opts Options, inLink bool) *html.Node {
	rule := m.Rule
	span := element(atom.Span,
		"class", highlightClass+" cat-"+string(rule.Category),
		"data-original-text", m.Text,
		"data-rule", rule.ID,
	)
	span.AppendChild(textNode(m.Text))

	tip := element(atom.Span, "class", tooltipClass)
	badge := element(atom.Span, "class", "ai-detect-badge badge-"+string(rule.Category))
	badge.AppendChild(textNode(string(rule.Category)))
	tip.AppendChild(badge)

	name := element(atom.Strong)
	name.AppendChild(textNode(rule.Name))
	tip.AppendChild(name)

	if rule.Description != "" {
		desc := element(atom.Span, "class", "ai-detect-desc")
		desc.AppendChild(textNode(rule.Description))
		tip.AppendChild(desc)
	}

	// Nested anchors are not valid HTML and would be split on re-parse.
	if opts.ReferenceURL != nil && !inLink {
		if href := opts.ReferenceURL(rule); href != "" {
			link := element(atom.A, "href", href, "target", "_blank", "rel", "noopener noreferrer")
			link.AppendChild(textNode(opts.LinkText))
			tip.AppendChild(link)
		}
	}

	span.AppendChild(tip)
	return span
}

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func hasAncestor(n *html.Node, a atom.Atom) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.DataAtom == a {
			return true
		}
	}
	return false
}

// Colors per category: translucent for the highlight, solid for the badge.
var (
	highlightColors = map[matcher.Category]string{
		matcher.CategoryContent:       "rgba(244, 67, 54, 0.3)",
		matcher.CategoryLanguage:      "rgba(255, 152, 0, 0.3)",
		matcher.CategoryStyle:         "rgba(156, 39, 176, 0.3)",
		matcher.CategoryCommunication: "rgba(33, 150, 243, 0.3)",
	}
	badgeColors = map[matcher.Category]string{
		matcher.CategoryContent:       "#f44336",
		matcher.CategoryLanguage:      "#ff9800",
		matcher.CategoryStyle:         "#9c27b0",
		matcher.CategoryCommunication: "#2196f3",
	}
)

func stylesheet() string {
	var b strings.Builder
	b.WriteString(`.ai-detect-highlight{position:relative;border-radius:2px;cursor:help}`)
	b.WriteString(`.ai-detect-tooltip{display:none;position:absolute;left:0;top:100%;z-index:2147483647;`)
	b.WriteString(`width:280px;padding:8px 10px;background:#222;color:#eee;font:13px/1.4 sans-serif;`)
	b.WriteString(`border-radius:4px;box-shadow:0 2px 8px rgba(0,0,0,.3)}`)
	b.WriteString(`.ai-detect-highlight:hover>.ai-detect-tooltip{display:block}`)
	b.WriteString(`.ai-detect-tooltip strong,.ai-detect-tooltip .ai-detect-desc,.ai-detect-tooltip a{display:block;margin-top:4px}`)
	b.WriteString(`.ai-detect-tooltip a{color:#8ab4f8}`)
	b.WriteString(`.ai-detect-badge{display:inline-block;padding:1px 6px;border-radius:3px;color:#fff;font-size:11px}`)

	for _, c := range matcher.Categories() {
		fmt.Fprintf(&b, ".cat-%s{background:%s}", c, highlightColors[c])
		fmt.Fprintf(&b, ".badge-%s{background:%s}", c, badgeColors[c])
	}
	return b.String()
}
