// Package analyzer runs the pattern matcher and readability scorer over
// parsed documents.
package analyzer

import (
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/pthm/prosescan/internal/matcher"
	"github.com/pthm/prosescan/internal/parser"
	"github.com/pthm/prosescan/internal/readability"
	"github.com/pthm/prosescan/internal/review"
)

// Finding is one rule match located in its source document.
// Start and End are byte offsets into the block text.
type Finding struct {
	RuleID   string           `json:"rule"`
	Name     string           `json:"name"`
	Category matcher.Category `json:"category"`
	Text     string           `json:"text"`
	Block    int              `json:"block"`
	Start    int              `json:"start"`
	End      int              `json:"end"`
	Line     int              `json:"line,omitempty"`
	Column   int              `json:"column"`
	Page     int              `json:"page,omitempty"`
}

// Report is the analysis of a single document.
type Report struct {
	Path           string                             `json:"path"`
	FileType       string                             `json:"file_type"`
	Title          string                             `json:"title,omitempty"`
	Findings       []Finding                          `json:"findings"`
	CategoryCounts map[matcher.Category]int           `json:"category_counts"`
	Metrics        readability.DocumentMetrics        `json:"metrics"`
	Verdicts       []readability.Verdict              `json:"verdicts"`
	Sentences      []readability.SentenceResult       `json:"sentences,omitempty"`
	TierCounts     map[readability.DifficultyTier]int `json:"tier_counts"`
	Review         *review.Verdict                    `json:"review,omitempty"`
}

// Options controls what AnalyzeDocument keeps.
type Options struct {
	// Sentences keeps the per-sentence results in the report. Tier counts
	// are computed either way.
	Sentences bool
}

// AnalyzeDocument scans each block of doc separately, so finding offsets
// stay relative to their block, and scores the joined text.
func AnalyzeDocument(doc *parser.Document, rules []*matcher.Rule, opts Options) *Report {
	r := &Report{
		Path:           doc.Path,
		FileType:       doc.FileType.String(),
		Title:          doc.Title,
		Findings:       make([]Finding, 0),
		CategoryCounts: make(map[matcher.Category]int),
	}

	var sentences []readability.SentenceResult
	for i, block := range doc.Blocks {
		for _, m := range matcher.Scan(block.Text, rules) {
			r.Findings = append(r.Findings, locate(i, block, m))
			r.CategoryCounts[m.Rule.Category]++
		}
		sentences = append(sentences, readability.AnalyzeSentences(block.Text)...)
	}

	r.Metrics = readability.ScoreText(doc.Text())
	r.Verdicts = readability.Verdicts(r.Metrics)
	r.TierCounts = readability.CountTiers(sentences)
	if opts.Sentences {
		r.Sentences = sentences
	}
	return r
}

// locate converts a block-relative match into a finding with a line and
// a 1-based rune column
func locate(index int, block parser.Block, m matcher.Match) Finding {
	f := Finding{
		RuleID:   m.Rule.ID,
		Name:     m.Rule.Name,
		Category: m.Rule.Category,
		Text:     m.Text,
		Block:    index,
		Start:    m.Start,
		End:      m.End,
		Page:     block.Page,
	}

	before := block.Text[:m.Start]
	lineStart := strings.LastIndexByte(before, '\n') + 1
	f.Column = utf8.RuneCountInString(before[lineStart:]) + 1
	if block.Line > 0 {
		f.Line = block.Line + strings.Count(before, "\n")
	}
	return f
}

// AnalyzeAll analyzes docs concurrently with at most workers goroutines.
// Reports come back in input order. It stops early when ctx is cancelled.
func AnalyzeAll(ctx context.Context, docs []*parser.Document, rules []*matcher.Rule, opts Options, workers int) ([]*Report, error) {
	reports := make([]*Report, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, doc := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = AnalyzeDocument(doc, rules, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
