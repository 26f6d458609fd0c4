package reporter

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pthm/prosescan/internal/analyzer"
	"github.com/pthm/prosescan/internal/matcher"
	"github.com/pthm/prosescan/internal/readability"
	"github.com/pthm/prosescan/internal/ui"
)

// maxQuote bounds how much matched text is echoed per finding.
const maxQuote = 200

// TerminalReporter outputs results to the terminal with lipgloss styles
type TerminalReporter struct {
	w      io.Writer
	styles *ui.Styles
}

// NewTerminalReporter creates a new terminal reporter
func NewTerminalReporter(w io.Writer, u *ui.UI) *TerminalReporter {
	return &TerminalReporter{w: w, styles: u.Styles}
}

// Report prints every document with its findings and readability, then a
// summary line
func (r *TerminalReporter) Report(run *Run) error {
	for _, rep := range run.Reports {
		if rep == nil {
			continue
		}
		r.printDocument(rep)
	}

	r.printSummary(run)
	return checkThreshold(run)
}

func (r *TerminalReporter) printDocument(rep *analyzer.Report) {
	s := r.styles

	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, s.Header.Render(filepath.Base(rep.Path)))
	fmt.Fprintf(r.w, "  %s\n", s.Path.Render(rep.Path))
	if rep.Title != "" {
		fmt.Fprintf(r.w, "  %s\n", s.Subheader.Render(rep.Title))
	}

	for _, f := range rep.Findings {
		r.printFinding(rep.Path, f)
	}

	fmt.Fprintln(r.w)
	for _, v := range rep.Verdicts {
		icon, style := s.IconWarning, s.Warning
		if v.Great {
			icon, style = s.IconSuccess, s.Success
		}
		fmt.Fprintf(r.w, "  %s %-28s %6.1f  %s\n",
			style.Render(icon), v.Name, v.Score, s.Subheader.Render("("+v.Target+")"))
	}
	fmt.Fprintf(r.w, "  %s\n", r.tierLine(rep.TierCounts))

	if len(rep.Sentences) > 0 {
		r.printSentences(rep.Sentences)
	}

	if rep.Review != nil {
		r.printReview(rep)
	}
}

func (r *TerminalReporter) printFinding(path string, f analyzer.Finding) {
	s := r.styles

	fmt.Fprintf(r.w, "  %s %s %s",
		s.Warning.Render(s.IconFinding), s.Badge(f.Category), location(filepath.Base(path), f))
	fmt.Fprint(r.w, " "+s.Rule.Render("["+f.RuleID+"]"))
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "    %s\n", f.Name)

	if len(f.Text) < maxQuote {
		fmt.Fprintf(r.w, "    %s\n", s.Quote.Render("> "+f.Text))
	}
}

// location renders where a finding sits. Documents without line numbers
// fall back to page or block.
func location(name string, f analyzer.Finding) string {
	switch {
	case f.Line > 0:
		return fmt.Sprintf("%s:%d:%d", name, f.Line, f.Column)
	case f.Page > 0:
		return fmt.Sprintf("%s page %d col %d", name, f.Page, f.Column)
	default:
		return fmt.Sprintf("%s block %d col %d", name, f.Block+1, f.Column)
	}
}

func (r *TerminalReporter) tierLine(counts map[readability.DifficultyTier]int) string {
	parts := make([]string, 0, len(readability.Tiers()))
	for _, t := range readability.Tiers() {
		parts = append(parts, r.styles.Tier(t).Render(fmt.Sprintf("%d %s", counts[t], t)))
	}
	return "Sentences: " + strings.Join(parts, ", ")
}

func (r *TerminalReporter) printSentences(sentences []readability.SentenceResult) {
	fmt.Fprintln(r.w)
	for _, sr := range sentences {
		if sr.Metrics == nil {
			continue
		}
		text := strings.TrimSpace(sr.Text())
		fmt.Fprintf(r.w, "  %s %s\n", r.styles.Tier(sr.Tier).Render(fmt.Sprintf("%-9s", sr.Tier)), text)
	}
}

func (r *TerminalReporter) printReview(rep *analyzer.Report) {
	s := r.styles
	v := rep.Review

	verdict := s.Success.Render("likely human")
	if v.LikelyAI {
		verdict = s.Error.Render("likely AI")
	}
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "  %s Review: %s (confidence %.2f, %s)\n", s.IconInfo, verdict, v.Confidence, v.Model)
	for _, reason := range v.Reasons {
		fmt.Fprintf(r.w, "    - %s\n", reason)
	}
}

func (r *TerminalReporter) printSummary(run *Run) {
	s := r.styles
	sum := run.Summary

	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, s.Separator.Render("─────────────────────────────────────"))

	if sum.Findings == 0 {
		fmt.Fprintf(r.w, "%s No AI writing patterns found in %d documents (%d words)\n",
			s.Success.Render(s.IconSuccess), sum.Documents, sum.Words)
		return
	}

	var parts []string
	for _, c := range matcher.Categories() {
		if n := sum.ByCategory[c]; n > 0 {
			parts = append(parts, s.Category(c).Render(fmt.Sprintf("%d %s", n, c)))
		}
	}

	fmt.Fprintf(r.w, "Found %d findings in %d documents (%d words): %s\n",
		sum.Findings, sum.Documents, sum.Words, strings.Join(parts, ", "))

	top := sum.TopRules(3)
	names := make([]string, 0, len(top))
	for _, rc := range top {
		names = append(names, fmt.Sprintf("%s (%d)", rc.RuleID, rc.Count))
	}
	fmt.Fprintf(r.w, "Top rules: %s\n", strings.Join(names, ", "))
}
