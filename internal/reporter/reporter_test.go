package reporter

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pthm/prosescan/internal/analyzer"
	"github.com/pthm/prosescan/internal/matcher"
	"github.com/pthm/prosescan/internal/readability"
	"github.com/pthm/prosescan/internal/review"
	"github.com/pthm/prosescan/internal/ui"
)

func sampleReports() []*analyzer.Report {
	metrics := readability.ScoreText("The view was breathtaking. We left.")
	return []*analyzer.Report{
		{
			Path:     "docs/guide.md",
			FileType: "markdown",
			Title:    "Guide",
			Findings: []analyzer.Finding{
				{RuleID: "promotional-language", Name: "Promotional language", Category: matcher.CategoryContent, Text: "breathtaking", Line: 3, Column: 14},
				{RuleID: "em-dash-overuse", Name: "Em dash overuse", Category: matcher.CategoryStyle, Text: "—", Page: 2, Column: 5},
			},
			CategoryCounts: map[matcher.Category]int{matcher.CategoryContent: 1, matcher.CategoryStyle: 1},
			Metrics:        metrics,
			Verdicts:       readability.Verdicts(metrics),
			TierCounts:     map[readability.DifficultyTier]int{readability.Easy: 2},
			Review:         &review.Verdict{LikelyAI: true, Confidence: 0.8, Reasons: []string{"stock phrases"}, Model: "test-model"},
		},
		{
			Path:           "notes.txt",
			FileType:       "plain",
			Findings:       []analyzer.Finding{},
			CategoryCounts: map[matcher.Category]int{},
			TierCounts:     map[readability.DifficultyTier]int{},
		},
	}
}

func plainUI(w *bytes.Buffer) *ui.UI {
	return &ui.UI{Mode: ui.OutputModePlain, Writer: w, ErrWriter: w, Styles: ui.NewStyles(false)}
}

func TestNewRun(t *testing.T) {
	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	run := NewRun(sampleReports(), started, 0)

	if run.ID == uuid.Nil {
		t.Error("expected a run id")
	}
	if run.Summary.Documents != 2 || run.Summary.Findings != 2 {
		t.Errorf("unexpected summary: %+v", run.Summary)
	}
	if run.Failed() {
		t.Error("a zero threshold never fails")
	}
}

func TestRunFailed(t *testing.T) {
	tests := []struct {
		failOn int
		want   bool
	}{
		{0, false},
		{1, true},
		{2, true},
		{3, false},
	}

	for _, tt := range tests {
		run := NewRun(sampleReports(), time.Now(), tt.failOn)
		if got := run.Failed(); got != tt.want {
			t.Errorf("Failed() with fail-on %d = %v, want %v", tt.failOn, got, tt.want)
		}
	}
}

func TestJSONReporter(t *testing.T) {
	var buf bytes.Buffer
	run := NewRun(sampleReports(), time.Now(), 0)

	if err := NewJSONReporter(&buf).Report(run); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	var out struct {
		RunID   string `json:"run_id"`
		Reports []struct {
			Path     string `json:"path"`
			Findings []struct {
				Rule     string `json:"rule"`
				Category string `json:"category"`
			} `json:"findings"`
			TierCounts map[string]int `json:"tier_counts"`
		} `json:"reports"`
		Summary struct {
			Findings   int            `json:"findings"`
			ByCategory map[string]int `json:"by_category"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}

	if out.RunID != run.ID.String() {
		t.Errorf("run_id = %q, want %q", out.RunID, run.ID)
	}
	if len(out.Reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(out.Reports))
	}
	if got := out.Reports[0].Findings[0].Category; got != "Content" {
		t.Errorf("category = %q, want Content", got)
	}
	if got := out.Reports[0].TierCounts["easy"]; got != 2 {
		t.Errorf("tier_counts[easy] = %d, want 2", got)
	}
	if got := out.Summary.ByCategory["Style"]; got != 1 {
		t.Errorf("summary by_category[Style] = %d, want 1", got)
	}
}

func TestJSONReporter_Threshold(t *testing.T) {
	var buf bytes.Buffer
	err := NewJSONReporter(&buf).Report(NewRun(sampleReports(), time.Now(), 1))
	if !errors.Is(err, ErrFindings) {
		t.Errorf("expected ErrFindings, got %v", err)
	}
	if buf.Len() == 0 {
		t.Error("output should be written before the threshold error")
	}
}

func TestTerminalReporter(t *testing.T) {
	var buf bytes.Buffer
	run := NewRun(sampleReports(), time.Now(), 0)

	if err := NewTerminalReporter(&buf, plainUI(&buf)).Report(run); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"guide.md",
		"docs/guide.md",
		"[Content] guide.md:3:14 [promotional-language]",
		"> breathtaking",
		"[Style] guide.md page 2 col 5 [em-dash-overuse]",
		"Flesch Reading Ease",
		"Sentences: 2 easy, 0 hard, 0 very-hard",
		"Review: likely AI (confidence 0.80, test-model)",
		"- stock phrases",
		"notes.txt",
		"Found 2 findings in 2 documents",
		"Top rules: em-dash-overuse (1), promotional-language (1)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestTerminalReporter_NoFindings(t *testing.T) {
	var buf bytes.Buffer
	reports := sampleReports()[1:]

	if err := NewTerminalReporter(&buf, plainUI(&buf)).Report(NewRun(reports, time.Now(), 1)); err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if !strings.Contains(buf.String(), "OK: No AI writing patterns found in 1 documents") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestTerminalReporter_Threshold(t *testing.T) {
	var buf bytes.Buffer
	err := NewTerminalReporter(&buf, plainUI(&buf)).Report(NewRun(sampleReports(), time.Now(), 2))
	if !errors.Is(err, ErrFindings) {
		t.Errorf("expected ErrFindings, got %v", err)
	}
}

func TestLocation(t *testing.T) {
	tests := []struct {
		f    analyzer.Finding
		want string
	}{
		{analyzer.Finding{Line: 4, Column: 2}, "a.md:4:2"},
		{analyzer.Finding{Page: 3, Column: 7}, "a.md page 3 col 7"},
		{analyzer.Finding{Block: 0, Column: 1}, "a.md block 1 col 1"},
	}

	for _, tt := range tests {
		if got := location("a.md", tt.f); got != tt.want {
			t.Errorf("location(%+v) = %q, want %q", tt.f, got, tt.want)
		}
	}
}
