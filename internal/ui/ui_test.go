package ui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/prosescan/internal/analyzer"
	"github.com/pthm/prosescan/internal/matcher"
	"github.com/pthm/prosescan/internal/readability"
)

func TestDetectMode(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, OutputModeJSON, detectMode(&buf, "json", false))
	assert.Equal(t, OutputModePlain, detectMode(&buf, "terminal", false))
	assert.Equal(t, OutputModePlain, detectMode(&buf, "terminal", true))
}

func TestPlainStyles(t *testing.T) {
	s := NewStyles(false)
	assert.Equal(t, "[Style]", s.Badge(matcher.CategoryStyle))
	assert.Equal(t, "very-hard", s.Tier(readability.VeryHard).Render("very-hard"))
	assert.Equal(t, "OK:", s.IconSuccess)
}

func TestStartProgress_NotInteractive(t *testing.T) {
	var buf bytes.Buffer
	u := New(&buf, &buf, "terminal")

	pc := u.StartProgress()
	assert.Nil(t, pc)

	// every method is safe on the nil controller
	pc.SetStage(StageAnalyze)
	pc.SetItemCount(2)
	pc.ItemStart("a.md")
	pc.ItemDone()
	pc.Done(nil)
	assert.Zero(t, buf.Len())
}

func TestWarn(t *testing.T) {
	var out, errOut bytes.Buffer
	u := New(&out, &errOut, "terminal")
	u.Warn("skipping %s", "x.md")
	assert.Equal(t, "WARN: skipping x.md\n", errOut.String())
	assert.Zero(t, out.Len())
}

func browseReports() []*analyzer.Report {
	return []*analyzer.Report{
		{
			Path: "a.md",
			Findings: []analyzer.Finding{
				{RuleID: "ai-vocabulary", Name: "AI vocabulary", Category: matcher.CategoryLanguage, Text: "pivotal", Line: 1, Column: 3},
				{RuleID: "curly-quotes", Name: "Curly quotes", Category: matcher.CategoryStyle, Text: "“", Line: 2, Column: 1},
			},
			Sentences: readability.AnalyzeSentences("The cat sat. The dog ran."),
		},
		{Path: "b.md"},
	}
}

func press(t *testing.T, m BrowseModel, msg tea.KeyMsg) BrowseModel {
	t.Helper()
	next, _ := m.Update(msg)
	bm, ok := next.(BrowseModel)
	require.True(t, ok)
	return bm
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrowseModel_Navigation(t *testing.T) {
	m := NewBrowseModel(browseReports(), NewStyles(false))
	require.Len(t, m.nodes, 2, "documents start collapsed when there are several")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Len(t, m.nodes, 4)

	m = press(t, m, runes("j"))
	m = press(t, m, runes("j"))
	require.NotNil(t, m.current().Finding)
	assert.Equal(t, "curly-quotes", m.current().Finding.RuleID)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Len(t, m.nodes, 2)
	assert.Equal(t, 0, m.cursor, "collapsing moves the cursor to the document")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)
}

func TestBrowseModel_Sentences(t *testing.T) {
	m := NewBrowseModel(browseReports(), NewStyles(false))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, m.nodes, 4)

	m = press(t, m, runes("s"))
	assert.Len(t, m.nodes, 6, "expansion survives the rebuild")

	m = press(t, m, runes("d"))
	assert.Len(t, m.nodes, 4, "easy sentences are hidden")
}

func TestBrowseModel_View(t *testing.T) {
	m := NewBrowseModel(browseReports(), NewStyles(false))
	assert.Equal(t, "Initializing...", m.View())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	m = next.(BrowseModel)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})

	view := m.View()
	assert.Contains(t, view, "a.md")
	assert.Contains(t, view, `[Language] "pivotal" ai-vocabulary`)
	assert.Contains(t, view, "└─ ")
	assert.True(t, strings.Contains(view, "s sentences(off)"))

	_, cmd := m.Update(runes("q"))
	assert.NotNil(t, cmd)
}
