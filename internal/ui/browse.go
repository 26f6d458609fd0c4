package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pthm/prosescan/internal/analyzer"
	"github.com/pthm/prosescan/internal/readability"
)

// BrowseNode is one row of the findings browser: a document, a finding or
// a sentence.
type BrowseNode struct {
	Report   *analyzer.Report
	Finding  *analyzer.Finding
	Sentence *readability.SentenceResult
	Depth    int
	Expanded bool
	Children []*BrowseNode
	Parent   *BrowseNode
}

// BrowseModel is the bubbletea model for exploring scan results
type BrowseModel struct {
	reports       []*analyzer.Report
	roots         []*BrowseNode
	nodes         []*BrowseNode // flattened visible rows
	cursor        int
	width         int
	height        int
	ready         bool
	showSentences bool
	hardOnly      bool
	keys          browseKeyMap
	styles        *Styles
	chrome        browseChrome
}

type browseKeyMap struct {
	Up             key.Binding
	Down           key.Binding
	Left           key.Binding
	Right          key.Binding
	Toggle         key.Binding
	ToggleSentence key.Binding
	ToggleHard     key.Binding
	Quit           key.Binding
}

type browseChrome struct {
	selected  lipgloss.Style
	tree      lipgloss.Style
	dim       lipgloss.Style
	statusBar lipgloss.Style
	helpBar   lipgloss.Style
}

func defaultBrowseKeyMap() browseKeyMap {
	return browseKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "collapse"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "expand"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter/space", "toggle"),
		),
		ToggleSentence: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "toggle sentences"),
		),
		ToggleHard: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "hard sentences only"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func defaultBrowseChrome() browseChrome {
	return browseChrome{
		selected:  lipgloss.NewStyle().Background(lipgloss.Color("237")).Bold(true),
		tree:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		statusBar: lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 1),
		helpBar:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Background(lipgloss.Color("235")),
	}
}

// NewBrowseModel creates a browser over reports. Sentences are only
// available when the reports were produced with sentence output enabled.
func NewBrowseModel(reports []*analyzer.Report, styles *Styles) BrowseModel {
	m := BrowseModel{
		reports: reports,
		keys:    defaultBrowseKeyMap(),
		styles:  styles,
		chrome:  defaultBrowseChrome(),
	}
	m.buildNodes()
	return m
}

// Browse runs the browser until the user quits
func (ui *UI) Browse(reports []*analyzer.Report) error {
	p := tea.NewProgram(NewBrowseModel(reports, ui.Styles), tea.WithAltScreen(), tea.WithOutput(ui.Writer))
	_, err := p.Run()
	return err
}

func (m *BrowseModel) buildNodes() {
	m.roots = nil
	for _, r := range m.reports {
		doc := &BrowseNode{Report: r, Expanded: len(m.reports) == 1}
		for i := range r.Findings {
			doc.Children = append(doc.Children, &BrowseNode{
				Finding: &r.Findings[i],
				Depth:   1,
				Parent:  doc,
			})
		}
		if m.showSentences {
			for i := range r.Sentences {
				s := &r.Sentences[i]
				if s.Metrics == nil || (m.hardOnly && s.Tier == readability.Easy) {
					continue
				}
				doc.Children = append(doc.Children, &BrowseNode{
					Sentence: s,
					Depth:    1,
					Parent:   doc,
				})
			}
		}
		m.roots = append(m.roots, doc)
	}
	m.updateVisibleNodes()
}

func (m *BrowseModel) updateVisibleNodes() {
	m.nodes = nil
	for _, n := range m.roots {
		m.collectVisible(n)
	}

	if m.cursor >= len(m.nodes) {
		m.cursor = len(m.nodes) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *BrowseModel) collectVisible(n *BrowseNode) {
	m.nodes = append(m.nodes, n)
	if n.Expanded {
		for _, c := range n.Children {
			m.collectVisible(c)
		}
	}
}

// Init initializes the model
func (m BrowseModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.nodes)-1 {
				m.cursor++
			}

		case key.Matches(msg, m.keys.Left):
			if n := m.current(); n != nil {
				if n.Parent != nil {
					n = n.Parent
				}
				n.Expanded = false
				m.updateVisibleNodes()
				m.moveTo(n)
			}

		case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Toggle):
			if n := m.current(); n != nil && len(n.Children) > 0 {
				n.Expanded = !n.Expanded
				m.updateVisibleNodes()
			}

		case key.Matches(msg, m.keys.ToggleSentence):
			m.showSentences = !m.showSentences
			m.rebuildKeepingExpansion()

		case key.Matches(msg, m.keys.ToggleHard):
			m.hardOnly = !m.hardOnly
			m.rebuildKeepingExpansion()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
	}

	return m, nil
}

func (m *BrowseModel) current() *BrowseNode {
	if m.cursor < 0 || m.cursor >= len(m.nodes) {
		return nil
	}
	return m.nodes[m.cursor]
}

func (m *BrowseModel) moveTo(target *BrowseNode) {
	for i, n := range m.nodes {
		if n == target {
			m.cursor = i
			return
		}
	}
}

func (m *BrowseModel) rebuildKeepingExpansion() {
	expanded := make(map[*analyzer.Report]bool, len(m.roots))
	for _, n := range m.roots {
		expanded[n.Report] = n.Expanded
	}
	m.buildNodes()
	for _, n := range m.roots {
		n.Expanded = expanded[n.Report]
	}
	m.updateVisibleNodes()
}

// View renders the browser
func (m BrowseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	footerHeight := 2
	listHeight := m.height - footerHeight
	if listHeight < 5 {
		listHeight = 5
	}

	start := 0
	if m.cursor >= listHeight {
		start = m.cursor - listHeight + 1
	}
	end := start + listHeight
	if end > len(m.nodes) {
		end = len(m.nodes)
	}

	var sb strings.Builder
	rendered := 0
	for i := start; i < end; i++ {
		sb.WriteString(m.renderNode(m.nodes[i], i == m.cursor))
		sb.WriteString("\n")
		rendered++
	}
	for ; rendered < listHeight; rendered++ {
		sb.WriteString("\n")
	}

	detail := ""
	if n := m.current(); n != nil {
		detail = m.renderDetailLine(n)
	}
	sb.WriteString(m.chrome.statusBar.Width(m.width).Render(detail))
	sb.WriteString("\n")

	help := fmt.Sprintf(" ↑↓ navigate  ←→ collapse/expand  s sentences(%s)  d hard only(%s)  q quit",
		boolToOnOff(m.showSentences),
		boolToOnOff(m.hardOnly),
	)
	sb.WriteString(m.chrome.helpBar.Width(m.width).Render(help))

	return sb.String()
}

func (m *BrowseModel) renderNode(n *BrowseNode, selected bool) string {
	var sb strings.Builder
	sb.WriteString(m.chrome.tree.Render(strings.Repeat("  ", n.Depth)))

	if n.Parent != nil {
		connector := "├─ "
		if siblings := n.Parent.Children; siblings[len(siblings)-1] == n {
			connector = "└─ "
		}
		sb.WriteString(m.chrome.tree.Render(connector))
	}

	if len(n.Children) > 0 {
		if n.Expanded {
			sb.WriteString(m.chrome.dim.Render("▼ "))
		} else {
			sb.WriteString(m.chrome.dim.Render("▶ "))
		}
	} else if n.Parent == nil {
		sb.WriteString("  ")
	}

	var content string
	switch {
	case n.Finding != nil:
		f := n.Finding
		content = fmt.Sprintf("%s %s %s",
			m.styles.Badge(f.Category),
			m.styles.Quote.Render(fmt.Sprintf("%q", f.Text)),
			m.styles.Rule.Render(f.RuleID),
		)
	case n.Sentence != nil:
		s := n.Sentence
		content = m.styles.Tier(s.Tier).Render(fmt.Sprintf("[%s] %s", s.Tier, truncate(strings.TrimSpace(s.Text()), 70)))
	case n.Report != nil:
		r := n.Report
		content = m.styles.Header.Render(r.Path) +
			m.chrome.dim.Render(fmt.Sprintf("  %d findings  flesch %.1f", len(r.Findings), r.Metrics.Flesch))
	}

	if selected {
		content = m.chrome.selected.Render(content)
	}
	sb.WriteString(content)
	return sb.String()
}

func (m *BrowseModel) renderDetailLine(n *BrowseNode) string {
	switch {
	case n.Finding != nil:
		f := n.Finding
		loc := fmt.Sprintf("block %d col %d", f.Block, f.Column)
		if f.Line > 0 {
			loc = fmt.Sprintf("line %d col %d", f.Line, f.Column)
		}
		return fmt.Sprintf(" %s  %s  %s", f.Name, f.Category, loc)
	case n.Sentence != nil:
		sm := n.Sentence.Metrics
		return fmt.Sprintf(" words %d  syllables %d  ARI %.1f  CL %.1f  Flesch %.1f  SMOG %.1f",
			sm.WordCount, sm.SyllableCount, sm.ARI, sm.ColemanLiau, sm.Flesch, sm.SMOG)
	case n.Report != nil:
		mt := n.Report.Metrics
		return fmt.Sprintf(" %s  words %d  sentences %d  ARI %.1f  CL %.1f  Flesch %.1f  SMOG %.1f",
			n.Report.FileType, mt.WordCount, mt.SentenceCount, mt.ARI, mt.ColemanLiau, mt.Flesch, mt.SMOG)
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func boolToOnOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
