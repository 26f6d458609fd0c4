package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Stage represents the current stage of a scan
type Stage int

const (
	StageLoadRules Stage = iota
	StageReadInputs
	StageAnalyze
	StageReview
	StageDone
)

// Message types for updating the model
type (
	StageMsg     Stage
	OperationMsg string
	ItemStartMsg string
	ItemDoneMsg  struct{}
	DoneMsg      struct{ Err error }
	ItemCountMsg int
)

// Model is the Bubbletea model for progress display
type Model struct {
	stage     Stage
	spinner   spinner.Model
	progress  progress.Model
	currentOp string
	itemCount int
	itemsDone int
	width     int
	quitting  bool
	err       error
}

// NewModel creates a new progress model
func NewModel() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		stage:    StageLoadRules,
		spinner:  s,
		progress: progress.New(progress.WithDefaultGradient()),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = msg.Width - 4
		if m.progress.Width > 60 {
			m.progress.Width = 60
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StageMsg:
		m.stage = Stage(msg)
		m.currentOp = ""
		m.itemCount, m.itemsDone = 0, 0
		return m, nil

	case OperationMsg:
		m.currentOp = string(msg)
		return m, nil

	case ItemStartMsg:
		m.currentOp = string(msg)
		return m, nil

	case ItemCountMsg:
		m.itemCount = int(msg)
		return m, nil

	case ItemDoneMsg:
		m.itemsDone++
		return m, nil

	case DoneMsg:
		m.err = msg.Err
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the model
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder

	if m.itemCount > 0 {
		pct := float64(m.itemsDone) / float64(m.itemCount)
		sb.WriteString(m.progress.ViewAs(pct))
		sb.WriteString("\n")
	}

	sb.WriteString(m.spinner.View())
	sb.WriteString(" ")
	sb.WriteString(m.stage.label())
	if m.currentOp != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", m.currentOp))
	}

	return sb.String()
}

func (s Stage) label() string {
	switch s {
	case StageLoadRules:
		return "Loading rules..."
	case StageReadInputs:
		return "Reading inputs"
	case StageAnalyze:
		return "Analyzing"
	case StageReview:
		return "Requesting review"
	default:
		return "Done"
	}
}
