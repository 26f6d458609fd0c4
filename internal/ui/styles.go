package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pthm/prosescan/internal/matcher"
	"github.com/pthm/prosescan/internal/readability"
)

// Badge colors per rule category.
var categoryColors = map[matcher.Category]lipgloss.Color{
	matcher.CategoryContent:       lipgloss.Color("#f44336"),
	matcher.CategoryLanguage:      lipgloss.Color("#ff9800"),
	matcher.CategoryStyle:         lipgloss.Color("#9c27b0"),
	matcher.CategoryCommunication: lipgloss.Color("#2196f3"),
}

// Styles contains all lipgloss styles for terminal output
type Styles struct {
	enabled bool

	// Status styles
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Success lipgloss.Style

	// Structural styles
	Header    lipgloss.Style
	Subheader lipgloss.Style
	Path      lipgloss.Style
	Rule      lipgloss.Style
	Separator lipgloss.Style
	Quote     lipgloss.Style

	// Difficulty tiers
	Easy     lipgloss.Style
	Hard     lipgloss.Style
	VeryHard lipgloss.Style

	categories map[matcher.Category]lipgloss.Style

	// Icons (degraded to ASCII when not interactive)
	IconError   string
	IconWarning string
	IconInfo    string
	IconSuccess string
	IconFinding string
}

// NewStyles creates a new Styles instance
// When enabled is false, styles return text unchanged (for non-TTY output)
func NewStyles(enabled bool) *Styles {
	s := &Styles{
		enabled:    enabled,
		categories: make(map[matcher.Category]lipgloss.Style),
	}

	if enabled {
		s.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))    // Red
		s.Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // Yellow
		s.Info = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))    // Blue
		s.Success = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // Green

		s.Header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
		s.Subheader = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Path = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Rule = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Separator = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Quote = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("250"))

		s.Easy = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
		s.Hard = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
		s.VeryHard = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

		for c, color := range categoryColors {
			s.categories[c] = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(color).
				Padding(0, 1)
		}

		s.IconError = "✗"
		s.IconWarning = "⚠"
		s.IconInfo = "ℹ"
		s.IconSuccess = "✓"
		s.IconFinding = "●"
	} else {
		s.Error = lipgloss.NewStyle()
		s.Warning = lipgloss.NewStyle()
		s.Info = lipgloss.NewStyle()
		s.Success = lipgloss.NewStyle()

		s.Header = lipgloss.NewStyle()
		s.Subheader = lipgloss.NewStyle()
		s.Path = lipgloss.NewStyle()
		s.Rule = lipgloss.NewStyle()
		s.Separator = lipgloss.NewStyle()
		s.Quote = lipgloss.NewStyle()

		s.Easy = lipgloss.NewStyle()
		s.Hard = lipgloss.NewStyle()
		s.VeryHard = lipgloss.NewStyle()

		s.IconError = "ERROR:"
		s.IconWarning = "WARN:"
		s.IconInfo = "INFO:"
		s.IconSuccess = "OK:"
		s.IconFinding = "-"
	}

	return s
}

// Enabled returns whether styling is enabled
func (s *Styles) Enabled() bool {
	return s.enabled
}

// Category returns the badge style for c
func (s *Styles) Category(c matcher.Category) lipgloss.Style {
	if st, ok := s.categories[c]; ok {
		return st
	}
	return lipgloss.NewStyle()
}

// Badge renders a category label. Plain output brackets it instead.
func (s *Styles) Badge(c matcher.Category) string {
	if !s.enabled {
		return "[" + string(c) + "]"
	}
	return s.Category(c).Render(string(c))
}

// Tier returns the style for a difficulty tier
func (s *Styles) Tier(t readability.DifficultyTier) lipgloss.Style {
	switch t {
	case readability.Hard:
		return s.Hard
	case readability.VeryHard:
		return s.VeryHard
	default:
		return s.Easy
	}
}
