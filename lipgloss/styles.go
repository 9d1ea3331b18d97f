package lipgloss

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/mdview"
)

// Styles maps a Theme to lipgloss styles for terminal rendering.
type Styles struct {
	Text    lipgloss.Style
	Heading lipgloss.Style
	Link    lipgloss.Style
	Code    lipgloss.Style
	Quote   lipgloss.Style
	Math    lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Accent  lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t mdview.Theme) Styles {
	return Styles{
		Text:    lipgloss.NewStyle().Foreground(ansiColor(t.Text)),
		Heading: lipgloss.NewStyle().Foreground(ansiColor(t.Heading)).Bold(true),
		Link:    lipgloss.NewStyle().Foreground(ansiColor(t.Link)).Underline(true),
		Code:    lipgloss.NewStyle().Foreground(ansiColor(t.Code)),
		Quote:   lipgloss.NewStyle().Foreground(ansiColor(t.Quote)),
		Math:    lipgloss.NewStyle().Foreground(ansiColor(t.Math)).Italic(true),
		Muted:   lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Error:   lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Success: lipgloss.NewStyle().Foreground(ansiColor(t.Success)),
		Accent:  lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
	}
}

// heading returns the style for a heading level. H1 and H2 are also
// underlined with a rule by the heading view.
func (s Styles) heading(level int) lipgloss.Style {
	switch level {
	case 1:
		return s.Heading.Underline(true)
	case 2, 3:
		return s.Heading
	default:
		return s.Heading.UnsetBold().Italic(true)
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
