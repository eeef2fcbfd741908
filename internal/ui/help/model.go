package help

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/blocked-report/internal/keys"
	"github.com/nhle/blocked-report/internal/theme"
)

const about = "Lists Story and Support issues currently in Blocked Internal or\n" +
	"Blocked External for the selected team, with the business days\n" +
	"(Mon–Fri) since each issue last entered a blocked state."

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(k *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	h.ShowAll = true
	return Model{
		keys:   k,
		help:   h,
		width:  width,
		height: height,
	}
}

// View renders the help overlay.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Blocked Issues Report")

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		theme.HelpStyle.MarginBottom(1).Render(about),
		m.help.View(m.keys),
	)

	return theme.PanelStyle.
		Width(max(m.width-4, 0)).
		Render(content)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
