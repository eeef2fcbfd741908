package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/blocked-report/internal/blocked"
	"github.com/nhle/blocked-report/internal/keys"
	"github.com/nhle/blocked-report/internal/report"
	"github.com/nhle/blocked-report/internal/team"
	"github.com/nhle/blocked-report/internal/theme"
)

// BackMsg signals the parent to navigate back to the results table.
type BackMsg struct{}

// Model shows every field of one report row, including the raw link the
// table hides.
type Model struct {
	record   *blocked.Record
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new detail view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, max(height-2, 1))
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Back) {
		return m, func() tea.Msg { return BackMsg{} }
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.record == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No issue selected")
	}

	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.record == nil {
		return ""
	}

	rec := m.record
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(rec.Key+"  "+rec.Summary))

	days := report.FormatDays(rec.BusinessDaysBlocked)
	if days == "" {
		days = "unknown"
	}
	badgeLine := lipgloss.JoinHorizontal(
		lipgloss.Top,
		theme.StatusStyle(rec.Status).Render(rec.Status),
		"  ",
		theme.DaysStyle(rec.BusinessDaysBlocked).Render(days+" business day(s) blocked"),
	)
	sections = append(sections, badgeLine, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(11)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	for _, f := range []struct{ label, value string }{
		{"Assignee:", rec.Assignee},
		{"Function:", rec.Function},
		{"Team:", rec.Team},
		{"Created:", rec.Created},
		{"Link:", rec.Link},
	} {
		value := f.value
		if value == "" {
			value = "-"
		}
		sections = append(sections, metaStyle.Render(f.label)+valStyle.Render(value))
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	sections = append(sections, "", sepStyle.Render(strings.Repeat("─", max(min(m.width-4, 80), 0))))
	sections = append(sections, theme.HelpStyle.Render(fmt.Sprintf(
		"Counted Mon-Fri from the last move into %s.", strings.Join(team.BlockedStatuses, " or "),
	)))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetRecord updates the issue being displayed and re-renders the content.
func (m *Model) SetRecord(rec *blocked.Record) {
	m.record = rec
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Record returns the displayed issue, if any.
func (m Model) Record() *blocked.Record {
	return m.record
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-2, 1)
	m.viewport.SetContent(m.renderContent())
}
