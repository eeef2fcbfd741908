package results

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/blocked-report/internal/blocked"
	"github.com/nhle/blocked-report/internal/report"
	"github.com/nhle/blocked-report/internal/theme"
)

// columnWidths are the preferred widths of the displayed columns, in
// report.Table.DisplayColumns order. Summary absorbs any spare width.
var columnWidths = []int{12, 40, 18, 18, 14, 14, 12, 10}

const summaryCol = 1

// Model shows an assembled report as a scrollable table.
type Model struct {
	table         table.Model
	result        *report.Result
	width, height int
}

// New creates an empty results view.
func New(width, height int) Model {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(max(height-3, 1)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.ColorBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(theme.ColorWhite).
		Background(theme.ColorBlue).
		Bold(false)
	t.SetStyles(s)

	return Model{table: t, width: width, height: height}
}

// SetResult replaces the displayed report.
func (m *Model) SetResult(res *report.Result) {
	m.result = res
	m.table.SetRows(nil)
	m.table.SetColumns(m.columns())

	var rows []table.Row
	if res != nil {
		for _, r := range res.Table.DisplayRows() {
			rows = append(rows, table.Row(r))
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Result returns the displayed report, if any.
func (m Model) Result() *report.Result {
	return m.result
}

// Clear drops the displayed report.
func (m *Model) Clear() {
	m.SetResult(nil)
}

// Rows returns the rows currently in the table.
func (m Model) Rows() []table.Row {
	return m.table.Rows()
}

// Selected returns the record under the cursor.
func (m Model) Selected() (*blocked.Record, bool) {
	i := m.table.Cursor()
	if m.result == nil || i < 0 || i >= m.result.Table.Len() {
		return nil, false
	}
	rec := m.result.Table.Records[i]
	return &rec, true
}

// Update forwards navigation to the table.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders a summary line above the table.
func (m Model) View() string {
	if m.result == nil {
		return ""
	}

	summary := fmt.Sprintf(
		"%s · %d blocked issue(s) · generated %s",
		m.result.Team,
		m.result.Table.Len(),
		m.result.GeneratedAt.Local().Format("2006-01-02 15:04"),
	)
	if m.result.Table.Len() == 0 {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			theme.HelpStyle.Render(summary),
			"",
			"No blocked issues found for this team.",
		)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		theme.HelpStyle.Render(summary),
		m.table.View(),
		m.selectedDetail(),
	)
}

// selectedDetail shows the link and colored day count of the focused row.
func (m Model) selectedDetail() string {
	rec, ok := m.Selected()
	if !ok {
		return ""
	}

	days := report.FormatDays(rec.BusinessDaysBlocked)
	if days == "" {
		days = "unknown"
	}
	return fmt.Sprintf("%s  %s  %s",
		theme.StatusStyle(rec.Status).Render(rec.Status),
		theme.DaysStyle(rec.BusinessDaysBlocked).Render(days+" business day(s)"),
		theme.HelpStyle.Render(rec.Link),
	)
}

// SetSize updates the table dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetWidth(width)
	m.table.SetHeight(max(height-3, 1))
	m.table.SetColumns(m.columns())
}

// columns sizes the display columns to the current width.
func (m Model) columns() []table.Column {
	titles := report.DisplayColumns()
	widths := append([]int(nil), columnWidths...)

	total := 0
	for _, w := range widths {
		total += w + 2
	}
	if spare := m.width - total; spare > 0 {
		widths[summaryCol] += spare
	}

	cols := make([]table.Column, len(titles))
	for i, title := range titles {
		cols[i] = table.Column{Title: title, Width: widths[i]}
	}
	return cols
}
