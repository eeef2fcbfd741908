package ui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/blocked-report/internal/theme"
)

// Title is shown at the left of the header bar.
const Title = "Jira Blocked Issues Report"

// MinContentHeight keeps the form usable in very short terminals.
const MinContentHeight = 3

// Layout splits the terminal into a one-line header, the content area and
// a one-line status bar.
type Layout struct {
	Width  int
	Height int
}

// NewLayout creates a Layout for the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{Width: width, Height: height}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the rows left between the header and status bar,
// never less than MinContentHeight.
func (l Layout) ContentHeight() int {
	return max(l.Height-2, MinContentHeight)
}

// Header describes what the header bar shows next to the title.
type Header struct {
	Team   string
	Issues int
	State  string
}

// RenderHeader renders the title with the team, issue count and run state
// right-aligned. Empty parts are left out.
func (l Layout) RenderHeader(h Header) string {
	right := h.State
	if h.Team != "" {
		right = h.Team
		if h.State != "" {
			right += " · " + h.State
		} else {
			right += " · " + pluralIssues(h.Issues)
		}
	}

	return l.bar(theme.HeaderStyle, Title, right)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	return l.bar(theme.StatusBarStyle, hints, "")
}

// bar lays out left and right text on one full-width line in style.
func (l Layout) bar(style lipgloss.Style, left, right string) string {
	leftRendered := style.Render(left)
	rightRendered := ""
	if right != "" {
		rightRendered = style.Render(right)
	}

	gap := max(l.Width-lipgloss.Width(leftRendered)-lipgloss.Width(rightRendered), 0)
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(style.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, leftRendered, filler, rightRendered)
}

// RenderWithFrame stacks header, content and status bar. Content is padded
// or cut to ContentHeight so the status bar stays on the last line.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	h := l.ContentHeight()
	body := lipgloss.NewStyle().Height(h).MaxHeight(h).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, statusBar)
}

func pluralIssues(n int) string {
	if n == 1 {
		return "1 issue"
	}
	return strconv.Itoa(n) + " issues"
}
