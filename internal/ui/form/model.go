package form

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/blocked-report/internal/source"
	"github.com/nhle/blocked-report/internal/theme"
)

// SubmitMsg is emitted once the user submits the form.
type SubmitMsg struct {
	Team  string
	Creds source.Credentials
}

// CancelMsg is emitted when the user aborts the form.
type CancelMsg struct{}

// values holds the fields huh writes into. It lives behind a pointer so
// copies of Model share it.
type values struct {
	team  string
	email string
	token string
}

// Model is the team and credentials form.
type Model struct {
	teams         []string
	form          *huh.Form
	values        *values
	notice        string
	width, height int
}

// New creates the form for the given teams. defaultTeam is preselected.
func New(teams []string, defaultTeam string, width, height int) Model {
	m := Model{
		teams:  teams,
		values: &values{team: defaultTeam},
		width:  width,
		height: height,
	}
	m.form = m.build()
	return m
}

func (m Model) build() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select Your Team").
				Options(huh.NewOptions(m.teams...)...).
				Value(&m.values.team),
			huh.NewInput().
				Title("Jira Email").
				Placeholder("you@example.com").
				Value(&m.values.email),
			huh.NewInput().
				Title("Jira API Token").
				Description("Used for this report only; never stored").
				EchoMode(huh.EchoModePassword).
				Value(&m.values.token),
		),
	).WithWidth(m.formWidth()).WithShowHelp(true)
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update forwards messages to the huh form and emits SubmitMsg or
// CancelMsg when it finishes.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		submit := SubmitMsg{
			Team: m.values.team,
			Creds: source.Credentials{
				Email: strings.TrimSpace(m.values.email),
				Token: strings.TrimSpace(m.values.token),
			},
		}
		return m, func() tea.Msg { return submit }
	case huh.StateAborted:
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// Reset rebuilds the form for another run. The team and email are kept;
// the token is cleared. notice is shown above the form when non-empty.
func (m *Model) Reset(notice string) tea.Cmd {
	m.values.token = ""
	m.notice = notice
	m.form = m.build()
	return m.form.Init()
}

// View renders the form.
func (m Model) View() string {
	content := m.form.View()
	if m.notice != "" {
		notice := theme.ErrorTitleStyle.MarginBottom(1).Render(m.notice)
		content = lipgloss.JoinVertical(lipgloss.Left, notice, content)
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.form = m.form.WithWidth(m.formWidth())
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w > 80 {
		w = 80
	}
	if w < 20 {
		w = 20
	}
	return w
}
