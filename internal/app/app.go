package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/nhle/blocked-report/internal/keys"
	"github.com/nhle/blocked-report/internal/report"
	"github.com/nhle/blocked-report/internal/source"
	"github.com/nhle/blocked-report/internal/theme"
	"github.com/nhle/blocked-report/internal/ui"
	"github.com/nhle/blocked-report/internal/ui/detail"
	"github.com/nhle/blocked-report/internal/ui/form"
	helpview "github.com/nhle/blocked-report/internal/ui/help"
	"github.com/nhle/blocked-report/internal/ui/results"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewForm ViewState = iota
	ViewLoading
	ViewResults
	ViewError
	ViewHelp
	ViewDetail
)

// Generator produces a report for a team.
type Generator interface {
	Generate(ctx context.Context, team string, creds source.Credentials) (*report.Result, error)
}

// reportReadyMsg carries a completed report.
type reportReadyMsg struct {
	result *report.Result
}

// reportFailedMsg carries a failed report run.
type reportFailedMsg struct {
	err error
}

// exportSavedMsg is sent after the spreadsheet is written to disk.
type exportSavedMsg struct {
	path string
	err  error
}

// Options configure the application model.
type Options struct {
	Teams       []string
	DefaultTeam string
	ExportDir   string
}

// Model is the root Bubble Tea model that routes between the form,
// loading, results and error views.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	generator    Generator
	opts         Options
	log          zerolog.Logger
	keys         *keys.KeyMap
	form         form.Model
	results      results.Model
	detail       detail.Model
	helpView     helpview.Model
	spinner      spinner.Model
	team         string
	failure      report.Failure
	errMessage   string
	statusMsg    string
	ready        bool
}

// New creates a new root application model.
func New(g Generator, opts Options, log zerolog.Logger) Model {
	k := keys.DefaultKeyMap()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	return Model{
		currentView: ViewForm,
		generator:   g,
		opts:        opts,
		log:         log,
		keys:        k,
		form:        form.New(opts.Teams, opts.DefaultTeam, 80, 24),
		results:     results.New(80, 24),
		detail:      detail.New(k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		spinner:     sp,
	}
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.form.SetSize(w, h)
		m.results.SetSize(w, h)
		m.detail.SetSize(w, h)
		m.helpView.SetSize(w, h)
		// Forward to the form so huh can calculate its layout.
		if m.currentView == ViewForm {
			return m.updateActiveView(msg)
		}
		return m, nil

	case form.SubmitMsg:
		if m.currentView != ViewForm {
			return m, nil
		}
		m.team = msg.Team
		m.results.Clear()
		m.errMessage = ""
		m.statusMsg = ""
		m.currentView = ViewLoading
		return m, tea.Batch(m.spinner.Tick, m.generate(msg.Team, msg.Creds))

	case form.CancelMsg:
		return m, tea.Quit

	case reportReadyMsg:
		m.results.SetResult(msg.result)
		m.failure = report.FailureNone
		m.currentView = ViewResults
		return m, nil

	case reportFailedMsg:
		m.failure = report.Classify(msg.err)
		if m.failure == report.FailureValidation {
			m.currentView = ViewForm
			return m, m.form.Reset(report.Describe(msg.err))
		}
		m.errMessage = report.Describe(msg.err)
		m.currentView = ViewError
		return m, nil

	case detail.BackMsg:
		m.currentView = ViewResults
		return m, nil

	case exportSavedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Saving failed: %v", msg.err)
		} else {
			m.statusMsg = theme.SuccessStyle.Render("Saved " + msg.path)
		}
		return m, nil

	case spinner.TickMsg:
		if m.currentView != ViewLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.currentView == ViewForm {
			break
		}
		return m.handleKeys(msg)
	}

	return m.updateActiveView(msg)
}

// handleKeys processes keys outside the form, where typed characters
// belong to huh.
func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.currentView == ViewLoading {
		// The report cannot be cancelled; only ctrl+c leaves.
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil
		}
		if m.currentView != ViewDetail {
			return m, nil
		}

	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}

	switch m.currentView {
	case ViewResults:
		switch {
		case key.Matches(msg, m.keys.Save):
			return m, m.saveExport()
		case key.Matches(msg, m.keys.NewReport):
			return m.newReport()
		case key.Matches(msg, m.keys.Open):
			if rec, ok := m.results.Selected(); ok {
				m.detail.SetRecord(rec)
				m.currentView = ViewDetail
			}
			return m, nil
		}
	case ViewError:
		if key.Matches(msg, m.keys.Retry) || key.Matches(msg, m.keys.NewReport) {
			return m.newReport()
		}
	}

	return m.updateActiveView(msg)
}

// newReport discards the current result and returns to the form.
func (m Model) newReport() (tea.Model, tea.Cmd) {
	m.results.Clear()
	m.detail.SetRecord(nil)
	m.errMessage = ""
	m.statusMsg = ""
	m.currentView = ViewForm
	return m, m.form.Reset("")
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewForm:
		m.form, cmd = m.form.Update(msg)
	case ViewResults:
		m.results, cmd = m.results.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	}

	return m, cmd
}

// generate runs the report pipeline off the UI loop. Credentials exist
// only inside this closure.
func (m Model) generate(team string, creds source.Credentials) tea.Cmd {
	g := m.generator
	return func() tea.Msg {
		res, err := g.Generate(context.Background(), team, creds)
		if err != nil {
			return reportFailedMsg{err: err}
		}
		return reportReadyMsg{result: res}
	}
}

// saveExport writes the current spreadsheet under the fixed filename.
func (m Model) saveExport() tea.Cmd {
	res := m.results.Result()
	if res == nil {
		return nil
	}
	dir := m.opts.ExportDir
	log := m.log
	return func() tea.Msg {
		path, err := report.SaveXLSX(dir, res.XLSX)
		if err != nil {
			log.Error().Err(err).Str("run_id", res.RunID).Msg("saving export failed")
		} else {
			log.Info().Str("run_id", res.RunID).Str("path", path).Msg("export saved")
		}
		return exportSavedMsg{path: path, err: err}
	}
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(m.headerStatus())
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, m.renderContent(), statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewForm:
		return m.form.View()
	case ViewLoading:
		return lipgloss.NewStyle().Padding(1, 2).Render(
			fmt.Sprintf("%s Fetching issues for %s...", m.spinner.View(), m.team),
		)
	case ViewResults:
		return m.results.View()
	case ViewError:
		title := "Report failed"
		if m.failure == report.FailureHTTP {
			title = "Jira request failed"
		}
		return lipgloss.NewStyle().Padding(1, 2).Render(
			theme.ErrorTitleStyle.Render(title) + "\n\n" + m.errMessage,
		)
	case ViewHelp:
		return m.helpView.View()
	case ViewDetail:
		return m.detail.View()
	default:
		return ""
	}
}

// headerStatus describes the current run in the header.
func (m Model) headerStatus() ui.Header {
	switch m.currentView {
	case ViewLoading:
		return ui.Header{Team: m.team, State: "fetching"}
	case ViewResults, ViewDetail:
		if res := m.results.Result(); res != nil {
			return ui.Header{Team: res.Team, Issues: res.Table.Len()}
		}
	case ViewError:
		return ui.Header{Team: m.team, State: "failed"}
	}
	return ui.Header{}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.statusMsg != "" && m.currentView == ViewResults {
		return m.statusMsg
	}

	switch m.currentView {
	case ViewForm:
		return "enter next/submit | shift+tab back | ctrl+c quit"
	case ViewLoading:
		return "ctrl+c quit"
	case ViewResults:
		return fmt.Sprintf("j/k scroll | enter detail | s save %s | n new report | ? help | q quit", report.ExportFilename)
	case ViewDetail:
		return "j/k scroll | esc back | q quit"
	case ViewError:
		return "enter back to form | q quit"
	case ViewHelp:
		return "? close help | esc back"
	default:
		return ""
	}
}
