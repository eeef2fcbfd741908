package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nhle/blocked-report/internal/app"
	"github.com/nhle/blocked-report/internal/logger"
	"github.com/nhle/blocked-report/internal/model"
	"github.com/nhle/blocked-report/internal/report"
	"github.com/nhle/blocked-report/internal/source/jira"
	"github.com/nhle/blocked-report/internal/team"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitValidation = 2
	ExitHTTP       = 3
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "blockedreport",
	Short: "Report Jira issues stuck in a blocked status",
	Long: `blockedreport lists a team's Story and Support issues that are in
Blocked Internal or Blocked External, counts the business days since each
entered that state, and exports the result as a spreadsheet.

Run without a subcommand to open the interactive report.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

// exitError carries a specific process exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return ExitOK
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitFailure
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", model.DefaultConfigPath(), "config file path")
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, teams, err := loadConfig()
	if err != nil {
		return err
	}

	log, closer, err := logger.ForTUI(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	gen := newGenerator(cfg, teams, log)
	m := app.New(gen, app.Options{
		Teams:       teams.Names(),
		DefaultTeam: teams.DefaultName(),
		ExportDir:   cfg.Export.Dir,
	}, log)

	log.Info().Str("base_url", cfg.Jira.BaseURL).Msg("starting interactive report")
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}

// loadConfig reads the configuration and builds the team registry.
func loadConfig() (*model.AppConfig, *team.Registry, error) {
	cfg, err := model.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	teams, err := cfg.TeamRegistry()
	if err != nil {
		return nil, nil, err
	}
	return cfg, teams, nil
}

// newGenerator wires the Jira client into a report generator.
func newGenerator(cfg *model.AppConfig, teams *team.Registry, log zerolog.Logger) *report.Generator {
	client := jira.NewClient(cfg.Jira.BaseURL, cfg.Jira.Timeout)
	searcher := jira.NewSearcher(client, cfg.Jira.SearchPath, cfg.Jira.PageSize, log)
	return report.NewGenerator(searcher, teams, log,
		report.WithTeamFallback(cfg.Report.TeamFallback),
	)
}
