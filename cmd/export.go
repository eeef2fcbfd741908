package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/blocked-report/internal/logger"
	"github.com/nhle/blocked-report/internal/report"
	"github.com/nhle/blocked-report/internal/source"
)

// TokenEnvVar holds the Jira API token for non-interactive runs.
const TokenEnvVar = "JIRA_API_TOKEN"

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Generate the report and write the spreadsheet without the UI",
	Long: `Generates the blocked-issues report for one team and writes
blocked_issues.xlsx. The API token is read from $JIRA_API_TOKEN.

Exit codes: 0 success, 2 missing credentials, 3 Jira HTTP error, 1 other failure.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("team", "", "team to report on (default from config)")
	exportCmd.Flags().String("email", "", "Jira account email")
	exportCmd.Flags().String("out", "", "output directory (default from config)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, teams, err := loadConfig()
	if err != nil {
		return err
	}

	teamName, _ := cmd.Flags().GetString("team")
	email, _ := cmd.Flags().GetString("email")
	outDir, _ := cmd.Flags().GetString("out")
	if teamName == "" {
		teamName = teams.DefaultName()
	}
	if outDir == "" {
		outDir = cfg.Export.Dir
	}

	log := logger.New(cfg.Log, cmd.ErrOrStderr(), true)
	gen := newGenerator(cfg, teams, log)

	creds := source.Credentials{Email: email, Token: os.Getenv(TokenEnvVar)}
	res, err := gen.Generate(context.Background(), teamName, creds)
	if err != nil {
		return exportFailure(err)
	}

	path, err := report.SaveXLSX(outDir, res.XLSX)
	if err != nil {
		return &exitError{code: ExitFailure, err: fmt.Errorf("saving export: %w", err)}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d blocked issue(s) for %s written to %s\n",
		res.Table.Len(), res.Team, path)
	return nil
}

// exportFailure maps a report failure to its exit code and user message.
func exportFailure(err error) error {
	code := ExitFailure
	switch report.Classify(err) {
	case report.FailureValidation:
		code = ExitValidation
	case report.FailureHTTP:
		code = ExitHTTP
	}
	return &exitError{code: code, err: errors.New(report.Describe(err))}
}
