package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List the configured teams and their queries",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, teams, err := loadConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, name := range teams.Names() {
			marker := " "
			if name == teams.DefaultName() {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %s\n    %s\n", marker, name, teams.JQL(name))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(teamsCmd)
}
