package cmd

import (
	"github.com/spf13/cobra"

	"github.com/stevelan1995/taskgrid/pkg/cli/output"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the client version",
	RunE: func(cmd *cobra.Command, args []string) error {
		output.Info("taskgrid %s", Version)
		return nil
	},
}
