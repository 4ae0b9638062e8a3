// Package cmd assembles the taskgrid cobra command tree.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is set by the build (see cmd/cli/main.go); defaults to "dev".
var Version = "dev"

var apiAddr string

// RootCmd is the entry point cmd/cli/main.go invokes.
var RootCmd = &cobra.Command{
	Use:   "taskgrid",
	Short: "Command-line client and server launcher for taskgrid",
	Long: `taskgrid drives a concurrent task-graph executor.

Use "taskgrid server start" to run the HTTP API, or "taskgrid run" /
"taskgrid schedule" against a running server to submit and watch graphs.`,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&apiAddr, "api", "http://127.0.0.1:8080", "base URL of the taskgrid API server")

	RootCmd.AddCommand(serverCmd)
	RootCmd.AddCommand(runCmd)
	RootCmd.AddCommand(scheduleCmd)
	RootCmd.AddCommand(versionCmd)
}
