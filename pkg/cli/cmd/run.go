package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stevelan1995/taskgrid/pkg/cli/output"
	"github.com/stevelan1995/taskgrid/pkg/cli/taskengine"
)

var runWatch bool
var runPollInterval time.Duration

var runCmd = &cobra.Command{
	Use:   "run <graph-name>",
	Short: "Submit a registered graph to the API server",
	Long: `Submit a registered graph to a running taskgrid server.

Examples:
  taskgrid run chain
  taskgrid run fan-out-stress --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVarP(&runWatch, "watch", "w", false, "poll the run until it finishes")
	runCmd.Flags().DurationVar(&runPollInterval, "interval", 500*time.Millisecond, "polling interval when --watch is set")
}

func runRun(cmd *cobra.Command, args []string) error {
	graphName := args[0]
	client := taskengine.New(apiAddr)

	runID, err := client.SubmitRun(graphName)
	if err != nil {
		output.Error("submitting run: %v", err)
		return err
	}
	output.Success("submitted %q, run id %s", graphName, runID)

	if !runWatch {
		return nil
	}

	for {
		status, err := client.RunStatus(runID)
		if err != nil {
			output.Error("polling status: %v", err)
			return err
		}
		switch status.Status {
		case "running":
			time.Sleep(runPollInterval)
			continue
		case "failed":
			output.Error("run %s failed: %s", runID, status.Error)
			return fmt.Errorf("run %s failed: %s", runID, status.Error)
		default:
			output.Success("run %s %s", runID, status.Status)
			return nil
		}
	}
}
