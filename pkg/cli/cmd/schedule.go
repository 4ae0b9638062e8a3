package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/stevelan1995/taskgrid/pkg/cli/output"
	"github.com/stevelan1995/taskgrid/pkg/cli/taskengine"
)

var scheduleCronExpr string

var scheduleCmd = &cobra.Command{
	Use:   "schedule <graph-name>",
	Short: "Resubmit a registered graph on a cron schedule",
	Long: `Repeatedly submit a registered graph to a running taskgrid server
on a cron schedule, until interrupted.

Examples:
  taskgrid schedule chain --cron "@every 1m"
  taskgrid schedule diamond --cron "0 */5 * * * *"`,
	Args: cobra.ExactArgs(1),
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleCronExpr, "cron", "@every 1m", "cron expression (seconds field supported)")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	graphName := args[0]
	client := taskengine.New(apiAddr)

	c := cron.New(cron.WithSeconds())
	_, err := c.AddFunc(scheduleCronExpr, func() {
		runID, err := client.SubmitRun(graphName)
		if err != nil {
			output.Error("scheduled submission failed: %v", err)
			return
		}
		output.Success("scheduled submission of %q, run id %s", graphName, runID)
	})
	if err != nil {
		output.Error("invalid cron expression %q: %v", scheduleCronExpr, err)
		return err
	}

	c.Start()
	output.Info("scheduling %q with %q, press Ctrl+C to stop", graphName, scheduleCronExpr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx := c.Stop()
	<-ctx.Done()
	output.Info("stopped")
	return nil
}
