package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stevelan1995/taskgrid/pkg/api"
	"github.com/stevelan1995/taskgrid/pkg/cli/output"
	"github.com/stevelan1995/taskgrid/pkg/config"
	"github.com/stevelan1995/taskgrid/pkg/core/executor"
	"github.com/stevelan1995/taskgrid/pkg/examples"
	"github.com/stevelan1995/taskgrid/pkg/messaging"
	"github.com/stevelan1995/taskgrid/pkg/registry"
	"github.com/stevelan1995/taskgrid/pkg/storage/factory"
)

var serverConfigPath string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Manage the taskgrid API server",
}

var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the HTTP API server",
	Long: `Start the taskgrid HTTP API server.

Examples:
  taskgrid server start
  taskgrid server start --config ./configs/taskgrid.yaml`,
	RunE: runServerStart,
}

func init() {
	serverStartCmd.Flags().StringVarP(&serverConfigPath, "config", "c", "", "path to a taskgrid.yaml config file")
	serverCmd.AddCommand(serverStartCmd)
}

func runServerStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serverConfigPath)
	if err != nil {
		output.Error("loading config: %v", err)
		return err
	}
	if err := config.Validate(cfg); err != nil {
		output.Error("invalid config: %v", err)
		return err
	}

	exec, err := executor.NewExecutor(cfg.Workers.Host, executor.WithCUDAWorkers(cfg.Workers.CUDA))
	if err != nil {
		output.Error("creating executor: %v", err)
		return err
	}
	defer exec.Shutdown()

	store, err := factory.Open(cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		output.Error("opening storage: %v", err)
		return err
	}
	defer store.Close()

	bus := messaging.NewBus(cfg.Bus.Buffer, cfg.Mode == "dev")
	defer bus.Close()
	exec.MakeObserver(messaging.NewBusObserver(bus))

	reg := registry.New()
	examples.RegisterAll(reg)

	svc := api.NewService(exec, reg, store, bus, Version)
	server := api.NewServer(svc, cfg.API, Version)

	go func() {
		if err := server.Start(); err != nil {
			output.Error("api server: %v", err)
		}
	}()

	output.Success("taskgrid server listening on %s:%d", cfg.API.Host, cfg.API.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	output.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		output.Error("shutdown: %v", err)
		return err
	}

	output.Success("stopped")
	return nil
}
