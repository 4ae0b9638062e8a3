// Command server is a convenience entry point that always starts the
// taskgrid HTTP API, equivalent to `taskgrid server start`. Prefer
// cmd/cli for interactive use; this binary exists for container images
// that only ever run the server.
package main

import (
	"fmt"
	"os"

	"github.com/stevelan1995/taskgrid/pkg/cli/cmd"
)

var version = "dev"

func main() {
	cmd.Version = version
	cmd.RootCmd.SetArgs(append([]string{"server", "start"}, os.Args[1:]...))
	if err := cmd.RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
