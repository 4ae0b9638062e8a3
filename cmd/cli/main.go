package main

import (
	"fmt"
	"os"

	"github.com/stevelan1995/taskgrid/pkg/cli/cmd"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cmd.Version = version
	if err := cmd.RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
