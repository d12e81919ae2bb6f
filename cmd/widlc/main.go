package main

import (
	"os"

	"github.com/shanehandley/servo/internal/cli"
)

func main() {
	// Commands render their own diagnostics and errors; main only maps
	// the returned error to a process exit code.
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
