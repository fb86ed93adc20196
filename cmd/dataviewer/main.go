package main

import (
	"os"

	"github.com/rshade/dataviewer/internal/cli"
	"github.com/rshade/dataviewer/pkg/version"
)

func main() {
	os.Exit(run())
}

// run executes the root command and returns the process exit code. Cobra has
// already printed any error by the time it returns.
func run() int {
	root := cli.NewRootCmd(version.GetVersion())
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}
