// Command satman is an interactive record manager for SAT candidate results.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/satman/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
