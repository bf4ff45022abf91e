// Command life runs Conway's Game of Life on a torus from the command line.
package main

import (
	"fmt"
	"os"

	"torus-life/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
