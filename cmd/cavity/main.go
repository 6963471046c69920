// SPDX-License-Identifier: MIT

// Command cavity solves the lid-driven cavity problem.
package main

import (
	"fmt"
	"os"

	"github.com/katalvlaran/cavity/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
