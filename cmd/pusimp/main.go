// Package main provides the entry point for the pusimp CLI tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/python-pusimp/go-pusimp/cmd/pusimp/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pusimp",
		Short: "Detect Python dependencies shadowed by user-site installs",
		Long: `pusimp verifies that the dependencies of a system-installed Python package
are imported from the system package manager's location and not from a
local pip install.

Commands:
  check     Check a guard manifest
  version   Show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	err := rootCmd.Execute()
	if errors.Is(err, commands.ErrProblemsFound) {
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
