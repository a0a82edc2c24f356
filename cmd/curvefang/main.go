// Package main provides the entry point for the curvefang CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/curvefang/cmd/curvefang/commands"
	"github.com/Sumatoshi-tech/curvefang/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "curvefang",
		Short: "Curvefang - numerical BSD-consistency explorer for elliptic curves",
		Long: `Curvefang searches elliptic curves y² = x³ + ax + b for integer rational
points, approximates L(E, 1) by a truncated Euler product, and checks the
result against the Birch–Swinnerton-Dyer prediction.

Commands:
  analyze   Analyze a single curve
  sweep     Sweep a grid of (a, b) curves with checkpointing
  config    Manage engine configuration`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add commands.
	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewSweepCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "curvefang %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
