// Package main provides the entry point for the linkharvest CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for linkharvest.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linkharvest",
		Short: "Concurrent one-hop link harvester",
		Long: `linkharvest fetches a set of seed URLs concurrently, extracts the
hyperlinks from each page, and appends (source, target) pairs to a
tab-separated output file.

Each seed is fetched exactly once; discovered links are recorded but
never followed. A seed that fails to fetch or parse is logged and
skipped without affecting the other seeds.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewRunsCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
