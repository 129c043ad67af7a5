// Package main provides the claude-sessions CLI: a local analytics
// server and tooling for Claude Code session data.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "claude-sessions",
	Short:   "Browse and analyze Claude Code session logs",
	Version: version,
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newProjectsCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newEncodeCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "claude-sessions: %v\n", err)
		os.Exit(1)
	}
}
