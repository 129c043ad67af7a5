package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshpeak/claude-sessions/internal/project"
)

func newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <path>",
		Short: "Encode a filesystem path as a project ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(
				cmd.OutOrStdout(), project.EncodePath(args[0]),
			)
			return err
		},
	}
}
