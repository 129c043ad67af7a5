package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/joshpeak/claude-sessions/internal/config"
	"github.com/joshpeak/claude-sessions/internal/project"
)

func newProjectsCmd() *cobra.Command {
	var (
		projectsDir string
		formatFlag  string
	)

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects with their resolved paths",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := effectiveDir(projectsDir)
			if err != nil {
				return err
			}
			resolver, err := project.NewResolver(dir)
			if err != nil {
				return err
			}
			infos := resolver.ResolveAll()
			return writeProjects(
				cmd.OutOrStdout(), infos, formatFlag,
			)
		},
	}

	cmd.Flags().StringVar(&projectsDir, "projects", "",
		"Projects directory (env: PROJECTS_PATH)")
	cmd.Flags().StringVar(&formatFlag, "format", "",
		"Output format: table, plain, or json (default: table "+
			"on a terminal, plain otherwise)")
	return cmd
}

// effectiveDir resolves the projects directory from the flag or the
// configured fallback chain.
func effectiveDir(flag string) (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	if flag != "" {
		cfg.ProjectsDir = flag
	}
	return cfg.EffectiveProjectsDir()
}

// defaultFormat picks table output on a terminal, plain when piped.
func defaultFormat() string {
	if isatty.IsTerminal(os.Stdout.Fd()) ||
		isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return "table"
	}
	return "plain"
}

func writeProjects(
	w io.Writer, infos []project.ProjectInfo, format string,
) error {
	if format == "" {
		format = defaultFormat()
	}
	switch strings.ToLower(format) {
	case "table":
		return writeProjectsTable(w, infos)
	case "plain":
		return writeProjectsPlain(w, infos)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeProjectsTable(
	w io.Writer, infos []project.ProjectInfo,
) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"name", "path", "source"})
	for _, info := range infos {
		path := info.ProjectPath
		if path == "" {
			path = info.ProjectID
		}
		tw.AppendRow(table.Row{
			info.ProjectName, path, info.ResolutionSource,
		})
	}
	tw.Render()
	return nil
}

func writeProjectsPlain(
	w io.Writer, infos []project.ProjectInfo,
) error {
	for _, info := range infos {
		_, err := fmt.Fprintf(
			w, "%s\t%s\t%s\t%s\n",
			info.ProjectID, info.ProjectName,
			info.ProjectPath, info.ResolutionSource,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
