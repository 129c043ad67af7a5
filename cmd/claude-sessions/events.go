package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshpeak/claude-sessions/internal/session"
)

func newEventsCmd() *cobra.Command {
	var (
		projectsDir string
		eventUUID   string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "events <project-id> <session-id>",
		Short: "Dump the assembled event list for a session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := effectiveDir(projectsDir)
			if err != nil {
				return err
			}
			events := session.ParseSession(dir, args[0], args[1])
			if eventUUID != "" {
				events = session.FilterEventTree(
					events, eventUUID,
				)
			}
			if asJSON {
				return writeEventsJSONL(
					cmd.OutOrStdout(), events,
				)
			}
			return writeEventsPlain(cmd.OutOrStdout(), events)
		},
	}

	cmd.Flags().StringVar(&projectsDir, "projects", "",
		"Projects directory (env: PROJECTS_PATH)")
	cmd.Flags().StringVar(&eventUUID, "event-uuid", "",
		"Only the subtree rooted at this event UUID")
	cmd.Flags().BoolVar(&asJSON, "json", false,
		"Emit events as JSONL instead of a readable listing")
	return cmd
}

func writeEventsJSONL(
	w io.Writer, events []session.SessionEvent,
) error {
	enc := json.NewEncoder(w)
	for _, ev := range events {
		if err := enc.Encode(ev); err != nil {
			return err
		}
	}
	return nil
}

func writeEventsPlain(
	w io.Writer, events []session.SessionEvent,
) error {
	for _, ev := range events {
		ts := ""
		if !ev.ParsedTime.IsZero() {
			ts = ev.ParsedTime.Format("2006-01-02 15:04:05")
		}
		origin := ""
		if ev.IsSubagentFile {
			origin = " [" + ev.AgentSlug + "]"
		}
		_, err := fmt.Fprintf(
			w, "%s  %-9s%s  %s\n",
			ts, ev.EventType, origin, eventPreview(ev),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// eventPreview renders a one-line summary of an event's content.
func eventPreview(ev session.SessionEvent) string {
	var text string
	switch ev.MessageContent.Kind {
	case session.ContentText:
		text = ev.MessageContent.Text
	case session.ContentBlocks:
		text = fmt.Sprintf(
			"(%d content blocks)", len(ev.MessageContent.Blocks),
		)
	default:
		text = ev.UUID
	}
	text = strings.ReplaceAll(text, "\n", " ")
	if len(text) > 80 {
		text = text[:77] + "..."
	}
	return text
}
