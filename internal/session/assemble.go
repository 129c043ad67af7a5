package session

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ParseSession assembles the complete event list for a session: the
// main <sessionID>.jsonl file plus every subagent file under
// <sessionID>/subagents/. Either source may be absent; a session
// with neither produces an empty list. The result is sorted by
// parsed timestamp ascending, events without a parsed timestamp
// last, with file order preserved among ties.
func ParseSession(
	projectsDir, projectID, sessionID string,
) []SessionEvent {
	var all []SessionEvent

	mainFile := filepath.Join(
		projectsDir, projectID, sessionID+".jsonl",
	)
	all = append(all, ParseFile(mainFile, false)...)

	subagentDir := filepath.Join(
		projectsDir, projectID, sessionID, "subagents",
	)
	if entries, err := os.ReadDir(subagentDir); err == nil {
		for _, entry := range entries {
			if entry.IsDir() ||
				!strings.HasSuffix(entry.Name(), ".jsonl") {
				continue
			}
			path := filepath.Join(subagentDir, entry.Name())
			all = append(all, ParseFile(path, true)...)
		}
	}

	sortByTimestamp(all)
	return all
}

// sortByTimestamp orders events by parsed timestamp ascending with
// zero timestamps after all others. The sort is stable so ties keep
// their original relative order.
func sortByTimestamp(events []SessionEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		ti, tj := events[i].ParsedTime, events[j].ParsedTime
		if ti.IsZero() {
			return false
		}
		if tj.IsZero() {
			return true
		}
		return ti.Before(tj)
	})
}
