package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joshpeak/claude-sessions/internal/testjsonl"
)

// writeSession lays out a session on disk: the main JSONL file and
// optional subagent files keyed by filename.
func writeSession(
	t *testing.T, projectsDir, projectID, sessionID string,
	main string, subagents map[string]string,
) {
	t.Helper()
	projectDir := filepath.Join(projectsDir, projectID)
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if main != "" {
		path := filepath.Join(projectDir, sessionID+".jsonl")
		if err := os.WriteFile(path, []byte(main), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if len(subagents) > 0 {
		subDir := filepath.Join(projectDir, sessionID, "subagents")
		if err := os.MkdirAll(subDir, 0o755); err != nil {
			t.Fatal(err)
		}
		for name, content := range subagents {
			path := filepath.Join(subDir, name)
			err := os.WriteFile(path, []byte(content), 0o644)
			if err != nil {
				t.Fatal(err)
			}
		}
	}
}

func TestParseSessionOrdering(t *testing.T) {
	dir := t.TempDir()

	// Out of order in the file; assembly sorts by timestamp.
	main := testjsonl.NewSessionBuilder().
		AddUser("u3", "2025-06-15T10:03:00Z", "third").
		AddUser("u1", "2025-06-15T10:01:00Z", "first").
		AddUser("u2", "2025-06-15T10:02:00Z", "second").
		String()
	writeSession(t, dir, "-Users-a-proj", "s1", main, nil)

	events := ParseSession(dir, "-Users-a-proj", "s1")
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	want := []string{"u1", "u2", "u3"}
	for i, uuid := range want {
		if events[i].UUID != uuid {
			t.Errorf("events[%d].UUID = %q, want %q",
				i, events[i].UUID, uuid)
		}
	}
}

func TestParseSessionZeroTimestampsLast(t *testing.T) {
	dir := t.TempDir()

	main := testjsonl.NewSessionBuilder().
		AddUser("no-ts-1", "", "a").
		AddUser("u1", "2025-06-15T10:01:00Z", "b").
		AddUser("no-ts-2", "junk", "c").
		String()
	writeSession(t, dir, "-Users-a-proj", "s1", main, nil)

	events := ParseSession(dir, "-Users-a-proj", "s1")
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].UUID != "u1" {
		t.Errorf("events[0].UUID = %q, want u1", events[0].UUID)
	}
	// Untimestamped events keep their relative file order.
	if events[1].UUID != "no-ts-1" || events[2].UUID != "no-ts-2" {
		t.Errorf("tail = %q, %q, want no-ts-1, no-ts-2",
			events[1].UUID, events[2].UUID)
	}
}

func TestParseSessionWithSubagents(t *testing.T) {
	dir := t.TempDir()

	main := testjsonl.JoinJSONL(
		testjsonl.UserJSON("m1", "2025-06-15T10:00:00Z", "start"),
		testjsonl.UserJSON("m2", "2025-06-15T10:04:00Z", "end"),
	)
	sub := testjsonl.JoinJSONL(
		testjsonl.UserJSON("a1", "2025-06-15T10:02:00Z", "task"),
	)
	writeSession(t, dir, "-Users-a-proj", "s1", main,
		map[string]string{"agent-explore-ab12.jsonl": sub})

	events := ParseSession(dir, "-Users-a-proj", "s1")
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	// Subagent event interleaves by timestamp.
	if events[1].UUID != "a1" {
		t.Errorf("events[1].UUID = %q, want a1", events[1].UUID)
	}
	if !events[1].IsSubagentFile {
		t.Error("expected subagent provenance")
	}
	if events[1].AgentSlug != "explore" {
		t.Errorf("slug = %q, want explore", events[1].AgentSlug)
	}
	if events[0].IsSubagentFile || events[2].IsSubagentFile {
		t.Error("main file events flagged as subagent")
	}
}

func TestParseSessionSubagentsOnly(t *testing.T) {
	dir := t.TempDir()

	sub := testjsonl.JoinJSONL(
		testjsonl.UserJSON("a1", "2025-06-15T10:00:00Z", "solo"),
	)
	writeSession(t, dir, "-Users-a-proj", "s1", "",
		map[string]string{"agent-fix-cd34.jsonl": sub})

	events := ParseSession(dir, "-Users-a-proj", "s1")
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].AgentSlug != "fix" {
		t.Errorf("slug = %q, want fix", events[0].AgentSlug)
	}
}

func TestParseSessionMissing(t *testing.T) {
	events := ParseSession(t.TempDir(), "-Users-a-proj", "gone")
	if len(events) != 0 {
		t.Errorf("got %d events for missing session", len(events))
	}
}

func TestParseSessionIgnoresNonJSONLSubagents(t *testing.T) {
	dir := t.TempDir()
	writeSession(t, dir, "-Users-a-proj", "s1", "",
		map[string]string{"notes.txt": "not jsonl"})

	events := ParseSession(dir, "-Users-a-proj", "s1")
	if len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
}
