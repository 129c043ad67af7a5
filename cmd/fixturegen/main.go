// Command fixturegen writes a synthetic projects tree for local
// development and demos: a few projects, each with sessions,
// subagent files, and a sessions-index.json.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joshpeak/claude-sessions/internal/project"
)

var models = []string{
	"claude-sonnet-4-5-20250929",
	"claude-opus-4-1-20250805",
	"claude-3-5-haiku-20241022",
}

var agentSlugs = []string{"explore", "code-reviewer", "acompact"}

func main() {
	var (
		out      = flag.String("out", "projects", "output directory")
		projects = flag.Int("projects", 3, "number of projects")
		sessions = flag.Int("sessions", 4, "sessions per project")
		events   = flag.Int("events", 30, "events per session")
		seed     = flag.Int64("seed", 1, "random seed")
	)
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	for i := 0; i < *projects; i++ {
		path := fmt.Sprintf("/Users/dev/work/project-%d", i+1)
		if err := writeProject(
			rng, *out, path, *sessions, *events,
		); err != nil {
			log.Fatalf("writing %s: %v", path, err)
		}
	}
	log.Printf("wrote %d projects under %s", *projects, *out)
}

func writeProject(
	rng *rand.Rand, out, projectPath string,
	sessions, events int,
) error {
	projectID := project.EncodePath(projectPath)
	dir := filepath.Join(out, projectID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	type indexEntry struct {
		SessionID   string `json:"sessionId"`
		ProjectPath string `json:"projectPath"`
	}
	var entries []indexEntry

	start := time.Now().UTC().Add(
		-time.Duration(rng.Intn(60*24)) * time.Hour,
	)
	for i := 0; i < sessions; i++ {
		sessionID := uuid.NewString()
		entries = append(entries, indexEntry{
			SessionID:   sessionID,
			ProjectPath: projectPath,
		})
		sessionStart := start.Add(
			time.Duration(i) * 6 * time.Hour,
		)
		if err := writeSession(
			rng, dir, sessionID, sessionStart, events,
		); err != nil {
			return err
		}
	}

	index, err := json.MarshalIndent(
		map[string]any{"entries": entries}, "", "  ",
	)
	if err != nil {
		return err
	}
	return os.WriteFile(
		filepath.Join(dir, "sessions-index.json"), index, 0o644,
	)
}

func writeSession(
	rng *rand.Rand, projectDir, sessionID string,
	start time.Time, events int,
) error {
	var lines []string
	ts := start
	parent := ""
	for i := 0; i < events; i++ {
		id := uuid.NewString()
		lines = append(
			lines, eventLine(rng, id, parent, sessionID, ts, i),
		)
		parent = id
		ts = ts.Add(time.Duration(5+rng.Intn(120)) * time.Second)
	}

	path := filepath.Join(projectDir, sessionID+".jsonl")
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return err
	}

	// Roughly a third of sessions get a subagent file.
	if rng.Intn(3) != 0 {
		return nil
	}
	subDir := filepath.Join(projectDir, sessionID, "subagents")
	if err := os.MkdirAll(subDir, 0o755); err != nil {
		return err
	}
	slug := agentSlugs[rng.Intn(len(agentSlugs))]
	name := fmt.Sprintf(
		"agent-%s-%s.jsonl", slug, uuid.NewString()[:6],
	)
	subLines := []string{
		eventLine(rng, uuid.NewString(), "", sessionID, start, 0),
		eventLine(rng, uuid.NewString(), "", sessionID,
			start.Add(time.Minute), 1),
	}
	return os.WriteFile(
		filepath.Join(subDir, name),
		[]byte(strings.Join(subLines, "\n")+"\n"), 0o644,
	)
}

func eventLine(
	rng *rand.Rand, id, parent, sessionID string,
	ts time.Time, seq int,
) string {
	m := map[string]any{
		"uuid":      id,
		"sessionId": sessionID,
		"timestamp": ts.Format(time.RFC3339),
	}
	if parent != "" {
		m["parentUuid"] = parent
	}
	if seq%2 == 0 {
		m["type"] = "user"
		m["message"] = map[string]any{
			"role":    "user",
			"content": fmt.Sprintf("request %d", seq),
		}
	} else {
		m["type"] = "assistant"
		m["message"] = map[string]any{
			"role": "assistant",
			"content": []map[string]string{{
				"type": "text",
				"text": fmt.Sprintf("response %d", seq),
			}},
			"model": models[rng.Intn(len(models))],
			"usage": map[string]any{
				"input_tokens":            rng.Intn(5000),
				"output_tokens":           rng.Intn(2000),
				"cache_read_input_tokens": rng.Intn(200000),
				"cache_creation": map[string]any{
					"ephemeral_5m_input_tokens": rng.Intn(20000),
				},
			},
		}
	}
	b, err := json.Marshal(m)
	if err != nil {
		panic(err)
	}
	return string(b)
}
