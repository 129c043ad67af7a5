// Package testjsonl provides shared JSONL fixture builders for
// Claude Code session test data. Used by the session, analytics,
// and server test packages.
package testjsonl

import (
	"encoding/json"
	"strings"
)

// EventOpts holds optional fields for a session event line.
type EventOpts struct {
	ParentUUID  string
	SessionID   string
	Model       string
	IsSidechain bool

	InputTokens         int
	OutputTokens        int
	CacheReadTokens     int
	CacheCreationTokens int
}

// UserJSON returns a user event with string content as a JSON
// string.
func UserJSON(
	uuid, timestamp, content string, opts ...EventOpts,
) string {
	return eventJSON("user", uuid, timestamp, content, opts...)
}

// AssistantJSON returns an assistant event as a JSON string. The
// content may be a string or a block list.
func AssistantJSON(
	uuid, timestamp string, content any, opts ...EventOpts,
) string {
	return eventJSON("assistant", uuid, timestamp, content, opts...)
}

// TextBlocks wraps texts as a list of text content blocks.
func TextBlocks(texts ...string) []map[string]string {
	var blocks []map[string]string
	for _, text := range texts {
		blocks = append(blocks, map[string]string{
			"type": "text",
			"text": text,
		})
	}
	return blocks
}

// SnapshotJSON returns a file-history-snapshot record, which the
// parser skips.
func SnapshotJSON(timestamp string) string {
	return mustMarshal(map[string]any{
		"type":      "file-history-snapshot",
		"timestamp": timestamp,
		"snapshot":  map[string]any{"files": []string{}},
	})
}

// SystemJSON returns a system event as a JSON string.
func SystemJSON(uuid, timestamp, content string) string {
	return mustMarshal(map[string]any{
		"type":      "system",
		"uuid":      uuid,
		"timestamp": timestamp,
		"content":   content,
	})
}

func eventJSON(
	eventType, uuid, timestamp string, content any,
	opts ...EventOpts,
) string {
	msg := map[string]any{
		"role":    eventType,
		"content": content,
	}
	m := map[string]any{
		"type":      eventType,
		"uuid":      uuid,
		"timestamp": timestamp,
		"message":   msg,
	}
	if len(opts) == 0 {
		return mustMarshal(m)
	}

	o := opts[0]
	if o.ParentUUID != "" {
		m["parentUuid"] = o.ParentUUID
	}
	if o.SessionID != "" {
		m["sessionId"] = o.SessionID
	}
	if o.IsSidechain {
		m["isSidechain"] = true
	}
	if o.Model != "" {
		msg["model"] = o.Model
	}
	if o.InputTokens != 0 || o.OutputTokens != 0 ||
		o.CacheReadTokens != 0 || o.CacheCreationTokens != 0 {
		msg["usage"] = map[string]any{
			"input_tokens":            o.InputTokens,
			"output_tokens":           o.OutputTokens,
			"cache_read_input_tokens": o.CacheReadTokens,
			"cache_creation": map[string]any{
				"ephemeral_5m_input_tokens": o.CacheCreationTokens,
			},
		}
	}
	return mustMarshal(m)
}

// JoinJSONL joins JSON lines with newlines and appends a trailing
// newline.
func JoinJSONL(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

// SessionBuilder constructs JSONL session content using a fluent
// API.
type SessionBuilder struct {
	lines []string
}

// NewSessionBuilder returns a new empty SessionBuilder.
func NewSessionBuilder() *SessionBuilder {
	return &SessionBuilder{}
}

// AddUser appends a user event line.
func (b *SessionBuilder) AddUser(
	uuid, timestamp, content string, opts ...EventOpts,
) *SessionBuilder {
	b.lines = append(b.lines, UserJSON(uuid, timestamp, content, opts...))
	return b
}

// AddAssistant appends an assistant event line with a single text
// block.
func (b *SessionBuilder) AddAssistant(
	uuid, timestamp, text string, opts ...EventOpts,
) *SessionBuilder {
	b.lines = append(b.lines, AssistantJSON(
		uuid, timestamp, TextBlocks(text), opts...,
	))
	return b
}

// AddSnapshot appends a file-history-snapshot line.
func (b *SessionBuilder) AddSnapshot(
	timestamp string,
) *SessionBuilder {
	b.lines = append(b.lines, SnapshotJSON(timestamp))
	return b
}

// AddRaw appends an arbitrary raw line.
func (b *SessionBuilder) AddRaw(line string) *SessionBuilder {
	b.lines = append(b.lines, line)
	return b
}

// String returns the JSONL content with a trailing newline.
func (b *SessionBuilder) String() string {
	return strings.Join(b.lines, "\n") + "\n"
}

func mustMarshal(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
