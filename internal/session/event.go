// Package session parses Claude Code JSONL session files into
// normalized events, assembles whole sessions (including subagent
// files), and filters event trees by parent/child linkage.
package session

import (
	"encoding/json"
	"time"
)

// ContentKind discriminates the encodings of a message content field.
type ContentKind int

const (
	// ContentNone means the record carried no message content.
	ContentNone ContentKind = iota
	// ContentText is a plain string.
	ContentText
	// ContentBlocks is an ordered list of content blocks.
	ContentBlocks
	// ContentOther is any other JSON value, preserved verbatim.
	ContentOther
)

// MessageContent holds message content, which in session data is
// either a plain string or an ordered list of typed blocks. Blocks
// are kept as raw JSON and never reinterpreted.
type MessageContent struct {
	Kind   ContentKind
	Text   string            // set when Kind == ContentText
	Blocks []json.RawMessage // set when Kind == ContentBlocks
	Raw    json.RawMessage   // set when Kind == ContentOther
}

// MarshalJSON writes the content back in its original shape.
func (c MessageContent) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case ContentText:
		return json.Marshal(c.Text)
	case ContentBlocks:
		if c.Blocks == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(c.Blocks)
	case ContentOther:
		return append([]byte(nil), c.Raw...), nil
	default:
		return []byte("null"), nil
	}
}

// SessionEvent is a single normalized record from a session JSONL
// file. Every materialized event corresponds to exactly one
// non-skipped line in exactly one source file.
type SessionEvent struct {
	// Identification. ParentUUID may be empty (root) or reference a
	// UUID outside the observed set (orphan — tolerated).
	UUID       string `json:"uuid"`
	ParentUUID string `json:"parent_uuid"`
	EventType  string `json:"event_type"`

	// Timestamp holds the raw string from the record; ParsedTime is
	// zero when the field is absent or unparseable.
	Timestamp  string    `json:"timestamp"`
	ParsedTime time.Time `json:"-"`

	SessionID string `json:"session_id"`

	IsSidechain bool   `json:"is_sidechain"`
	AgentSlug   string `json:"agent_slug"`

	MessageRole    string         `json:"message_role"`
	MessageContent MessageContent `json:"message_content"`
	ModelID        string         `json:"model_id"`

	InputTokens         int `json:"input_tokens"`
	OutputTokens        int `json:"output_tokens"`
	CacheReadTokens     int `json:"cache_read_tokens"`
	CacheCreationTokens int `json:"cache_creation_tokens"`

	// Provenance.
	Filepath       string `json:"filepath"`
	LineNumber     int    `json:"line_number"`
	IsSubagentFile bool   `json:"is_subagent_file"`

	// RawEvent is the complete original record, kept verbatim for
	// the expandable JSON view.
	RawEvent json.RawMessage `json:"message_json"`
}
