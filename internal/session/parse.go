package session

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

// skipTypes lists record types that never materialize as events.
// Progress and queue-operation records are kept for completeness.
var skipTypes = map[string]bool{
	"file-history-snapshot": true,
}

// ParseEventLine parses a single JSONL line into a SessionEvent.
// The second return value is false when the line should be skipped:
// invalid JSON, a missing type discriminator, or a type in the skip
// set. Skipping is expected behavior, not an error.
func ParseEventLine(
	line, path string, lineNumber int, isSubagent bool,
) (SessionEvent, bool) {
	line = strings.TrimSpace(line)
	if line == "" || !gjson.Valid(line) {
		return SessionEvent{}, false
	}

	eventType := gjson.Get(line, "type").Str
	if eventType == "" || skipTypes[eventType] {
		return SessionEvent{}, false
	}

	ev := SessionEvent{
		UUID:           gjson.Get(line, "uuid").Str,
		ParentUUID:     gjson.Get(line, "parentUuid").Str,
		EventType:      eventType,
		Timestamp:      gjson.Get(line, "timestamp").Str,
		SessionID:      gjson.Get(line, "sessionId").Str,
		IsSidechain:    gjson.Get(line, "isSidechain").Bool(),
		Filepath:       path,
		LineNumber:     lineNumber,
		IsSubagentFile: isSubagent,
		RawEvent:       json.RawMessage(line),
	}
	ev.ParsedTime = parseTimestamp(ev.Timestamp)

	if isSubagent {
		ev.AgentSlug = ExtractAgentSlug(path)
	}

	if msg := gjson.Get(line, "message"); msg.IsObject() {
		ev.MessageRole = msg.Get("role").Str
		ev.MessageContent = extractContent(msg.Get("content"))
		ev.ModelID = msg.Get("model").Str

		if usage := msg.Get("usage"); usage.IsObject() {
			ev.InputTokens = tokenCount(usage.Get("input_tokens"))
			ev.OutputTokens = tokenCount(usage.Get("output_tokens"))
			ev.CacheReadTokens = tokenCount(
				usage.Get("cache_read_input_tokens"),
			)
			ev.CacheCreationTokens = tokenCount(
				usage.Get("cache_creation.ephemeral_5m_input_tokens"),
			)
		}
	}

	return ev, true
}

// extractContent classifies a message content field as plain text,
// a block list, or some other JSON value kept verbatim. Blocks are
// preserved as raw JSON, not reinterpreted.
func extractContent(content gjson.Result) MessageContent {
	switch {
	case !content.Exists():
		return MessageContent{Kind: ContentNone}
	case content.Type == gjson.String:
		return MessageContent{Kind: ContentText, Text: content.Str}
	case content.IsArray():
		var blocks []json.RawMessage
		content.ForEach(func(_, block gjson.Result) bool {
			blocks = append(
				blocks, json.RawMessage(block.Raw),
			)
			return true
		})
		return MessageContent{Kind: ContentBlocks, Blocks: blocks}
	default:
		return MessageContent{
			Kind: ContentOther,
			Raw:  json.RawMessage(content.Raw),
		}
	}
}

// tokenCount reads a usage counter defensively: missing or
// wrong-typed values become zero, and counters are never negative.
// One bad counter never fails the record.
func tokenCount(v gjson.Result) int {
	if v.Type != gjson.Number {
		return 0
	}
	n := v.Int()
	if n < 0 {
		return 0
	}
	return int(n)
}

// ExtractAgentSlug derives the agent slug from a subagent filename
// like agent-acompact-53e7c1.jsonl. The trailing hash segment is
// stripped; the slug itself may contain hyphens. Filenames without
// the agent- prefix yield no slug.
func ExtractAgentSlug(path string) string {
	stem := strings.TrimSuffix(
		filepath.Base(path), filepath.Ext(path),
	)
	rest, ok := strings.CutPrefix(stem, "agent-")
	if !ok {
		return ""
	}
	if i := strings.LastIndex(rest, "-"); i >= 0 {
		return rest[:i]
	}
	return rest
}

// ParseFile parses all events from a JSONL file. A missing or
// unreadable file contributes zero events — local session data comes
// and goes, so absence is not an error.
func ParseFile(path string, isSubagent bool) []SessionEvent {
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("reading %s: %v", path, err)
		}
		return nil
	}
	defer f.Close()

	var events []SessionEvent
	lr := newLineReader(f, maxLineSize)
	for {
		line, lineNo, ok := lr.next()
		if !ok {
			break
		}
		if ev, ok := ParseEventLine(
			line, path, lineNo, isSubagent,
		); ok {
			events = append(events, ev)
		}
	}
	return events
}
