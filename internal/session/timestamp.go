package session

import "time"

// timestampLayouts lists accepted encodings, most common first.
// RFC3339Nano covers both the trailing-Z shorthand and explicit
// offsets; the remaining layouts cover zone-less variants seen in
// older session files.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// parseTimestamp parses a session timestamp string, returning the
// zero time for empty or unparseable input. Results are normalized
// to UTC; zone-less layouts are taken as UTC.
func parseTimestamp(ts string) time.Time {
	if ts == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
