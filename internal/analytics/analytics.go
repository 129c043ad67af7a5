// Package analytics answers usage queries over session data. Each
// store loads the projects tree into an in-memory SQLite database
// and runs named, embedded SQL against it; nothing derived is ever
// persisted to disk.
package analytics

import (
	"database/sql"
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/joshpeak/claude-sessions/internal/session"
)

//go:embed queries/*.sql
var queriesFS embed.FS

//go:embed data/pricing.csv
var pricingCSV []byte

const schema = `
CREATE TABLE events (
    project_id TEXT NOT NULL,
    session_id TEXT NOT NULL,
    uuid TEXT NOT NULL,
    parent_uuid TEXT NOT NULL,
    event_type TEXT NOT NULL,
    ts TEXT,
    model_id TEXT NOT NULL,
    input_tokens INTEGER NOT NULL,
    output_tokens INTEGER NOT NULL,
    cache_read_tokens INTEGER NOT NULL,
    cache_creation_tokens INTEGER NOT NULL,
    is_sidechain INTEGER NOT NULL,
    is_subagent INTEGER NOT NULL,
    agent_slug TEXT NOT NULL
);
CREATE INDEX idx_events_project ON events(project_id);
CREATE INDEX idx_events_ts ON events(ts);

CREATE TABLE pricing (
    model_prefix TEXT PRIMARY KEY,
    input_per_mtok REAL NOT NULL,
    output_per_mtok REAL NOT NULL,
    cache_read_per_mtok REAL NOT NULL,
    cache_write_per_mtok REAL NOT NULL
);
`

// tsFormat is how event timestamps are stored, chosen so SQLite's
// date functions and lexicographic comparison both work on the
// column directly.
const tsFormat = "2006-01-02 15:04:05"

// Filters narrows a query to a time window and/or one project.
// Zero values mean no filtering.
type Filters struct {
	// Days keeps only events newer than N days; 0 means all time.
	Days int
	// Project keeps only events from one project ID.
	Project string
}

func (f Filters) daysClause() string {
	if f.Days <= 0 {
		return ""
	}
	return fmt.Sprintf(
		"AND e.ts >= DATETIME('now', '-%d days')", f.Days,
	)
}

func (f Filters) projectClause() string {
	if f.Project == "" {
		return ""
	}
	// Single quotes doubled; the ID is interpolated, not bound,
	// because the clause slots into a placeholder.
	safe := strings.ReplaceAll(f.Project, "'", "''")
	return fmt.Sprintf("AND e.project_id = '%s'", safe)
}

// Store is a loaded, queryable snapshot of the projects tree.
type Store struct {
	db *sql.DB
}

// Open creates an empty in-memory store with the schema and pricing
// table in place.
func Open() (*Store, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory db: %w", err)
	}
	// The in-memory database vanishes with its last connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	s := &Store{db: db}
	if err := s.loadPricing(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) loadPricing() error {
	records, err := csv.NewReader(
		strings.NewReader(string(pricingCSV)),
	).ReadAll()
	if err != nil {
		return fmt.Errorf("parsing pricing data: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO pricing VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, rec := range records {
		if i == 0 {
			continue // header
		}
		if len(rec) != 5 {
			return fmt.Errorf(
				"pricing row %d has %d fields", i, len(rec),
			)
		}
		prices := make([]float64, 4)
		for j, field := range rec[1:] {
			prices[j], err = strconv.ParseFloat(field, 64)
			if err != nil {
				return fmt.Errorf(
					"pricing row %d: %w", i, err,
				)
			}
		}
		_, err = stmt.Exec(
			rec[0], prices[0], prices[1], prices[2], prices[3],
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadProjects walks the projects tree and inserts every parsed
// event. Unreadable files contribute nothing; only database failures
// abort the load.
func (s *Store) LoadProjects(projectsDir string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO events (
			project_id, session_id, uuid, parent_uuid,
			event_type, ts, model_id,
			input_tokens, output_tokens,
			cache_read_tokens, cache_creation_tokens,
			is_sidechain, is_subagent, agent_slug
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	walkErr := filepath.WalkDir(
		projectsDir,
		func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() ||
				!strings.HasSuffix(d.Name(), ".jsonl") {
				return nil
			}
			projectID, sessionID, isSubagent, ok :=
				classifyFile(projectsDir, path)
			if !ok {
				return nil
			}
			for _, ev := range session.ParseFile(path, isSubagent) {
				if err := insertEvent(
					stmt, projectID, sessionID, ev,
				); err != nil {
					return err
				}
			}
			return nil
		},
	)
	if walkErr != nil {
		return fmt.Errorf("loading events: %w", walkErr)
	}
	return tx.Commit()
}

// classifyFile maps a JSONL path inside the projects tree to its
// project and session. Main session files sit at
// <project>/<session>.jsonl; subagent files at
// <project>/<session>/subagents/<file>.jsonl. Anything else is
// ignored.
func classifyFile(
	projectsDir, path string,
) (projectID, sessionID string, isSubagent, ok bool) {
	rel, err := filepath.Rel(projectsDir, path)
	if err != nil {
		return "", "", false, false
	}
	parts := strings.Split(rel, string(filepath.Separator))
	switch {
	case len(parts) == 2:
		stem := strings.TrimSuffix(parts[1], ".jsonl")
		return parts[0], stem, false, true
	case len(parts) == 4 && parts[2] == "subagents":
		return parts[0], parts[1], true, true
	default:
		return "", "", false, false
	}
}

func insertEvent(
	stmt *sql.Stmt, projectID, sessionID string,
	ev session.SessionEvent,
) error {
	var ts any
	if !ev.ParsedTime.IsZero() {
		ts = ev.ParsedTime.Format(tsFormat)
	}
	sid := ev.SessionID
	if sid == "" {
		sid = sessionID
	}
	_, err := stmt.Exec(
		projectID, sid, ev.UUID, ev.ParentUUID,
		ev.EventType, ts, ev.ModelID,
		ev.InputTokens, ev.OutputTokens,
		ev.CacheReadTokens, ev.CacheCreationTokens,
		ev.IsSidechain, ev.IsSubagentFile, ev.AgentSlug,
	)
	return err
}

// Execute runs a named embedded query with the given filters and
// returns its rows as maps. Unknown names return ErrUnknownQuery.
func (s *Store) Execute(
	name string, f Filters,
) ([]map[string]any, error) {
	raw, err := queriesFS.ReadFile("queries/" + name + ".sql")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownQuery, name)
	}

	q := string(raw)
	q = strings.ReplaceAll(q, "__DAYS_FILTER__", f.daysClause())
	q = strings.ReplaceAll(q, "__PROJECT_FILTER__", f.projectClause())

	rows, err := s.db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			v := values[i]
			// TEXT columns scan as []byte through the any path.
			if b, isBytes := v.([]byte); isBytes {
				v = string(b)
			}
			row[col] = v
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// ErrUnknownQuery marks a request for a query name with no embedded
// SQL file.
var ErrUnknownQuery = errors.New("unknown query")
