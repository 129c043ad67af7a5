package server

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/joshpeak/claude-sessions/internal/analytics"
	"github.com/joshpeak/claude-sessions/internal/session"
)

func (s *Server) handleHealth(
	w http.ResponseWriter, _ *http.Request,
) {
	dir, err := s.cfg.EffectiveProjectsDir()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":        "healthy",
		"projects_path": dir,
	})
}

// queryFilters reads the shared days/project query parameters.
func queryFilters(r *http.Request) analytics.Filters {
	var f analytics.Filters
	if days, err := strconv.Atoi(
		r.URL.Query().Get("days"),
	); err == nil && days > 0 {
		f.Days = days
	}
	f.Project = r.URL.Query().Get("project")
	return f
}

// runQuery loads the current projects tree into a fresh store and
// executes one named query against it.
func (s *Server) runQuery(
	name string, f analytics.Filters,
) ([]map[string]any, error) {
	dir, err := s.cfg.EffectiveProjectsDir()
	if err != nil {
		return nil, err
	}
	store, err := analytics.Open()
	if err != nil {
		return nil, err
	}
	defer store.Close()
	if err := store.LoadProjects(dir); err != nil {
		return nil, err
	}
	return store.Execute(name, f)
}

// usageHandler builds a handler that runs the named query with the
// standard filters.
func (s *Server) usageHandler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := s.runQuery(name, queryFilters(r))
		if err != nil {
			writeError(
				w, http.StatusInternalServerError, err.Error(),
			)
			return
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

func (s *Server) handleTopProjectsWeekly(
	w http.ResponseWriter, r *http.Request,
) {
	// Default window is 8 weeks; days=0 means all time.
	f := analytics.Filters{Days: 56}
	if raw := r.URL.Query().Get("days"); raw != "" {
		if days, err := strconv.Atoi(raw); err == nil {
			f.Days = days
		}
	}
	rows, err := s.runQuery("top_projects_weekly", f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// projectSummary is one row of the projects listing.
type projectSummary struct {
	ProjectID        string  `json:"project_id"`
	ProjectName      string  `json:"project_name"`
	ProjectPath      string  `json:"project_path"`
	ResolutionSource string  `json:"resolution_source"`
	TotalCostUSD     float64 `json:"total_cost_usd"`
	SessionCount     int64   `json:"session_count"`
	EventCount       int64   `json:"event_count"`
}

// handleProjects aggregates monthly rows per project and decorates
// each with its resolved path and display name.
func (s *Server) handleProjects(
	w http.ResponseWriter, r *http.Request,
) {
	var f analytics.Filters
	if days, err := strconv.Atoi(
		r.URL.Query().Get("days"),
	); err == nil && days > 0 {
		f.Days = days
	}
	rows, err := s.runQuery("by_month", f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	byID := make(map[string]*projectSummary)
	for _, row := range rows {
		id, _ := row["project_id"].(string)
		p := byID[id]
		if p == nil {
			info := s.resolver.Resolve(id)
			p = &projectSummary{
				ProjectID:        id,
				ProjectName:      info.ProjectName,
				ProjectPath:      info.ProjectPath,
				ResolutionSource: info.ResolutionSource,
			}
			byID[id] = p
		}
		if cost, ok := row["total_cost_usd"].(float64); ok {
			p.TotalCostUSD += cost
		}
		if n, ok := row["session_count"].(int64); ok {
			p.SessionCount += n
		}
		if n, ok := row["event_count"].(int64); ok {
			p.EventCount += n
		}
	}

	projects := []projectSummary{}
	for _, p := range byID {
		projects = append(projects, *p)
	}
	sort.Slice(projects, func(i, j int) bool {
		if projects[i].TotalCostUSD != projects[j].TotalCostUSD {
			return projects[i].TotalCostUSD > projects[j].TotalCostUSD
		}
		return projects[i].ProjectID < projects[j].ProjectID
	})
	writeJSON(w, http.StatusOK, projects)
}

// eventDTO augments a session event with its timestamp rendered in
// the server's local timezone.
type eventDTO struct {
	session.SessionEvent
	TimestampLocal string `json:"timestamp_local,omitempty"`
}

// handleSessionEvents returns the assembled event list for one
// session, optionally narrowed to the subtree rooted at event_uuid.
func (s *Server) handleSessionEvents(
	w http.ResponseWriter, r *http.Request,
) {
	dir, err := s.cfg.EffectiveProjectsDir()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	projectID := r.PathValue("project")
	sessionID := r.PathValue("session")
	events := session.ParseSession(dir, projectID, sessionID)

	if root := r.URL.Query().Get("event_uuid"); root != "" {
		events = session.FilterEventTree(events, root)
	}

	dtos := []eventDTO{}
	for _, ev := range events {
		dto := eventDTO{SessionEvent: ev}
		if !ev.ParsedTime.IsZero() {
			dto.TimestampLocal = ev.ParsedTime.
				In(time.Local).Format(time.RFC3339)
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}
