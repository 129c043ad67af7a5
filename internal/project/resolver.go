// Package project resolves encoded Claude Code project directory
// names back to their original filesystem paths.
//
// The Claude Code CLI stores session data in directories named with
// encoded paths: /Users/alice/play/myproject becomes
// -Users-alice-play-myproject. The encoding replaces every path
// separator with a hyphen, so hyphens that were part of a name are
// indistinguishable from separators — the encoding is lossy.
//
// Resolution tries, in order: the project's sessions-index.json
// (authoritative), greedy filesystem-validated decoding, and a
// best-effort display name. Results are cached per resolver.
package project

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Resolution sources, in order of preference.
const (
	SourceSessionsIndex = "sessions-index"
	SourceHeuristic     = "heuristic"
	SourceUnresolved    = "unresolved"
)

// ProjectInfo is the immutable result of resolving one project ID.
type ProjectInfo struct {
	// ProjectID is the encoded directory name,
	// e.g. "-Users-alice-play-myproject".
	ProjectID string `json:"project_id"`

	// ProjectPath is the original filesystem path, empty when
	// unresolved.
	ProjectPath string `json:"project_path"`

	// ProjectName is a human-friendly display name, always set.
	ProjectName string `json:"project_name"`

	// ResolutionSource records which strategy produced the result.
	ResolutionSource string `json:"resolution_source"`
}

// IsResolved reports whether the original path was recovered.
func (p ProjectInfo) IsResolved() bool {
	return p.ProjectPath != ""
}

// Resolver maps encoded project IDs to ProjectInfo, caching results
// for its own lifetime. The cache is guarded internally, so a
// concurrent host (the HTTP server) can share one resolver.
type Resolver struct {
	projectsDir string

	mu    sync.RWMutex
	cache map[string]ProjectInfo

	// strategies are tried in order; the first hit wins.
	strategies []func(projectID string) (ProjectInfo, bool)
}

// NewResolver creates a resolver rooted at projectsDir. A missing
// root is a hard error: no resolution is possible in that state.
func NewResolver(projectsDir string) (*Resolver, error) {
	if _, err := os.Stat(projectsDir); err != nil {
		return nil, fmt.Errorf(
			"projects path does not exist: %s", projectsDir,
		)
	}
	r := &Resolver{
		projectsDir: projectsDir,
		cache:       make(map[string]ProjectInfo),
	}
	r.strategies = []func(string) (ProjectInfo, bool){
		r.fromSessionsIndex,
		r.fromHeuristics,
	}
	return r, nil
}

// Resolve maps a project ID to its original path. Results are
// cached until ClearCache.
func (r *Resolver) Resolve(projectID string) ProjectInfo {
	r.mu.RLock()
	info, ok := r.cache[projectID]
	r.mu.RUnlock()
	if ok {
		return info
	}

	info = r.resolveUncached(projectID)

	r.mu.Lock()
	r.cache[projectID] = info
	r.mu.Unlock()
	return info
}

func (r *Resolver) resolveUncached(projectID string) ProjectInfo {
	for _, strategy := range r.strategies {
		if info, ok := strategy(projectID); ok {
			return info
		}
	}
	return ProjectInfo{
		ProjectID:        projectID,
		ProjectName:      extractNameFromID(projectID),
		ResolutionSource: SourceUnresolved,
	}
}

// sessionsIndex is the consumed shape of sessions-index.json. Only
// the first entry's projectPath is read; all entries record the
// same path.
type sessionsIndex struct {
	Entries []struct {
		ProjectPath string `json:"projectPath"`
	} `json:"entries"`
}

// fromSessionsIndex reads the authoritative original path recorded
// at session-creation time. Malformed or incomplete index content
// falls through to the next strategy without raising.
func (r *Resolver) fromSessionsIndex(
	projectID string,
) (ProjectInfo, bool) {
	indexFile := filepath.Join(
		r.projectsDir, projectID, "sessions-index.json",
	)
	data, err := os.ReadFile(indexFile)
	if err != nil {
		return ProjectInfo{}, false
	}

	var index sessionsIndex
	if err := json.Unmarshal(data, &index); err != nil {
		log.Printf(
			"parsing sessions-index.json for %s: %v",
			projectID, err,
		)
		return ProjectInfo{}, false
	}
	if len(index.Entries) == 0 {
		return ProjectInfo{}, false
	}
	path := index.Entries[0].ProjectPath
	if path == "" {
		return ProjectInfo{}, false
	}

	return ProjectInfo{
		ProjectID:        projectID,
		ProjectPath:      path,
		ProjectName:      filepath.Base(path),
		ResolutionSource: SourceSessionsIndex,
	}, true
}

// fromHeuristics decodes the encoded ID by validating candidate
// paths against the filesystem. -Users-alice-play-claude-sessions
// could be /Users/alice/play/claude-sessions or
// /Users/alice/play/claude/sessions; at each step the longest
// hyphen-joined segment that exists on disk wins.
func (r *Resolver) fromHeuristics(
	projectID string,
) (ProjectInfo, bool) {
	encoded, ok := strings.CutPrefix(projectID, "-")
	if !ok || encoded == "" {
		// Not an encoded absolute path.
		return ProjectInfo{}, false
	}

	decoded := decodePathGreedy(encoded)
	if decoded == "" {
		return ProjectInfo{}, false
	}

	return ProjectInfo{
		ProjectID:        projectID,
		ProjectPath:      decoded,
		ProjectName:      filepath.Base(decoded),
		ResolutionSource: SourceHeuristic,
	}, true
}

// decodePathGreedy walks the hyphen-separated tokens from the
// filesystem root, consuming at each position the longest run of
// tokens that names an existing entry. When no candidate of any
// length exists the whole decode fails — no partial result. The
// greedy first match is a heuristic, not a proof: existing data
// relies on this exact policy.
func decodePathGreedy(encoded string) string {
	parts := strings.Split(encoded, "-")

	current := string(filepath.Separator)
	i := 0
	for i < len(parts) {
		found := false
		for j := len(parts); j > i; j-- {
			segment := strings.Join(parts[i:j], "-")
			candidate := filepath.Join(current, segment)
			if _, err := os.Stat(candidate); err == nil {
				current = candidate
				i = j
				found = true
				break
			}
		}
		if !found {
			return ""
		}
	}

	if current == string(filepath.Separator) {
		return ""
	}
	return current
}

// skipPrefixes are generic leading path segments that make poor
// display names.
var skipPrefixes = map[string]bool{
	"Users": true, "home": true, "var": true,
	"tmp": true, "opt": true,
}

// extractNameFromID pulls a best-effort display name out of an
// encoded ID that could not be resolved.
func extractNameFromID(projectID string) string {
	parts := strings.Split(strings.TrimLeft(projectID, "-"), "-")
	for i, part := range parts {
		if !skipPrefixes[part] {
			if i > 0 {
				// The remainder may be a hyphenated name.
				return strings.Join(parts[i:], "-")
			}
			return parts[len(parts)-1]
		}
	}
	if len(parts) > 0 && parts[len(parts)-1] != "" {
		return parts[len(parts)-1]
	}
	return projectID
}

// ResolveAll resolves every project directory under the root,
// skipping hidden entries. Each entry resolves independently; a
// failure for one never aborts the batch.
func (r *Resolver) ResolveAll() []ProjectInfo {
	entries, err := os.ReadDir(r.projectsDir)
	if err != nil {
		return nil
	}

	var infos []ProjectInfo
	for _, entry := range entries {
		if !entry.IsDir() ||
			strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		infos = append(infos, r.Resolve(entry.Name()))
	}
	return infos
}

// BuildMapping returns a complete project ID to info map.
func (r *Resolver) BuildMapping() map[string]ProjectInfo {
	infos := r.ResolveAll()
	mapping := make(map[string]ProjectInfo, len(infos))
	for _, info := range infos {
		mapping[info.ProjectID] = info
	}
	return mapping
}

// FriendlyName returns just the display name for a project.
func (r *Resolver) FriendlyName(projectID string) string {
	return r.Resolve(projectID).ProjectName
}

// ClearCache drops all cached resolutions.
func (r *Resolver) ClearCache() {
	r.mu.Lock()
	r.cache = make(map[string]ProjectInfo)
	r.mu.Unlock()
}

// EncodePath encodes a filesystem path to a project ID — the
// inverse of resolution, used for round-trip testing. Resolution
// never assumes this inverse is unambiguous: a path component
// containing a hyphen encodes identically to a separator.
func EncodePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return strings.ReplaceAll(
		abs, string(filepath.Separator), "-",
	)
}
