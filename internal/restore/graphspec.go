package restore

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// GraphSpec is the dependency-graph document the engine writes
// (dg.json). Project entries stay raw; only the production contract of the
// file matters here.
type GraphSpec struct {
	Format   int                        `json:"format"`
	Restore  map[string]json.RawMessage `json:"restore"`
	Projects map[string]json.RawMessage `json:"projects"`
}

// ReadGraphSpec loads the output file of a successful invocation. The file
// is produced by a trusted target; any read or decode failure is terminal.
func ReadGraphSpec(path string) (*GraphSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("restore: read graph spec: %w", err)
	}
	var spec GraphSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("restore: parse graph spec %s: %w", path, err)
	}
	return &spec, nil
}

// ProjectPaths returns the closure of project paths in the graph, sorted.
func (g *GraphSpec) ProjectPaths() []string {
	out := make([]string, 0, len(g.Projects))
	for path := range g.Projects {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// RestorePaths returns the projects marked for restore, sorted.
func (g *GraphSpec) RestorePaths() []string {
	out := make([]string, 0, len(g.Restore))
	for path := range g.Restore {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}
