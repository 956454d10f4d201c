package types

// RepositorySnapshot is a point-in-time textual capture of a repository:
// a summary line, a rendered file tree, and per-file text content. A
// snapshot is built fresh per request and discarded after the analysis
// that consumes it.
type RepositorySnapshot struct {
	RepositoryName string            `json:"repository_name"`
	Summary        string            `json:"summary"`
	Tree           string            `json:"tree"`
	Content        map[string]string `json:"content"`
}
