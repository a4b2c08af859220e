package git

import "github.com/masmgr/graphlog-go/internal/graph"

// HistoryStore is the repository surface graphs are drawn from.
// This abstraction allows commands to be tested without a real Git repository.
type HistoryStore interface {
	graph.ParentSource
	graph.PrecursorSource
	graph.FileSource

	// FilteredRevisions returns the revisions selected by f, newest first.
	FilteredRevisions(f RevsetFilter) ([]graph.Rev, error)
	// CommitInfo returns the details shown next to a graph row.
	CommitInfo(rev graph.Rev) (CommitInfo, error)
	// Resolve turns a user-supplied revision into a Rev.
	Resolve(spec string) (graph.Rev, error)
}

// Compile-time interface conformance checks.
var (
	_ HistoryStore = (*Repository)(nil)
	_ HistoryStore = (*MockStore)(nil)
)
