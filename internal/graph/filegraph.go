package graph

import (
	"errors"
	"fmt"
	"io"
)

// ErrNoFileHistory is returned when a path has no file revisions.
var ErrNoFileHistory = errors.New("no file history")

// FileRevisionGrapher lays out the ancestry of a single file. Deletions show
// up as breaks in the graph.
//
// File history is sparse, so instead of walking a precomputed list the
// grapher descends from the newest open column, switching to the next file
// head on another branch once the descent reaches it.
type FileRevisionGrapher struct {
	src   FileSource
	path  string
	heads []Rev // remaining heads, ascending
	rev   Rev
	lanes *lanes
}

// NewFileRevisionGrapher creates a grapher for the history of path, starting
// at its newest file head.
func NewFileRevisionGrapher(src FileSource, path string) (*FileRevisionGrapher, error) {
	heads, err := src.FileHeads(path)
	if err != nil {
		return nil, fmt.Errorf("file heads of %s: %w", path, err)
	}
	if len(heads) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFileHistory, path)
	}
	last := len(heads) - 1
	return &FileRevisionGrapher{
		src:   src,
		path:  path,
		heads: append([]Rev(nil), heads[:last]...),
		rev:   heads[last],
		lanes: newLanes(),
	}, nil
}

// Next returns the next row, or io.EOF once the file history is exhausted.
func (g *FileRevisionGrapher) Next() (Row, error) {
	if g.rev < 0 {
		return Row{}, io.EOF
	}
	rev := g.rev

	// a column remembers the name the file had where the column was opened
	path := g.path
	if ln, ok := g.lanes.lookup(rev); ok && ln.path != "" {
		path = ln.path
	}

	fparents, err := g.src.FileParents(path, rev)
	if err != nil {
		return Row{}, lookupFailed("file parents of "+path+" at", rev, err)
	}

	parents := make([]Rev, 0, len(fparents))
	edges := make([]edge, 0, len(fparents))
	for _, fp := range fparents {
		parents = append(parents, fp.Rev)
		edges = append(edges, edge{rev: fp.Rev, strong: true, path: fp.Path})
	}

	column, color, lines, width := g.lanes.step(rev, edges)

	next := g.lanes.maxRev()
	if n := len(g.heads); n > 0 && next <= g.heads[n-1] {
		next = g.heads[n-1]
		g.heads = g.heads[:n-1]
	}
	g.rev = next

	return Row{
		Rev:         rev,
		Column:      column,
		Color:       color,
		Lines:       lines,
		Parents:     parents,
		ColumnCount: width,
		Path:        path,
	}, nil
}

// Compile-time interface conformance check.
var _ Grapher = (*FileRevisionGrapher)(nil)
