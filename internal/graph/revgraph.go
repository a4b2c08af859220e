package graph

import (
	"io"
	"slices"
)

// RevisionGrapher lays out a newest-first sequence of revisions one row at a
// time. It is a resumable producer: nothing is computed until Next is called.
type RevisionGrapher struct {
	revs     []Rev
	pos      int
	resolver *ParentResolver
	lanes    *lanes

	precursors PrecursorSource
	included   RevSet
}

// RevisionOption configures a RevisionGrapher.
type RevisionOption func(*RevisionGrapher)

// WithPrecursors adds weak edges from each revision to its nearest
// obsolescence precursors inside the included set. Precursors outside it are
// walked through by the source. A nil set shows no precursors.
func WithPrecursors(src PrecursorSource, included RevSet) RevisionOption {
	return func(g *RevisionGrapher) {
		g.precursors = src
		g.included = included
	}
}

// NewRevisionGrapher creates a grapher over revs, which must be ordered
// newest first. The resolver must be bound to the same visible set.
func NewRevisionGrapher(revs []Rev, resolver *ParentResolver, opts ...RevisionOption) *RevisionGrapher {
	g := &RevisionGrapher{
		revs:     revs,
		resolver: resolver,
		lanes:    newLanes(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Next returns the next row, or io.EOF once every revision has been laid out.
// Columns still open at that point are unterminated lines, not an error.
//
// On a lookup error the grapher does not advance, so calling Next again
// retries the same revision.
func (g *RevisionGrapher) Next() (Row, error) {
	if g.pos >= len(g.revs) {
		return Row{}, io.EOF
	}
	rev := g.revs[g.pos]

	resolved, err := g.resolver.Resolve(rev)
	if err != nil {
		return Row{}, err
	}
	parents := append([]Rev(nil), resolved...)

	var precursors []Rev
	if g.precursors != nil && rev != WorkingDirectory {
		found, err := g.precursors.Precursors(rev, g.excluded)
		if err != nil {
			return Row{}, lookupFailed("precursors of", rev, err)
		}
		// a precursor that is also a parent is drawn once, as a parent. Newer
		// precursors were drawn above this row and get no edge.
		for _, p := range found {
			if p >= rev || slices.Contains(parents, p) || slices.Contains(precursors, p) {
				continue
			}
			precursors = append(precursors, p)
		}
	}

	edges := make([]edge, 0, len(parents)+len(precursors))
	for _, p := range parents {
		edges = append(edges, edge{rev: p, strong: true})
	}
	for _, p := range precursors {
		edges = append(edges, edge{rev: p})
	}

	column, color, lines, width := g.lanes.step(rev, edges)
	g.pos++

	return Row{
		Rev:         rev,
		Column:      column,
		Color:       color,
		Lines:       lines,
		Parents:     parents,
		Precursors:  precursors,
		ColumnCount: width,
	}, nil
}

func (g *RevisionGrapher) excluded(rev Rev) bool {
	return g.included == nil || !g.included.Contains(rev)
}

// Compile-time interface conformance check.
var _ Grapher = (*RevisionGrapher)(nil)
