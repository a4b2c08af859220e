package graph

import (
	"math"
	"strconv"
)

// Rev identifies a revision. Real revisions are non-negative and numbered in
// topological order, so a newer revision always has a larger number than its
// ancestors.
type Rev int

const (
	// NullRev is the absent parent of a root revision.
	NullRev Rev = -1

	// WorkingDirectory is the uncommitted checkout. It sorts above every real
	// revision so newest-first ordering keeps it on top.
	WorkingDirectory Rev = math.MaxInt32
)

// String returns the revision number, or "wd" for the working directory.
func (r Rev) String() string {
	switch r {
	case WorkingDirectory:
		return "wd"
	case NullRev:
		return "null"
	default:
		return strconv.Itoa(int(r))
	}
}

// Color identifies one branch line across rows.
type Color int

// LineSegment is an edge drawn between two consecutive rows.
type LineSegment struct {
	From   int   `json:"from"`
	To     int   `json:"to"`
	Color  Color `json:"color"`
	Strong bool  `json:"strong"` // false for edges to obsolescence precursors
}

// Row is the layout of a single graph row as produced by a grapher.
type Row struct {
	Rev         Rev
	Column      int
	Color       Color
	Lines       []LineSegment
	Parents     []Rev
	Precursors  []Rev
	ColumnCount int
	Path        string // file path at this revision, file graphs only
}

// RevSet is the set of revisions visible in a graph.
type RevSet interface {
	Contains(rev Rev) bool
}

// SetOf is a RevSet backed by a map.
type SetOf map[Rev]struct{}

// NewSet builds a SetOf from a list of revisions.
func NewSet(revs []Rev) SetOf {
	s := make(SetOf, len(revs))
	for _, r := range revs {
		s[r] = struct{}{}
	}
	return s
}

// Contains reports whether rev is in the set.
func (s SetOf) Contains(rev Rev) bool {
	_, ok := s[rev]
	return ok
}

// FileRev is a file revision: the changeset that introduced it and the path
// the file had there.
type FileRev struct {
	Rev  Rev
	Path string
}

// ParentSource supplies raw changeset parents.
type ParentSource interface {
	// RawParents returns the 0-2 parents of rev. The working directory
	// resolves to the checkout's current parents.
	RawParents(rev Rev) ([]Rev, error)
}

// PrecursorSource supplies obsolescence precursors of a revision.
type PrecursorSource interface {
	// Precursors returns the nearest precursors of rev for which excluded
	// is false, walking through the precursors of those it reports true for.
	Precursors(rev Rev, excluded func(Rev) bool) ([]Rev, error)
}

// FileSource supplies per-path file history.
type FileSource interface {
	// FileParents returns the file revisions preceding path at rev.
	FileParents(path string, rev Rev) ([]FileRev, error)
	// FileHeads returns the file revisions of path that have no file
	// descendants, in ascending order.
	FileHeads(path string) ([]Rev, error)
}

// Grapher produces rows one at a time. Next returns io.EOF once exhausted.
type Grapher interface {
	Next() (Row, error)
}
