package graph

import (
	"errors"
	"fmt"
	"io"
	"iter"
)

// ErrEmptyGraph is returned by At when the grapher produced no rows at all.
var ErrEmptyGraph = errors.New("graph is empty")

// initialBuild is the number of rows built before the first lookup.
const initialBuild = 10

// Node is a materialized graph row. Nodes are never modified once appended to
// a Cache, so references may be kept across calls.
type Node struct {
	Rev         Rev
	Column      int
	Color       Color
	Parents     []Rev
	Precursors  []Rev
	BottomLines []LineSegment // edges between this row and the next
	TopLines    []LineSegment // edges between the previous row and this one
	ColumnCount int
	Path        string
}

// Cache materializes a grapher's rows incrementally and gives random access
// to them. It must be driven by a single goroutine.
type Cache struct {
	grapher    Grapher // nil once exhausted
	nodes      []*Node
	index      map[Rev]int
	maxColumns int
}

// NewCache wraps g. No rows are built until requested.
func NewCache(g Grapher) *Cache {
	return &Cache{
		grapher: g,
		index:   make(map[Rev]int),
	}
}

// BuildNodes pulls rows from the grapher until count more rows have been
// built or target (or an older revision) has been produced, whichever comes
// first. count <= 0 means no row limit and a nil target means no target; with
// neither, the whole graph is built.
//
// It reports whether the grapher may still produce rows. On error the rows
// built so far are kept and a later call retries from where it failed.
func (c *Cache) BuildNodes(count int, target *Rev) (bool, error) {
	if c.grapher == nil {
		return false, nil
	}
	for built := 0; count <= 0 || built < count; built++ {
		row, err := c.grapher.Next()
		if errors.Is(err, io.EOF) {
			c.grapher = nil
			return false, nil
		}
		if err != nil {
			return true, fmt.Errorf("building row %d: %w", len(c.nodes), err)
		}
		c.append(row)
		if target != nil && row.Rev <= *target {
			break
		}
	}
	return true, nil
}

func (c *Cache) append(row Row) {
	node := &Node{
		Rev:         row.Rev,
		Column:      row.Column,
		Color:       row.Color,
		Parents:     row.Parents,
		Precursors:  row.Precursors,
		BottomLines: row.Lines,
		ColumnCount: row.ColumnCount,
		Path:        row.Path,
	}
	if n := len(c.nodes); n > 0 {
		node.TopLines = c.nodes[n-1].BottomLines
	}
	c.index[row.Rev] = len(c.nodes)
	c.nodes = append(c.nodes, node)
	c.maxColumns = max(c.maxColumns, row.ColumnCount)
}

// IsFilled reports whether the grapher has been exhausted.
func (c *Cache) IsFilled() bool {
	return c.grapher == nil
}

// Len returns the number of rows built so far.
func (c *Cache) Len() int {
	return len(c.nodes)
}

// MaxColumns returns the widest row built so far.
func (c *Cache) MaxColumns() int {
	return c.maxColumns
}

// Fill returns an iterator building the graph in bursts of step rows and
// yielding the number of rows built after each burst. The last value is
// yielded once the grapher is exhausted or fails.
func (c *Cache) Fill(step int) iter.Seq2[int, error] {
	return func(yield func(int, error) bool) {
		for {
			more, err := c.BuildNodes(step, nil)
			if err != nil || !more {
				yield(len(c.nodes), err)
				return
			}
			if !yield(len(c.nodes), nil) {
				return
			}
		}
	}
}

// At returns row i, building rows as needed. An index past the end of an
// exhausted graph returns the last row.
func (c *Cache) At(i int) (*Node, error) {
	if i < 0 {
		return nil, fmt.Errorf("row index %d out of range", i)
	}
	if i >= len(c.nodes) {
		if _, err := c.BuildNodes(i+1-len(c.nodes), nil); err != nil {
			return nil, err
		}
	}
	if len(c.nodes) == 0 {
		return nil, ErrEmptyGraph
	}
	if i >= len(c.nodes) {
		return c.nodes[len(c.nodes)-1], nil
	}
	return c.nodes[i], nil
}

// IndexOf returns the row of rev, building rows as needed, or -1 if rev is
// not part of the graph.
func (c *Cache) IndexOf(rev Rev) (int, error) {
	if len(c.nodes) == 0 {
		if _, err := c.BuildNodes(initialBuild, nil); err != nil {
			return -1, err
		}
	}
	if n := len(c.nodes); n > 0 && rev < c.nodes[n-1].Rev {
		if _, err := c.BuildNodes(0, &rev); err != nil {
			return -1, err
		}
	}
	if i, ok := c.index[rev]; ok {
		return i, nil
	}
	return -1, nil
}

// Node returns the row built for rev, without building more rows.
func (c *Cache) Node(rev Rev) (*Node, bool) {
	i, ok := c.index[rev]
	if !ok {
		return nil, false
	}
	return c.nodes[i], true
}

// Path returns the file path recorded for rev in a file graph.
func (c *Cache) Path(rev Rev) (string, bool) {
	n, ok := c.Node(rev)
	if !ok {
		return "", false
	}
	return n.Path, true
}
