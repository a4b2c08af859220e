package graph

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

type fileKey struct {
	path string
	rev  Rev
}

// memStore is an in-memory history used by the graph tests.
type memStore struct {
	parents     map[Rev][]Rev
	precursors  map[Rev][]Rev
	fileParents map[fileKey][]FileRev
	heads       map[string][]Rev
	fail        map[Rev]error
}

func newMemStore(parents map[Rev][]Rev) *memStore {
	return &memStore{
		parents:     parents,
		precursors:  map[Rev][]Rev{},
		fileParents: map[fileKey][]FileRev{},
		heads:       map[string][]Rev{},
		fail:        map[Rev]error{},
	}
}

func (m *memStore) RawParents(rev Rev) ([]Rev, error) {
	if err := m.fail[rev]; err != nil {
		return nil, err
	}
	p, ok := m.parents[rev]
	if !ok {
		return nil, fmt.Errorf("unknown revision %d", rev)
	}
	return p, nil
}

func (m *memStore) Precursors(rev Rev, excluded func(Rev) bool) ([]Rev, error) {
	var out []Rev
	seen := map[Rev]bool{rev: true}
	queue := []Rev{rev}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, p := range m.precursors[cur] {
			if seen[p] {
				continue
			}
			seen[p] = true
			if excluded(p) {
				queue = append(queue, p)
			} else {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (m *memStore) FileParents(path string, rev Rev) ([]FileRev, error) {
	if err := m.fail[rev]; err != nil {
		return nil, err
	}
	p, ok := m.fileParents[fileKey{path, rev}]
	if !ok {
		return nil, fmt.Errorf("%s unknown at %d", path, rev)
	}
	return p, nil
}

func (m *memStore) FileHeads(path string) ([]Rev, error) {
	return m.heads[path], nil
}

func (m *memStore) addFile(path string, rev Rev, parents ...FileRev) {
	m.fileParents[fileKey{path, rev}] = parents
}

// collectRows drains g.
func collectRows(t *testing.T, g Grapher) []Row {
	t.Helper()
	var rows []Row
	for {
		row, err := g.Next()
		if errors.Is(err, io.EOF) {
			return rows
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		rows = append(rows, row)
	}
}

// linesFrom returns the segments leaving column.
func linesFrom(lines []LineSegment, column int) []LineSegment {
	var out []LineSegment
	for _, l := range lines {
		if l.From == column {
			out = append(out, l)
		}
	}
	return out
}

func revRange(from, to Rev) []Rev {
	var revs []Rev
	for r := from; r >= to; r-- {
		revs = append(revs, r)
	}
	return revs
}
