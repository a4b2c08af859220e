package git

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/masmgr/graphlog-go/internal/graph"
)

// MockStore is a test double for Repository.
// It allows tests to provide a predefined history without needing a real Git repository.
type MockStore struct {
	Commits   map[graph.Rev]CommitInfo
	Parents   map[graph.Rev][]graph.Rev
	Precursor map[graph.Rev][]graph.Rev
	Files     map[string]map[graph.Rev][]graph.FileRev // path -> file rev -> file parents
	Heads     map[string][]graph.Rev
	Dirty     bool
	Error     error
}

// NewMockStore creates a MockStore from a parent map. Each revision gets a
// placeholder commit message.
func NewMockStore(parents map[graph.Rev][]graph.Rev) *MockStore {
	commits := make(map[graph.Rev]CommitInfo, len(parents))
	for rev := range parents {
		commits[rev] = CommitInfo{Rev: rev, SHA: fmt.Sprintf("%040d", rev), Message: "commit " + rev.String()}
	}
	return &MockStore{
		Commits:   commits,
		Parents:   parents,
		Precursor: map[graph.Rev][]graph.Rev{},
		Files:     map[string]map[graph.Rev][]graph.FileRev{},
		Heads:     map[string][]graph.Rev{},
	}
}

// RawParents returns the predefined parents or error.
func (m *MockStore) RawParents(rev graph.Rev) ([]graph.Rev, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	ps, ok := m.Parents[rev]
	if !ok {
		return nil, fmt.Errorf("unknown revision %d", rev)
	}
	return ps, nil
}

// Precursors walks the predefined precursors, skipping through excluded ones.
func (m *MockStore) Precursors(rev graph.Rev, excluded func(graph.Rev) bool) ([]graph.Rev, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	var out []graph.Rev
	seen := map[graph.Rev]bool{rev: true}
	queue := []graph.Rev{rev}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, p := range m.Precursor[cur] {
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

// FileParents returns the predefined file parents or error.
func (m *MockStore) FileParents(path string, rev graph.Rev) ([]graph.FileRev, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	return m.Files[path][rev], nil
}

// FileHeads returns the predefined file heads or error.
func (m *MockStore) FileHeads(path string) ([]graph.Rev, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	return m.Heads[path], nil
}

// FilteredRevisions returns every revision at or below f.Start, newest first.
// Branch, closed and hidden filters are not modeled.
func (m *MockStore) FilteredRevisions(f RevsetFilter) ([]graph.Rev, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	revs := make([]graph.Rev, 0, len(m.Parents)+1)
	for rev := range m.Parents {
		if f.Start == nil || rev <= *f.Start {
			revs = append(revs, rev)
		}
	}
	sort.Slice(revs, func(i, j int) bool { return revs[i] > revs[j] })
	if f.Start == nil && m.Dirty {
		revs = append([]graph.Rev{graph.WorkingDirectory}, revs...)
	}
	return revs, nil
}

// CommitInfo returns the predefined commit.
func (m *MockStore) CommitInfo(rev graph.Rev) (CommitInfo, error) {
	if rev == graph.WorkingDirectory {
		return CommitInfo{Rev: rev, Message: "working directory (locally modified)"}, nil
	}
	c, ok := m.Commits[rev]
	if !ok {
		return CommitInfo{}, fmt.Errorf("unknown revision %d", rev)
	}
	return c, nil
}

// Resolve accepts "wd" or a known revision number.
func (m *MockStore) Resolve(spec string) (graph.Rev, error) {
	if spec == "wd" {
		return graph.WorkingDirectory, nil
	}
	n, err := strconv.Atoi(spec)
	if err != nil {
		return graph.NullRev, fmt.Errorf("resolving %q: %w", spec, err)
	}
	if _, ok := m.Parents[graph.Rev(n)]; !ok {
		return graph.NullRev, fmt.Errorf("unknown revision %d", n)
	}
	return graph.Rev(n), nil
}
