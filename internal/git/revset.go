package git

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/masmgr/graphlog-go/internal/graph"
)

// FilteredRevisions returns the revisions selected by f, newest first. When
// no start revision is given and the worktree has local changes, the working
// directory comes first.
func (r *Repository) FilteredRevisions(f RevsetFilter) ([]graph.Rev, error) {
	n := len(r.hashes)
	keep := make([]bool, n)
	for i := range keep {
		keep[i] = f.IncludeHidden || r.visible[i]
	}

	bounded := f.Start != nil && *f.Start != graph.WorkingDirectory
	if bounded {
		start := *f.Start
		if !r.valid(start) {
			return nil, fmt.Errorf("unknown revision %d", start)
		}
		if f.Follow {
			and(keep, r.ancestors(start))
		} else {
			for i := int(start) + 1; i < n; i++ {
				keep[i] = false
			}
		}
	}

	if f.Branch != "" {
		tip, err := r.branchTip(f.Branch)
		if err != nil {
			return nil, err
		}
		and(keep, r.branchMembers(tip))
	}

	if !f.IncludeClosed && len(r.opts.ClosedBranches) > 0 {
		open, err := r.openHeads()
		if err != nil {
			return nil, err
		}
		and(keep, r.ancestors(open...))
	}

	revs := make([]graph.Rev, 0, n+1)
	if !bounded {
		dirty, err := r.IsDirty()
		if err != nil {
			return nil, fmt.Errorf("checking worktree status: %w", err)
		}
		if dirty {
			revs = append(revs, graph.WorkingDirectory)
		}
	}
	for i := n - 1; i >= 0; i-- {
		if keep[i] {
			revs = append(revs, graph.Rev(i))
		}
	}
	return revs, nil
}

func and(dst, mask []bool) {
	for i := range dst {
		dst[i] = dst[i] && mask[i]
	}
}

// branchTip finds the commit a branch, remote branch or tag name points at.
func (r *Repository) branchTip(name string) (graph.Rev, error) {
	full := plumbing.NewBranchReferenceName(name)
	for _, ref := range r.refs {
		if ref.name == full {
			return ref.rev, nil
		}
	}
	for _, ref := range r.refs {
		if ref.name.Short() == name {
			return ref.rev, nil
		}
	}
	return graph.NullRev, fmt.Errorf("unknown branch %q", name)
}

// branchMembers marks the first-parent chain from tip, which holds the
// commits made on the branch, and the parents merged into them.
func (r *Repository) branchMembers(tip graph.Rev) []bool {
	members := make([]bool, len(r.hashes))
	for rev := tip; ; {
		members[rev] = true
		ps := r.parents[rev]
		for _, p := range ps {
			members[p] = true
		}
		if len(ps) == 0 {
			break
		}
		rev = ps[0]
	}
	return members
}

// openHeads returns the tips of references whose short name matches no
// closed branch pattern.
func (r *Repository) openHeads() ([]graph.Rev, error) {
	var open []graph.Rev
	for _, ref := range r.refs {
		closed, err := r.isClosed(ref.name)
		if err != nil {
			return nil, err
		}
		if !closed {
			open = append(open, ref.rev)
		}
	}
	return open, nil
}

func (r *Repository) isClosed(name plumbing.ReferenceName) (bool, error) {
	short := name.Short()
	for _, pattern := range r.opts.ClosedBranches {
		matched, err := doublestar.Match(pattern, short)
		if err != nil {
			return false, fmt.Errorf("invalid closed branch pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}
