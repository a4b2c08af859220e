package git

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/masmgr/graphlog-go/internal/graph"
	"github.com/masmgr/graphlog-go/internal/obsolete"
)

// Repository indexes the commit graph of a Git repository into integer
// revisions and answers the storage queries of the graph package.
//
// Revisions are numbered in topological order starting at 0, so every commit
// has a larger number than its parents. The index is a snapshot taken at
// Open; commits created afterwards are not visible.
type Repository struct {
	repo     *git.Repository
	opts     LoadOptions
	detector *obsolete.Detector

	hashes  []plumbing.Hash
	revs    map[plumbing.Hash]graph.Rev
	parents [][]graph.Rev
	visible []bool // reachable from a reference
	refs    []refTip

	blobs    map[fileKey]blobEntry
	fileRevs map[fileKey]graph.Rev
}

type refTip struct {
	name plumbing.ReferenceName
	rev  graph.Rev
}

// commitNode is a commit as read from the object store, before numbering.
type commitNode struct {
	hash    plumbing.Hash
	parents []plumbing.Hash
	when    int64
}

// Open opens and indexes the repository at opts.RepoPath.
func Open(ctx context.Context, opts LoadOptions) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(opts.RepoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}

	detector, err := obsolete.NewDetector(opts.PrecursorPatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid precursor pattern: %w", err)
	}

	var nodes []commitNode
	if opts.UseGitCLI {
		nodes, err = readGraphGitCLI(ctx, opts.RepoPath, opts.OnProgress)
	} else {
		nodes, err = readGraphObjects(repo, opts.OnProgress)
	}
	if err != nil {
		return nil, fmt.Errorf("reading commit graph: %w", err)
	}

	r := &Repository{
		repo:     repo,
		opts:     opts,
		detector: detector,
		blobs:    make(map[fileKey]blobEntry),
		fileRevs: make(map[fileKey]graph.Rev),
	}
	r.index(nodes)
	if err := r.loadRefs(); err != nil {
		return nil, fmt.Errorf("reading references: %w", err)
	}
	r.markVisible()
	return r, nil
}

func readGraphObjects(repo *git.Repository, onProgress func(int)) ([]commitNode, error) {
	iter, err := repo.CommitObjects()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var nodes []commitNode
	err = iter.ForEach(func(c *object.Commit) error {
		nodes = append(nodes, commitNode{
			hash:    c.Hash,
			parents: c.ParentHashes,
			when:    c.Committer.When.Unix(),
		})
		if onProgress != nil {
			onProgress(len(nodes))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

// index numbers commits in post-order, visiting older commits first so that
// numbering follows commit time wherever the topology allows it. Parents
// missing from the store (shallow clones) are dropped.
func (r *Repository) index(nodes []commitNode) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].when != nodes[j].when {
			return nodes[i].when < nodes[j].when
		}
		return nodes[i].hash.String() < nodes[j].hash.String()
	})

	byHash := make(map[plumbing.Hash]*commitNode, len(nodes))
	for i := range nodes {
		byHash[nodes[i].hash] = &nodes[i]
	}

	r.hashes = make([]plumbing.Hash, 0, len(nodes))
	r.revs = make(map[plumbing.Hash]graph.Rev, len(nodes))
	pending := make(map[plumbing.Hash]bool)

	type frame struct {
		node *commitNode
		next int
	}
	for i := range nodes {
		if pending[nodes[i].hash] {
			continue
		}
		pending[nodes[i].hash] = true
		stack := []frame{{node: &nodes[i]}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(top.node.parents) {
				ph := top.node.parents[top.next]
				top.next++
				if p, ok := byHash[ph]; ok && !pending[ph] {
					pending[ph] = true
					stack = append(stack, frame{node: p})
				}
				continue
			}
			r.revs[top.node.hash] = graph.Rev(len(r.hashes))
			r.hashes = append(r.hashes, top.node.hash)
			stack = stack[:len(stack)-1]
		}
	}

	r.parents = make([][]graph.Rev, len(r.hashes))
	for i, h := range r.hashes {
		node := byHash[h]
		ps := make([]graph.Rev, 0, len(node.parents))
		for _, ph := range node.parents {
			if p, ok := r.revs[ph]; ok {
				ps = append(ps, p)
			}
		}
		r.parents[i] = ps
	}
}

func (r *Repository) loadRefs() error {
	iter, err := r.repo.References()
	if err != nil {
		return err
	}
	defer iter.Close()

	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		if rev, ok := r.peel(ref.Hash()); ok {
			r.refs = append(r.refs, refTip{name: ref.Name(), rev: rev})
		}
		return nil
	})
	if err != nil {
		return err
	}

	// a detached HEAD is not covered by any other reference
	head, err := r.repo.Head()
	if err == nil && head.Name() == plumbing.HEAD {
		if rev, ok := r.peel(head.Hash()); ok {
			r.refs = append(r.refs, refTip{name: plumbing.HEAD, rev: rev})
		}
	}

	sort.SliceStable(r.refs, func(i, j int) bool {
		return r.refs[i].name < r.refs[j].name
	})
	return nil
}

// peel resolves a reference target to an indexed commit, following
// annotated tags.
func (r *Repository) peel(h plumbing.Hash) (graph.Rev, bool) {
	if rev, ok := r.revs[h]; ok {
		return rev, true
	}
	tag, err := r.repo.TagObject(h)
	if err != nil {
		return graph.NullRev, false
	}
	c, err := tag.Commit()
	if err != nil {
		return graph.NullRev, false
	}
	rev, ok := r.revs[c.Hash]
	return rev, ok
}

func (r *Repository) markVisible() {
	starts := make([]graph.Rev, 0, len(r.refs))
	for _, ref := range r.refs {
		starts = append(starts, ref.rev)
	}
	r.visible = r.ancestors(starts...)
}

// ancestors returns the inclusive ancestor set of revs.
func (r *Repository) ancestors(revs ...graph.Rev) []bool {
	seen := make([]bool, len(r.hashes))
	stack := make([]graph.Rev, 0, len(revs))
	for _, rev := range revs {
		if r.valid(rev) && !seen[rev] {
			seen[rev] = true
			stack = append(stack, rev)
		}
	}
	for len(stack) > 0 {
		rev := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range r.parents[rev] {
			if !seen[p] {
				seen[p] = true
				stack = append(stack, p)
			}
		}
	}
	return seen
}

func (r *Repository) valid(rev graph.Rev) bool {
	return rev >= 0 && int(rev) < len(r.hashes)
}

// Len returns the number of indexed commits.
func (r *Repository) Len() int {
	return len(r.hashes)
}

// Hash returns the commit hash of rev.
func (r *Repository) Hash(rev graph.Rev) (plumbing.Hash, bool) {
	if !r.valid(rev) {
		return plumbing.ZeroHash, false
	}
	return r.hashes[rev], true
}

// RawParents returns the parents of rev. The working directory resolves to
// HEAD, plus MERGE_HEAD while a merge is in progress.
func (r *Repository) RawParents(rev graph.Rev) ([]graph.Rev, error) {
	if rev == graph.WorkingDirectory {
		return r.workingParents()
	}
	if !r.valid(rev) {
		return nil, fmt.Errorf("unknown revision %d", rev)
	}
	return r.parents[rev], nil
}

func (r *Repository) workingParents() ([]graph.Rev, error) {
	head, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var parents []graph.Rev
	if rev, ok := r.revs[head.Hash()]; ok {
		parents = append(parents, rev)
	}
	if merge, err := r.repo.Reference(plumbing.ReferenceName("MERGE_HEAD"), true); err == nil {
		if rev, ok := r.revs[merge.Hash()]; ok {
			parents = append(parents, rev)
		}
	}
	return parents, nil
}

// IsDirty reports whether the worktree has local changes. Bare repositories
// are never dirty.
func (r *Repository) IsDirty() (bool, error) {
	wt, err := r.repo.Worktree()
	if errors.Is(err, git.ErrIsBareRepository) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	status, err := wt.Status()
	if err != nil {
		return false, err
	}
	return !status.IsClean(), nil
}

// Resolve turns a user-supplied revision into a Rev. It accepts "wd" for the
// working directory, a revision number, or anything go-git can resolve
// (branch, tag, hash, HEAD~2).
func (r *Repository) Resolve(spec string) (graph.Rev, error) {
	spec = strings.TrimSpace(spec)
	if spec == "wd" {
		return graph.WorkingDirectory, nil
	}
	if n, err := strconv.Atoi(spec); err == nil {
		if !r.valid(graph.Rev(n)) {
			return graph.NullRev, fmt.Errorf("revision %d out of range (0-%d)", n, len(r.hashes)-1)
		}
		return graph.Rev(n), nil
	}
	if rev, ok := r.lookupHash(spec); ok {
		return rev, nil
	}
	h, err := r.repo.ResolveRevision(plumbing.Revision(spec))
	if err != nil {
		return graph.NullRev, fmt.Errorf("resolving %q: %w", spec, err)
	}
	rev, ok := r.revs[*h]
	if !ok {
		return graph.NullRev, fmt.Errorf("resolving %q: commit %s not indexed", spec, h)
	}
	return rev, nil
}

// lookupHash finds a commit by full hash or unambiguous hash prefix.
func (r *Repository) lookupHash(s string) (graph.Rev, bool) {
	s = strings.ToLower(s)
	if len(s) < 4 || len(s) > 40 {
		return graph.NullRev, false
	}
	if len(s) == 40 && plumbing.IsHash(s) {
		rev, ok := r.revs[plumbing.NewHash(s)]
		return rev, ok
	}
	found := graph.NullRev
	for i, h := range r.hashes {
		if strings.HasPrefix(h.String(), s) {
			if found != graph.NullRev {
				return graph.NullRev, false
			}
			found = graph.Rev(i)
		}
	}
	return found, found != graph.NullRev
}

func (r *Repository) commit(rev graph.Rev) (*object.Commit, error) {
	if !r.valid(rev) {
		return nil, fmt.Errorf("unknown revision %d", rev)
	}
	return r.repo.CommitObject(r.hashes[rev])
}

// CommitInfo returns the details shown next to a graph row.
func (r *Repository) CommitInfo(rev graph.Rev) (CommitInfo, error) {
	if rev == graph.WorkingDirectory {
		return CommitInfo{Rev: rev, Message: "working directory (locally modified)"}, nil
	}
	c, err := r.commit(rev)
	if err != nil {
		return CommitInfo{}, fmt.Errorf("getting commit %d: %w", rev, err)
	}

	message := c.Message
	if idx := strings.IndexByte(message, '\n'); idx != -1 {
		message = message[:idx]
	}

	var refs []string
	for _, ref := range r.refs {
		if ref.rev == rev {
			refs = append(refs, ref.name.Short())
		}
	}

	return CommitInfo{
		Rev:     rev,
		SHA:     c.Hash.String(),
		When:    c.Committer.When,
		Author:  AuthorInfo{Name: c.Author.Name, Email: c.Author.Email},
		Message: message,
		Refs:    refs,
	}, nil
}

// Precursors returns the nearest commits rev was cherry-picked (or otherwise
// rewritten) from, as recorded in commit messages. A precursor for which
// excluded reports true is skipped in favor of its own precursors.
func (r *Repository) Precursors(rev graph.Rev, excluded func(graph.Rev) bool) ([]graph.Rev, error) {
	if !r.detector.Enabled() || rev == graph.WorkingDirectory {
		return nil, nil
	}

	var out []graph.Rev
	seen := map[graph.Rev]bool{rev: true}
	queue := []graph.Rev{rev}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		c, err := r.commit(cur)
		if err != nil {
			return nil, err
		}
		for _, h := range r.detector.Precursors(c.Message) {
			p, ok := r.lookupHash(h)
			if !ok || seen[p] {
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

// Compile-time interface conformance checks.
var (
	_ graph.ParentSource    = (*Repository)(nil)
	_ graph.PrecursorSource = (*Repository)(nil)
	_ graph.FileSource      = (*Repository)(nil)
)
