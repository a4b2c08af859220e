package git

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/masmgr/graphlog-go/internal/graph"
)

type fileKey struct {
	path string
	rev  graph.Rev
}

type blobEntry struct {
	hash    plumbing.Hash
	present bool
}

// blobAt returns the blob stored at path in rev. Directories, submodules and
// missing paths report present == false.
func (r *Repository) blobAt(rev graph.Rev, path string) (blobEntry, error) {
	key := fileKey{path: path, rev: rev}
	if e, ok := r.blobs[key]; ok {
		return e, nil
	}

	c, err := r.commit(rev)
	if err != nil {
		return blobEntry{}, err
	}
	tree, err := c.Tree()
	if err != nil {
		return blobEntry{}, fmt.Errorf("getting tree of %s: %w", c.Hash, err)
	}

	var e blobEntry
	entry, err := tree.FindEntry(path)
	switch {
	case errors.Is(err, object.ErrEntryNotFound), errors.Is(err, object.ErrDirectoryNotFound):
	case err != nil:
		return blobEntry{}, err
	case entry.Mode.IsFile():
		e = blobEntry{hash: entry.Hash, present: true}
	}

	r.blobs[key] = e
	return e, nil
}

// nearestFileRev walks first-unchanged parents from rev until it reaches the
// commit that introduced the content path has in rev.
func (r *Repository) nearestFileRev(rev graph.Rev, path string) (graph.Rev, bool, error) {
	var walked []fileKey
	cur := rev
	result := graph.NullRev
	for {
		key := fileKey{path: path, rev: cur}
		if fr, ok := r.fileRevs[key]; ok {
			result = fr
			break
		}
		walked = append(walked, key)

		blob, err := r.blobAt(cur, path)
		if err != nil {
			return graph.NullRev, false, err
		}
		if !blob.present {
			break
		}

		next := graph.NullRev
		for _, p := range r.parents[cur] {
			pb, err := r.blobAt(p, path)
			if err != nil {
				return graph.NullRev, false, err
			}
			if pb.present && pb.hash == blob.hash {
				next = p
				break
			}
		}
		if next == graph.NullRev {
			result = cur
			break
		}
		cur = next
	}

	for _, key := range walked {
		r.fileRevs[key] = result
	}
	return result, result != graph.NullRev, nil
}

// renameSource reports the path in parent that became path in rev.
func (r *Repository) renameSource(parent, rev graph.Rev, path string) (string, bool, error) {
	opts := r.diffOptions()
	if opts == nil {
		return "", false, nil
	}

	from, err := r.commit(parent)
	if err != nil {
		return "", false, err
	}
	to, err := r.commit(rev)
	if err != nil {
		return "", false, err
	}
	fromTree, err := from.Tree()
	if err != nil {
		return "", false, err
	}
	toTree, err := to.Tree()
	if err != nil {
		return "", false, err
	}

	changes, err := object.DiffTreeWithOptions(context.Background(), fromTree, toTree, opts)
	if err != nil {
		return "", false, fmt.Errorf("diffing %s..%s: %w", from.Hash, to.Hash, err)
	}
	for _, ch := range changes {
		if ch.To.Name == path && ch.From.Name != "" && ch.From.Name != path {
			return ch.From.Name, true, nil
		}
	}
	return "", false, nil
}

func (r *Repository) diffOptions() *object.DiffTreeOptions {
	switch r.opts.RenameDetect {
	case RenameDetectSimple:
		return &object.DiffTreeOptions{DetectRenames: true, OnlyExactRenames: true}
	case RenameDetectAggressive:
		return &object.DiffTreeOptions{DetectRenames: true, RenameScore: 60}
	default:
		return nil
	}
}

// FileParents returns the file revisions rev's content of path descends
// from, one per commit parent that carries the file, under the name the file
// had there.
func (r *Repository) FileParents(path string, rev graph.Rev) ([]graph.FileRev, error) {
	if !r.valid(rev) {
		return nil, fmt.Errorf("unknown revision %d", rev)
	}

	var out []graph.FileRev
	for _, p := range r.parents[rev] {
		ppath := path
		blob, err := r.blobAt(p, path)
		if err != nil {
			return nil, err
		}
		if !blob.present {
			src, found, err := r.renameSource(p, rev, path)
			if err != nil {
				return nil, err
			}
			if !found {
				continue
			}
			ppath = src
		}

		fr, ok, err := r.nearestFileRev(p, ppath)
		if err != nil {
			return nil, err
		}
		if !ok || containsFileRev(out, fr) {
			continue
		}
		out = append(out, graph.FileRev{Rev: fr, Path: ppath})
	}
	return out, nil
}

func containsFileRev(frs []graph.FileRev, rev graph.Rev) bool {
	for _, fr := range frs {
		if fr.Rev == rev {
			return true
		}
	}
	return false
}

// FileHeads returns, in ascending order, the file revisions of path reachable
// from a reference that no other such file revision descends from.
func (r *Repository) FileHeads(path string) ([]graph.Rev, error) {
	candidates := graph.SetOf{}
	for _, ref := range r.refs {
		fr, ok, err := r.nearestFileRev(ref.rev, path)
		if err != nil {
			return nil, err
		}
		if ok {
			candidates[fr] = struct{}{}
		}
	}

	ordered := make([]graph.Rev, 0, len(candidates))
	for rev := range candidates {
		ordered = append(ordered, rev)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	reached := make(map[graph.Rev]bool)
	for _, start := range ordered {
		stack := []graph.FileRev{{Rev: start, Path: path}}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			parents, err := r.FileParents(cur.Path, cur.Rev)
			if err != nil {
				return nil, err
			}
			for _, fp := range parents {
				if !reached[fp.Rev] {
					reached[fp.Rev] = true
					stack = append(stack, fp)
				}
			}
		}
	}

	heads := ordered[:0]
	for _, rev := range ordered {
		if !reached[rev] {
			heads = append(heads, rev)
		}
	}
	return heads, nil
}
