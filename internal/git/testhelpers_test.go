package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// testRepo wraps a temporary repository built commit by commit.
type testRepo struct {
	t    *testing.T
	dir  string
	repo *gogit.Repository
	wt   *gogit.Worktree
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	return &testRepo{t: t, dir: dir, repo: repo, wt: wt}
}

func (r *testRepo) write(rel, content string) {
	r.t.Helper()
	full := filepath.Join(r.dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		r.t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		r.t.Fatalf("WriteFile: %v", err)
	}
	if _, err := r.wt.Add(rel); err != nil {
		r.t.Fatalf("Add: %v", err)
	}
}

func (r *testRepo) remove(rel string) {
	r.t.Helper()
	if _, err := r.wt.Remove(rel); err != nil {
		r.t.Fatalf("Remove: %v", err)
	}
}

func (r *testRepo) commit(msg string, when time.Time, parents ...plumbing.Hash) plumbing.Hash {
	r.t.Helper()
	sig := &object.Signature{Name: "Test", Email: "test@example.com", When: when}
	h, err := r.wt.Commit(msg, &gogit.CommitOptions{
		Author:    sig,
		Committer: sig,
		Parents:   parents,
	})
	if err != nil {
		r.t.Fatalf("Commit: %v", err)
	}
	return h
}

func (r *testRepo) checkout(branch string, create bool) {
	r.t.Helper()
	if err := r.wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: create,
	}); err != nil {
		r.t.Fatalf("Checkout(%s): %v", branch, err)
	}
}

func (r *testRepo) headBranch() string {
	r.t.Helper()
	head, err := r.repo.Head()
	if err != nil {
		r.t.Fatalf("Head: %v", err)
	}
	return head.Name().Short()
}

// branchyRepo builds:
//
//	0 initial          a.txt, b.txt
//	1 main change      a.txt
//	2 feature change   a.txt           (feature)
//	3 main b           b.txt
//	4 merge of 3 and 2 a.txt from 2    (main)
//	5 archived         b.txt           (archive/old), cherry-picked from 3
//	6 dropped          b.txt           unreachable
type branchyRepo struct {
	*testRepo
	main   string
	hashes []plumbing.Hash
}

func newBranchyRepo(t *testing.T) *branchyRepo {
	t.Helper()
	r := &branchyRepo{testRepo: newTestRepo(t)}
	base := time.Now().Add(-10 * time.Hour)
	at := func(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }

	r.write("a.txt", "one\n")
	r.write("b.txt", "b\n")
	r.hashes = append(r.hashes, r.commit("initial", at(0)))
	r.main = r.headBranch()

	r.write("a.txt", "two\n")
	r.hashes = append(r.hashes, r.commit("main change", at(1)))

	r.checkout("feature", true)
	r.write("a.txt", "feature\n")
	r.hashes = append(r.hashes, r.commit("feature change", at(2)))

	r.checkout(r.main, false)
	r.write("b.txt", "b2\n")
	r.hashes = append(r.hashes, r.commit("main b", at(3)))

	r.write("a.txt", "feature\n")
	r.hashes = append(r.hashes, r.commit("merge", at(4), r.hashes[3], r.hashes[2]))

	r.checkout("archive/old", true)
	r.write("b.txt", "archived\n")
	r.hashes = append(r.hashes, r.commit("archived\n\n(cherry picked from commit "+r.hashes[3].String()+")", at(5)))

	r.checkout("tmp", true)
	r.write("b.txt", "dropped\n")
	r.hashes = append(r.hashes, r.commit("dropped", at(6)))

	r.checkout(r.main, false)
	if err := r.repo.Storer.RemoveReference(plumbing.NewBranchReferenceName("tmp")); err != nil {
		t.Fatalf("RemoveReference: %v", err)
	}
	return r
}
