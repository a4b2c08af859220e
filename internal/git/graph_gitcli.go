package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

func readGraphGitCLI(ctx context.Context, repoPath string, onProgress func(int)) ([]commitNode, error) {
	// Each commit is prefixed by 0x1e (record separator) and carries
	// NUL-separated fields: hash, space-separated parents, committer time.
	const format = "%x1e%H%x00%P%x00%ct"

	args := []string{
		"-C", repoPath,
		"log",
		"--all",
		"--no-color",
		"--pretty=format:" + format,
	}

	out, err := exec.CommandContext(ctx, "git", args...).CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("git log failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return parseGraphRecords(out, onProgress)
}

func parseGraphRecords(out []byte, onProgress func(int)) ([]commitNode, error) {
	records := bytes.Split(out, []byte{0x1e})
	nodes := make([]commitNode, 0, len(records))

	for _, rec := range records {
		rec = bytes.TrimRight(rec, "\r\n")
		if len(rec) == 0 {
			continue
		}

		fields := bytes.SplitN(rec, []byte{0x00}, 3)
		if len(fields) < 3 {
			return nil, fmt.Errorf("unexpected git log record format: %q", string(rec))
		}

		sha := string(fields[0])
		if !plumbing.IsHash(sha) {
			return nil, fmt.Errorf("unexpected commit hash %q", sha)
		}

		var parents []plumbing.Hash
		for _, p := range strings.Fields(string(fields[1])) {
			if !plumbing.IsHash(p) {
				return nil, fmt.Errorf("unexpected parent hash %q of %s", p, sha)
			}
			parents = append(parents, plumbing.NewHash(p))
		}

		when, err := strconv.ParseInt(strings.TrimSpace(string(fields[2])), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse committer time: %w", err)
		}

		nodes = append(nodes, commitNode{
			hash:    plumbing.NewHash(sha),
			parents: parents,
			when:    when,
		})
		if onProgress != nil {
			onProgress(len(nodes))
		}
	}

	return nodes, nil
}
