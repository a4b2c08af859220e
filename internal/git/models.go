package git

import (
	"time"

	"github.com/masmgr/graphlog-go/internal/graph"
)

// CommitInfo represents the information shown for a graph row.
type CommitInfo struct {
	Rev     graph.Rev
	SHA     string
	When    time.Time
	Author  AuthorInfo
	Message string // first line only
	Refs    []string
}

// ShortSHA returns the abbreviated hash, or an empty string for the working directory.
func (c CommitInfo) ShortSHA() string {
	if len(c.SHA) > 12 {
		return c.SHA[:12]
	}
	return c.SHA
}

// AuthorInfo represents commit author information.
type AuthorInfo struct {
	Name  string
	Email string
}

// RenameDetectMode controls how file renames are followed in file history.
type RenameDetectMode int

const (
	RenameDetectOff RenameDetectMode = iota
	RenameDetectSimple
	RenameDetectAggressive
)

// String returns a string representation of the rename detection mode.
func (m RenameDetectMode) String() string {
	switch m {
	case RenameDetectOff:
		return "off"
	case RenameDetectSimple:
		return "simple"
	case RenameDetectAggressive:
		return "aggressive"
	default:
		return "unknown"
	}
}

// LoadOptions configures how a repository is opened and indexed.
type LoadOptions struct {
	RepoPath string
	// UseGitCLI indexes the commit graph with `git log` instead of walking
	// the object store through go-git. Unreachable commits are not indexed.
	UseGitCLI bool
	// ClosedBranches are glob patterns over branch names whose heads count
	// as closed.
	ClosedBranches    []string
	PrecursorPatterns []string
	RenameDetect      RenameDetectMode
	OnProgress        func(indexed int)
}

// RevsetFilter selects the revisions shown in a graph.
type RevsetFilter struct {
	// Start is the newest revision shown; nil shows everything, including
	// the working directory when it has local changes.
	Start *graph.Rev
	// Follow restricts the graph to ancestors of Start instead of every
	// revision numbered at or below it.
	Follow bool
	// Branch keeps commits on the branch and the parents merged into it.
	Branch        string
	IncludeClosed bool
	IncludeHidden bool
}
