package output

import (
	"os"
	"time"

	"github.com/masmgr/graphlog-go/internal/git"
	"github.com/masmgr/graphlog-go/internal/graph"
)

func readTestFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func strong(from, to int, c graph.Color) graph.LineSegment {
	return graph.LineSegment{From: from, To: to, Color: c, Strong: true}
}

// mergeReport is a three-row graph: 2 merges 1 into 0's line.
func mergeReport() *GraphReport {
	n2 := &graph.Node{
		Rev: 2, Column: 0, Color: 0, ColumnCount: 2,
		Parents:     []graph.Rev{1, 0},
		BottomLines: []graph.LineSegment{strong(0, 0, 0), strong(0, 1, 1)},
	}
	n1 := &graph.Node{
		Rev: 1, Column: 0, Color: 0, ColumnCount: 2,
		Parents:     []graph.Rev{0},
		TopLines:    n2.BottomLines,
		BottomLines: []graph.LineSegment{strong(0, 0, 0), strong(1, 0, 1)},
	}
	n0 := &graph.Node{
		Rev: 0, Column: 0, Color: 0, ColumnCount: 1,
		TopLines: n1.BottomLines,
	}

	return &GraphReport{
		RepoPath:    "/test/repo",
		GeneratedAt: time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
		MaxColumns:  2,
		Rows: []GraphRow{
			{Node: n2, Commit: git.CommitInfo{Rev: 2, SHA: "abc1234", Message: "merge", Refs: []string{"main"}}},
			{Node: n1, Commit: git.CommitInfo{Rev: 1, SHA: "def5678", Message: "feature"}},
			{Node: n0, Commit: git.CommitInfo{Rev: 0, SHA: "0123456", Message: "initial"}},
		},
	}
}
