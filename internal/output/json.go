package output

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/masmgr/graphlog-go/internal/graph"
)

// JSONGraphWriter writes graph reports as a single JSON document.
type JSONGraphWriter struct{}

// JSONGraphReport is the JSON output structure for a graph.
type JSONGraphReport struct {
	RepoPath    string         `json:"repo"`
	Path        string         `json:"path,omitempty"`
	GeneratedAt string         `json:"generatedAt"`
	TotalRows   int            `json:"totalRows"`
	MaxColumns  int            `json:"maxColumns"`
	Rows        []JSONGraphRow `json:"rows"`
}

// JSONGraphRow is the JSON output structure for a single row.
type JSONGraphRow struct {
	Rev         string              `json:"rev"`
	SHA         string              `json:"sha,omitempty"`
	Column      int                 `json:"column"`
	Color       graph.Color         `json:"color"`
	ColumnCount int                 `json:"columnCount"`
	Parents     []string            `json:"parents"`
	Precursors  []string            `json:"precursors,omitempty"`
	Lines       []graph.LineSegment `json:"lines"`
	Path        string              `json:"path,omitempty"`
	Refs        []string            `json:"refs,omitempty"`
	Author      string              `json:"author,omitempty"`
	Date        string              `json:"date,omitempty"`
	Message     string              `json:"message"`
}

// Write outputs the graph report as JSON.
func (w *JSONGraphWriter) Write(report *GraphReport, options OutputOptions) error {
	rows := limitTop(report.Rows, options.Limit)

	jsonRows := make([]JSONGraphRow, len(rows))
	for i, row := range rows {
		jsonRows[i] = toJSONRow(row)
	}

	jsonReport := JSONGraphReport{
		RepoPath:    report.RepoPath,
		Path:        report.Path,
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
		TotalRows:   len(rows),
		MaxColumns:  report.MaxColumns,
		Rows:        jsonRows,
	}

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(jsonReport); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func toJSONRow(row GraphRow) JSONGraphRow {
	n := row.Node
	lines := n.BottomLines
	if lines == nil {
		lines = []graph.LineSegment{}
	}
	var author string
	if row.Commit.Author.Name != "" {
		author = fmt.Sprintf("%s <%s>", row.Commit.Author.Name, row.Commit.Author.Email)
	}
	return JSONGraphRow{
		Rev:         n.Rev.String(),
		SHA:         row.Commit.SHA,
		Column:      n.Column,
		Color:       n.Color,
		ColumnCount: n.ColumnCount,
		Parents:     revStrings(n.Parents),
		Precursors:  revStrings(n.Precursors),
		Lines:       lines,
		Path:        n.Path,
		Refs:        row.Commit.Refs,
		Author:      author,
		Date:        formatWhen(row.Commit.When),
		Message:     row.Commit.Message,
	}
}

func revStrings(revs []graph.Rev) []string {
	out := make([]string, len(revs))
	for i, r := range revs {
		out[i] = r.String()
	}
	return out
}
