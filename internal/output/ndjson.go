package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// NDJSONGraphWriter writes graph reports as NDJSON (one JSON object per line)
// so consumers can process rows as they arrive.
type NDJSONGraphWriter struct{}

// NDJSONSummary is the first line of NDJSON output.
type NDJSONSummary struct {
	Type       string `json:"type"`
	Repo       string `json:"repo"`
	Path       string `json:"path,omitempty"`
	TotalRows  int    `json:"totalRows"`
	MaxColumns int    `json:"maxColumns"`
}

// NDJSONRow is a single row line of NDJSON output.
type NDJSONRow struct {
	Type string `json:"type"`
	JSONGraphRow
}

// Write outputs the graph report as NDJSON.
func (w *NDJSONGraphWriter) Write(report *GraphReport, options OutputOptions) error {
	rows := limitTop(report.Rows, options.Limit)

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	summary := NDJSONSummary{
		Type:       "summary",
		Repo:       report.RepoPath,
		Path:       report.Path,
		TotalRows:  len(rows),
		MaxColumns: report.MaxColumns,
	}
	if err := writeNDJSONLine(out, summary); err != nil {
		return err
	}

	for _, row := range rows {
		if err := writeNDJSONLine(out, NDJSONRow{Type: "row", JSONGraphRow: toJSONRow(row)}); err != nil {
			return err
		}
	}

	return nil
}

func writeNDJSONLine(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal NDJSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
