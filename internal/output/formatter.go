package output

import (
	"time"

	"github.com/masmgr/graphlog-go/internal/git"
	"github.com/masmgr/graphlog-go/internal/graph"
)

// Compile-time interface conformance checks.
// These ensure that all writer types correctly implement GraphWriter.
var (
	_ GraphWriter = (*ConsoleGraphWriter)(nil)
	_ GraphWriter = (*JSONGraphWriter)(nil)
	_ GraphWriter = (*NDJSONGraphWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatNDJSON  OutputFormat = "ndjson"
)

// ColorMode controls ANSI coloring of console output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	Limit      int
	OutputPath string
	Colors     ColorMode
}

// GraphReport holds the rows of a revision or file graph.
type GraphReport struct {
	RepoPath    string
	Path        string // set for file graphs
	GeneratedAt time.Time
	MaxColumns  int
	Rows        []GraphRow
}

// GraphRow pairs a laid-out node with the commit it shows.
type GraphRow struct {
	Node   *graph.Node
	Commit git.CommitInfo
}

// GraphWriter writes graph reports.
type GraphWriter interface {
	Write(report *GraphReport, options OutputOptions) error
}

// NewGraphWriter creates a graph writer for the specified format.
func NewGraphWriter(format OutputFormat) GraphWriter {
	switch format {
	case FormatJSON:
		return &JSONGraphWriter{}
	case FormatNDJSON:
		return &NDJSONGraphWriter{}
	default:
		return &ConsoleGraphWriter{}
	}
}
