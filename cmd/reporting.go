package cmd

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/graphlog-go/internal/graph"
	"github.com/masmgr/graphlog-go/internal/output"
)

// buildReport fills cache in bursts of the configured fill step and pairs
// each row with its commit details. A positive MaxRows stops the fill once
// that many rows exist.
func buildReport(ctx *CommandContext, cache *graph.Cache, path string) (*output.GraphReport, error) {
	limit := ctx.Config.Graph.MaxRows
	step := ctx.Config.Graph.FillStep
	if limit > 0 && (step <= 0 || step > limit) {
		step = limit
	}

	p := newProgress(ctx.Logger)
	for built, err := range cache.Fill(step) {
		if err != nil {
			return nil, err
		}
		ctx.Logger.Debug("building graph", "rows", built)
		if limit > 0 && built >= limit {
			break
		}
	}
	p.done("built graph", "rows", cache.Len(), "filled", cache.IsFilled())

	rows := make([]output.GraphRow, 0, cache.Len())
	for i := 0; i < cache.Len(); i++ {
		if limit > 0 && i >= limit {
			break
		}
		node, err := cache.At(i)
		if err != nil {
			return nil, err
		}
		info, err := ctx.Store.CommitInfo(node.Rev)
		if err != nil {
			return nil, err
		}
		rows = append(rows, output.GraphRow{Node: node, Commit: info})
	}

	return &output.GraphReport{
		RepoPath:    ctx.RepoPath,
		Path:        path,
		GeneratedAt: time.Now(),
		MaxColumns:  cache.MaxColumns(),
		Rows:        rows,
	}, nil
}

func writeGraphReport(c *cli.Context, ctx *CommandContext, report *output.GraphReport) error {
	opts := ctx.OutputOptions(c)
	writer := output.NewGraphWriter(opts.Format)
	return writer.Write(report, opts)
}
