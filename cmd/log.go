package cmd

import (
	"github.com/urfave/cli/v2"
)

// LogCmd returns the log command.
func LogCmd() *cli.Command {
	return &cli.Command{
		Name:    "log",
		Aliases: []string{"l"},
		Usage:   "Draw the revision graph of the repository",
		Flags:   append(commonFlags(), revsetFlags()...),
		Action:  logAction,
	}
}

func logAction(c *cli.Context) error {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	filter, err := ctx.RevsetFilter(c)
	if err != nil {
		return err
	}
	cache, err := ctx.RevisionCache(filter)
	if err != nil {
		return err
	}

	report, err := buildReport(ctx, cache, "")
	if err != nil {
		return err
	}
	if len(report.Rows) == 0 {
		ctx.Logger.Warn("no revisions selected", "repo", ctx.RepoPath)
	}
	return writeGraphReport(c, ctx, report)
}
