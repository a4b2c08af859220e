package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/graphlog-go/internal/graph"
)

// FilelogCmd returns the filelog command.
func FilelogCmd() *cli.Command {
	return &cli.Command{
		Name:      "filelog",
		Aliases:   []string{"f"},
		Usage:     "Draw the history graph of a single file, following renames",
		ArgsUsage: "<path>",
		Flags:     commonFlags(),
		Action:    filelogAction,
	}
}

func filelogAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("filelog requires exactly one path argument")
	}
	// tree entries always use forward slashes
	path := filepath.ToSlash(filepath.Clean(c.Args().First()))

	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	grapher, err := graph.NewFileRevisionGrapher(ctx.Store, path)
	if errors.Is(err, graph.ErrNoFileHistory) {
		return fmt.Errorf("%s is not tracked in any reachable revision", path)
	}
	if err != nil {
		return err
	}

	report, err := buildReport(ctx, graph.NewCache(grapher), path)
	if err != nil {
		return err
	}
	return writeGraphReport(c, ctx, report)
}
