package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/graphlog-go/internal/output"
)

// IndexCmd returns the index command.
func IndexCmd() *cli.Command {
	return &cli.Command{
		Name:      "index",
		Aliases:   []string{"i"},
		Usage:     "Print the graph row of each given revision",
		ArgsUsage: "<rev>...",
		Flags:     append(commonFlags(), revsetFlags()...),
		Action:    indexAction,
	}
}

func indexAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("index requires at least one revision")
	}

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

	rev := color.New(color.FgYellow)
	missing := color.New(color.FgRed)
	switch getColorMode(ctx.Config.Output.Colors) {
	case output.ColorAlways:
		rev.EnableColor()
		missing.EnableColor()
	case output.ColorNever:
		rev.DisableColor()
		missing.DisableColor()
	}

	out := c.App.Writer
	for _, spec := range c.Args().Slice() {
		r, err := ctx.Store.Resolve(spec)
		if err != nil {
			return fmt.Errorf("invalid revision %q: %w", spec, err)
		}
		row, err := cache.IndexOf(r)
		if err != nil {
			return err
		}
		if row < 0 {
			fmt.Fprintf(out, "%s\t%s\n", rev.Sprint(r.String()), missing.Sprint("not in graph"))
			continue
		}
		fmt.Fprintf(out, "%s\t%d\n", rev.Sprint(r.String()), row)
	}
	return nil
}
