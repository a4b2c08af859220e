package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/graphlog-go/config"
	"github.com/masmgr/graphlog-go/internal/git"
	"github.com/masmgr/graphlog-go/internal/output"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "graphlog",
		Usage:   "Revision graph viewer for Git repositories",
		Version: "1.0.0",
		Commands: []*cli.Command{
			LogCmd(),
			FilelogCmd(),
			IndexCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before: setupLogger,
	}
}

// setupLogger attaches a stderr logger to the context shared by every command.
func setupLogger(c *cli.Context) error {
	level := log.InfoLevel
	if c.Bool("verbose") {
		level = log.DebugLevel
	}
	c.Context = withLogger(c.Context, newLogger(os.Stderr, level))
	return nil
}

// Common flags shared across commands
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Path to Git repository",
			Value:   ".",
		},
		&cli.StringFlag{
			Name:  "rename-detect",
			Usage: "Rename detection mode (auto, off, simple, aggressive)",
		},
		&cli.BoolFlag{
			Name:  "git-cli",
			Usage: "Index the commit graph with the git command instead of go-git",
		},
		&cli.StringSliceFlag{
			Name:  "closed-pattern",
			Usage: "Glob pattern of closed branch names (can be specified multiple times)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, ndjson)",
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"n"},
			Usage:   "Maximum number of rows to show (0 for all)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.StringFlag{
			Name:  "color",
			Usage: "Colorize console output (auto, always, never)",
		},
	}
}

// revsetFlags select the revisions of a revision graph.
func revsetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "branch",
			Aliases: []string{"b"},
			Usage:   "Show only this branch and the parents merged into it",
		},
		&cli.StringFlag{
			Name:  "rev",
			Usage: "Newest revision to show (number, hash, branch or tag)",
		},
		&cli.BoolFlag{
			Name:  "follow",
			Usage: "Show only ancestors of --rev",
		},
		&cli.BoolFlag{
			Name:  "closed",
			Usage: "Include revisions only reachable from closed branches",
		},
		&cli.BoolFlag{
			Name:  "hidden",
			Usage: "Include revisions not reachable from any reference",
		},
		&cli.BoolFlag{
			Name:  "obsolete",
			Usage: "Draw weak edges to cherry-pick sources",
		},
	}
}

// getOutputFormat parses the output format flag.
func getOutputFormat(s string) output.OutputFormat {
	switch s {
	case "json":
		return output.FormatJSON
	case "ndjson", "ci":
		return output.FormatNDJSON
	default:
		return output.FormatConsole
	}
}

// getColorMode parses the color flag.
func getColorMode(s string) output.ColorMode {
	switch s {
	case "always":
		return output.ColorAlways
	case "never":
		return output.ColorNever
	default:
		return output.ColorAuto
	}
}

// parseRenameDetectFlag parses a rename detection mode and its aliases.
func parseRenameDetectFlag(s string) (git.RenameDetectMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto", "simple", "exact":
		return git.RenameDetectSimple, nil
	case "off", "false", "none":
		return git.RenameDetectOff, nil
	case "aggressive", "similarity":
		return git.RenameDetectAggressive, nil
	default:
		return git.RenameDetectOff, fmt.Errorf("invalid rename detection mode %q (expected auto, off, simple or aggressive)", s)
	}
}

// loadConfig loads configuration from file or defaults.
func loadConfig(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Apply overrides from CLI
	if c.IsSet("git-cli") {
		cfg.Repository.UseGitCLI = c.Bool("git-cli")
	}
	if c.IsSet("rename-detect") {
		cfg.Repository.RenameDetect = c.String("rename-detect")
	}
	if patterns := c.StringSlice("closed-pattern"); len(patterns) > 0 {
		cfg.Repository.ClosedBranchPatterns = patterns
	}
	if c.IsSet("closed") {
		cfg.Graph.IncludeClosed = c.Bool("closed")
	}
	if c.IsSet("hidden") {
		cfg.Graph.IncludeHidden = c.Bool("hidden")
	}
	if c.IsSet("obsolete") {
		cfg.Graph.ShowObsolete = c.Bool("obsolete")
	}
	if c.IsSet("limit") {
		cfg.Graph.MaxRows = c.Int("limit")
	}
	if c.IsSet("format") {
		cfg.Output.Format = c.String("format")
	}
	if c.IsSet("color") {
		cfg.Output.Colors = c.String("color")
	}

	return cfg, nil
}
