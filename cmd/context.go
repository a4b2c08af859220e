package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/graphlog-go/config"
	"github.com/masmgr/graphlog-go/internal/git"
	"github.com/masmgr/graphlog-go/internal/graph"
	"github.com/masmgr/graphlog-go/internal/output"
)

// CommandContext holds common state for command execution.
// It encapsulates the shared setup logic across all graph commands.
type CommandContext struct {
	Config   *config.Config
	RepoPath string
	Store    git.HistoryStore
	Logger   *log.Logger
}

// openStore opens the repository behind a command. Tests replace it to run
// commands against an in-memory history.
var openStore = func(c *cli.Context, cfg *config.Config, repoPath string) (git.HistoryStore, error) {
	renameDetect, err := parseRenameDetectFlag(cfg.Repository.RenameDetect)
	if err != nil {
		return nil, err
	}

	logger := loggerFromContext(c.Context)
	repo, err := git.Open(c.Context, git.LoadOptions{
		RepoPath:          repoPath,
		UseGitCLI:         cfg.Repository.UseGitCLI,
		ClosedBranches:    cfg.Repository.ClosedBranchPatterns,
		PrecursorPatterns: cfg.Obsolete.Patterns,
		RenameDetect:      renameDetect,
		OnProgress: func(indexed int) {
			if indexed%10000 == 0 {
				logger.Debug("indexing", "commits", indexed)
			}
		},
	})
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// NewCommandContext creates a context from CLI flags.
// It performs configuration loading and repository indexing.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	logger := loggerFromContext(c.Context)
	repoPath := c.String("repo")

	p := newProgress(logger)
	store, err := openStore(c, cfg, repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}
	p.done("indexed repository", "path", repoPath, "gitCLI", cfg.Repository.UseGitCLI)

	return &CommandContext{
		Config:   cfg,
		RepoPath: repoPath,
		Store:    store,
		Logger:   logger,
	}, nil
}

// RevsetFilter builds the revision filter from flags and configuration.
func (ctx *CommandContext) RevsetFilter(c *cli.Context) (git.RevsetFilter, error) {
	filter := git.RevsetFilter{
		Follow:        c.Bool("follow"),
		Branch:        c.String("branch"),
		IncludeClosed: ctx.Config.Graph.IncludeClosed,
		IncludeHidden: ctx.Config.Graph.IncludeHidden,
	}
	if filter.Branch == "" {
		filter.Branch = ctx.Config.Repository.DefaultBranch
	}
	if spec := c.String("rev"); spec != "" {
		rev, err := ctx.Store.Resolve(spec)
		if err != nil {
			return git.RevsetFilter{}, fmt.Errorf("invalid --rev: %w", err)
		}
		filter.Start = &rev
	} else if filter.Follow {
		return git.RevsetFilter{}, fmt.Errorf("--follow requires --rev")
	}
	return filter, nil
}

// RevisionCache builds the lazily filled graph of the revisions selected by
// filter.
func (ctx *CommandContext) RevisionCache(filter git.RevsetFilter) (*graph.Cache, error) {
	revs, err := ctx.Store.FilteredRevisions(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to select revisions: %w", err)
	}
	ctx.Logger.Debug("selected revisions", "count", len(revs), "branch", filter.Branch)

	included := graph.NewSet(revs)
	var opts []graph.RevisionOption
	if ctx.Config.Graph.ShowObsolete {
		opts = append(opts, graph.WithPrecursors(ctx.Store, included))
	}
	grapher := graph.NewRevisionGrapher(revs, graph.NewParentResolver(ctx.Store, included), opts...)
	return graph.NewCache(grapher), nil
}

// OutputOptions creates OutputOptions from configuration and CLI flags.
func (ctx *CommandContext) OutputOptions(c *cli.Context) output.OutputOptions {
	return output.OutputOptions{
		Format:     getOutputFormat(ctx.Config.Output.Format),
		Limit:      ctx.Config.Graph.MaxRows,
		OutputPath: c.String("output"),
		Colors:     getColorMode(ctx.Config.Output.Colors),
	}
}
