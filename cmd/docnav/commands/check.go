package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/pipeline"
	"git.home.luguber.info/inful/docnav/internal/plugins"
	"git.home.luguber.info/inful/docnav/internal/report"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	SiteFlag `embed:""`

	Content   string `help:"Content directory to validate against" type:"path"`
	GitRepo   string `name:"git-repo" help:"Read content from a local git repository instead of a directory"`
	GitBranch string `name:"git-branch" help:"Branch to read content from (default: HEAD)"`
	GitDir    string `name:"git-dir" help:"Content directory inside the git repository"`
	Format    string `help:"Output format" enum:"text,json" default:"text"`
}

// content merges the flags over the configured content source.
func (c *CheckCmd) content(cfg config.ContentConfig) config.ContentConfig {
	switch {
	case c.GitRepo != "":
		return config.ContentConfig{Git: &config.GitConfig{RepoPath: c.GitRepo, Branch: c.GitBranch, Dir: c.GitDir}}
	case c.Content != "":
		return config.ContentConfig{Dir: c.Content}
	default:
		return cfg
	}
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.Settings()
	if err != nil {
		return err
	}
	logger := root.Logger()

	reporters, _, closeReporters := openReporters(cfg, logger)
	defer closeReporters()

	runner := pipeline.New(c.path(cfg), c.content(cfg.Content),
		pipeline.WithLogger(logger),
		pipeline.WithReporter(report.Multi(reporters...)))
	res, err := runner.Run(context.Background())
	if err != nil {
		return err
	}

	for _, perr := range plugins.Check(res.Site) {
		logger.Warn("Plugin options", logfields.Error(perr))
	}
	known := plugins.Known()
	for _, name := range res.Site.Plugins.Names() {
		if !slices.Contains(known, name) {
			logger.Debug("Plugin options passed through unchecked", slog.String("plugin", name))
		}
	}

	if c.Format == "json" {
		enc := json.NewEncoder(g.out())
		enc.SetIndent("", "  ")
		return enc.Encode(res.Run)
	}
	return writeIssues(g.out(), res.Run)
}

func writeIssues(w io.Writer, run *report.Run) error {
	for _, issue := range run.Issues {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", issue.Kind, issue); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d issue(s) in %s (source %s, run %s)\n", len(run.Issues), run.Site, run.Source, run.ID)
	return err
}
