// Package commands implements the docnav CLI subcommands.
package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/report"
	"git.home.luguber.info/inful/docnav/internal/site"
	"git.home.luguber.info/inful/docnav/internal/sitedata"
)

// Global carries state shared by every subcommand.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docnav.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Check     CheckCmd     `cmd:"" help:"Construct the site and validate its navigation against the content"`
	Resolve   ResolveCmd   `cmd:"" help:"Show the sidebar section used for a page path"`
	Neighbors NeighborsCmd `cmd:"" help:"Show the previous and next pages of a page path"`
	EditLink  EditLinkCmd  `cmd:"" name:"edit-link" help:"Print the edit URL of a page path"`
	Export    ExportCmd    `cmd:"" help:"Write the site configuration in framework shape"`
	Serve     ServeCmd     `cmd:"" help:"Serve the navigation API and revalidate on changes"`
	Init      InitCmd      `cmd:"" help:"Initialize a new configuration file"`

	cfg    *config.Config
	cfgErr error
	logger *slog.Logger
}

// AfterApply runs after flag parsing: it loads the tool configuration and sets
// up logging once. A broken configuration is reported by the commands that
// need it, so init keeps working.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	c.cfg, c.cfgErr = config.LoadOrDefault(c.Config)
	logging := config.Default().Logging
	if c.cfgErr == nil {
		logging = c.cfg.Logging
	}
	c.logger = logging.NewLogger(os.Stderr, c.Verbose)
	slog.SetDefault(c.logger)
	return nil
}

// Logger returns the logger configured by AfterApply.
func (c *CLI) Logger() *slog.Logger {
	if c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

// Settings returns the loaded tool configuration.
func (c *CLI) Settings() (*config.Config, error) {
	if c.cfgErr != nil {
		return nil, c.cfgErr
	}
	if c.cfg == nil {
		return config.Default(), nil
	}
	return c.cfg, nil
}

// SiteFlag selects the site configuration file.
type SiteFlag struct {
	Site string `help:"Site configuration file (YAML or JSON); the bundled site when empty" type:"path"`
}

// path returns the flag value, falling back to the tool configuration.
func (f SiteFlag) path(cfg *config.Config) string {
	if f.Site != "" {
		return f.Site
	}
	return cfg.Site.Path
}

// load constructs the selected site.
func (f SiteFlag) load(cfg *config.Config) (*site.Site, error) {
	if p := f.path(cfg); p != "" {
		return site.LoadFile(p)
	}
	return sitedata.Site()
}

// loadSite resolves settings and constructs the selected site in one step.
func loadSite(root *CLI, flag SiteFlag) (*site.Site, error) {
	cfg, err := root.Settings()
	if err != nil {
		return nil, err
	}
	return flag.load(cfg)
}

// out returns the command output writer.
func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// openReporters builds the configured remote and history sinks. The returned
// close function releases them; it is safe to call when nothing was opened.
func openReporters(cfg *config.Config, logger *slog.Logger) (reporters []report.Reporter, history *report.HistoryStore, closeAll func()) {
	var closers []io.Closer
	closeAll = func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				logger.Warn("Failed to close reporter", logfields.Error(err))
			}
		}
	}
	if n := cfg.Reporting.NATS; n != nil {
		r, err := report.NewNATSReporter(n.URL, n.Subject)
		if err != nil {
			logger.Warn("NATS reporting disabled", logfields.Error(err))
		} else {
			reporters = append(reporters, r)
			closers = append(closers, r)
		}
	}
	if h := cfg.Reporting.History; h != nil {
		store, err := report.OpenHistory(h.Path)
		if err != nil {
			logger.Warn("Validation history disabled", logfields.Path(h.Path), logfields.Error(err))
		} else {
			history = store
			reporters = append(reporters, store)
			closers = append(closers, store)
		}
	}
	return reporters, history, closeAll
}
