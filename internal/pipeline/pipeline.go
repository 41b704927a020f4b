// Package pipeline runs one validation pass: construct the site, index the
// content, validate the navigation against it and report the result.
package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/content"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/report"
	"git.home.luguber.info/inful/docnav/internal/site"
	"git.home.luguber.info/inful/docnav/internal/sitedata"
)

// Result is an immutable snapshot produced by one pass.
type Result struct {
	Site  *site.Site
	Index *content.Index
	Run   *report.Run
}

// Titles returns the content index as a titler, or nil without an index.
func (r *Result) Titles() site.Titler {
	if r.Index == nil {
		return nil
	}
	return r.Index
}

// Runner executes validation passes.
type Runner struct {
	sitePath string
	content  config.ContentConfig
	reporter report.Reporter
	recorder metrics.Recorder
	logger   *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithReporter delivers every run to r.
func WithReporter(r report.Reporter) Option {
	return func(p *Runner) { p.reporter = r }
}

// WithRecorder records construction and validation metrics.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Runner) { p.recorder = r }
}

// WithLogger sets the logger used for progress and reporter failures.
func WithLogger(l *slog.Logger) Option {
	return func(p *Runner) { p.logger = l }
}

// New creates a runner for the site at sitePath (the bundled site when empty)
// validated against the content described by contentCfg.
func New(sitePath string, contentCfg config.ContentConfig, opts ...Option) *Runner {
	r := &Runner{
		sitePath: sitePath,
		content:  contentCfg,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SitePath returns the site file the runner reads, or "" for the bundled site.
func (r *Runner) SitePath() string { return r.sitePath }

// LoadSite constructs the configured site.
func (r *Runner) LoadSite() (*site.Site, error) {
	start := time.Now()
	var s *site.Site
	var err error
	if r.sitePath == "" {
		s, err = sitedata.Site()
	} else {
		s, err = site.LoadFile(r.sitePath)
	}
	if err != nil {
		r.recorder.ObserveConstructDuration(time.Since(start), metrics.ResultFailed)
		var ce *site.ConfigurationError
		if errors.As(err, &ce) {
			r.recorder.IncConfigurationProblems(len(ce.Problems))
		}
		return nil, err
	}
	r.recorder.ObserveConstructDuration(time.Since(start), metrics.ResultSuccess)
	return s, nil
}

// LoadIndex builds the configured content index. It returns nil without an
// error when the content directory does not exist; validation then skips the
// content checks.
func (r *Runner) LoadIndex(ctx context.Context) (*content.Index, error) {
	if g := r.content.Git; g != nil {
		idx, err := content.FromGit(ctx, g.RepoPath, g.Branch, g.Dir)
		if err != nil {
			return nil, err
		}
		r.logger.Debug("Indexed content from git",
			logfields.Source(idx.Source()), logfields.Branch(g.Branch), logfields.Documents(idx.Len()))
		return idx, nil
	}
	if r.content.Dir == "" {
		return nil, nil
	}
	if _, err := os.Stat(r.content.Dir); errors.Is(err, fs.ErrNotExist) {
		r.logger.Warn("Content directory not found, skipping content checks", logfields.Path(r.content.Dir))
		return nil, nil
	}
	idx, err := content.FromDir(r.content.Dir)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("Indexed content", logfields.Source(idx.Source()), logfields.Documents(idx.Len()))
	return idx, nil
}

// Run performs one pass. A *site.ConfigurationError or a content indexing
// failure aborts it; validation issues never do. Reporter failures are logged.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	s, err := r.LoadSite()
	if err != nil {
		return nil, err
	}
	idx, err := r.LoadIndex(ctx)
	if err != nil {
		return nil, err
	}

	var issues []site.ValidationIssue
	if idx != nil {
		issues = site.Validate(s, idx)
	} else {
		issues = site.Validate(s, nil)
	}

	run := report.NewRun(r.siteName(s), r.source(idx), start, issues)
	byKind := make(map[string]int)
	for kind, n := range run.CountByKind() {
		byKind[string(kind)] = n
	}
	r.recorder.ObserveValidation(run.Duration, byKind)

	if r.reporter != nil {
		if err := r.reporter.Report(ctx, run); err != nil {
			r.logger.Warn("Failed to report validation run", logfields.RunID(run.ID), logfields.Error(err))
		}
	}
	return &Result{Site: s, Index: idx, Run: run}, nil
}

func (r *Runner) siteName(s *site.Site) string {
	if r.sitePath == "" {
		return sitedata.Name
	}
	if s.Title != "" {
		return s.Title
	}
	return r.sitePath
}

func (r *Runner) source(idx *content.Index) string {
	if idx == nil {
		return "none"
	}
	return idx.Source()
}
