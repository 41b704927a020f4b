package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/pipeline"
	"git.home.luguber.info/inful/docnav/internal/report"
	"git.home.luguber.info/inful/docnav/internal/site"
	"git.home.luguber.info/inful/docnav/internal/sitedata"
)

const smallSite = `
title: Guide
themeConfig:
  sidebar:
    /1.x/:
      - /1.x/
      - title: Basics
        children:
          - /1.x/install
          - /1.x/usage
    /:
      - /
`

type recorder struct {
	metrics.NoopRecorder
	mu         sync.Mutex
	constructs []metrics.ResultLabel
	problems   int
	issues     map[string]int
}

func (r *recorder) ObserveConstructDuration(_ time.Duration, result metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructs = append(r.constructs, result)
}

func (r *recorder) IncConfigurationProblems(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.problems += n
}

func (r *recorder) ObserveValidation(_ time.Duration, byKind map[string]int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.issues = byKind
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
}

func fixture(t *testing.T) (sitePath, docs string) {
	t.Helper()
	dir := t.TempDir()
	sitePath = filepath.Join(dir, "site.yaml")
	writeFile(t, sitePath, smallSite)
	docs = filepath.Join(dir, "docs")
	writeFile(t, filepath.Join(docs, "README.md"), "# Home\n")
	writeFile(t, filepath.Join(docs, "1.x", "README.md"), "# Version one\n")
	writeFile(t, filepath.Join(docs, "1.x", "install.md"), "---\ntitle: Install\n---\nbody\n")
	return sitePath, docs
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestRunValidatesAgainstContentDir(t *testing.T) {
	sitePath, docs := fixture(t)
	rec := &recorder{}
	var got *report.Run
	r := pipeline.New(sitePath, config.ContentConfig{Dir: docs},
		pipeline.WithRecorder(rec),
		pipeline.WithLogger(quietLogger()),
		pipeline.WithReporter(report.ReporterFunc(func(_ context.Context, run *report.Run) error {
			got = run
			return nil
		})),
	)

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res.Index)
	assert.Equal(t, 3, res.Index.Len())

	require.Len(t, res.Run.Issues, 1)
	issue := res.Run.Issues[0]
	assert.Equal(t, site.IssueUnresolvedPath, issue.Kind)
	assert.Equal(t, "/1.x/usage", issue.Path)
	assert.Equal(t, `themeConfig.sidebar["/1.x/"][1].children[1]`, issue.Location)

	assert.Same(t, res.Run, got)
	assert.Equal(t, "Guide", res.Run.Site)
	assert.Equal(t, []metrics.ResultLabel{metrics.ResultSuccess}, rec.constructs)
	assert.Equal(t, map[string]int{"unresolved_path": 1}, rec.issues)

	title, ok := res.Titles().Title("/1.x/install")
	require.True(t, ok)
	assert.Equal(t, "Install", title)
}

func TestRunWithBundledSiteAndMissingContent(t *testing.T) {
	r := pipeline.New("", config.ContentConfig{Dir: filepath.Join(t.TempDir(), "absent")},
		pipeline.WithLogger(quietLogger()))

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, res.Index)
	assert.Nil(t, res.Titles())
	assert.Empty(t, res.Run.Issues)
	assert.Equal(t, sitedata.Name, res.Run.Site)
	assert.Equal(t, "none", res.Run.Source)
}

func TestRunRejectsInvalidSite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	writeFile(t, path, "themeConfig:\n  sidebar:\n    /:\n      - 42\n      - ''\n")
	rec := &recorder{}

	_, err := pipeline.New(path, config.ContentConfig{}, pipeline.WithRecorder(rec)).Run(context.Background())
	require.Error(t, err)
	assert.True(t, site.IsConfigurationError(err))
	assert.Equal(t, []metrics.ResultLabel{metrics.ResultFailed}, rec.constructs)
	assert.Equal(t, 2, rec.problems)
}

func TestRunSurvivesReporterFailure(t *testing.T) {
	sitePath, docs := fixture(t)
	var logs bytes.Buffer
	r := pipeline.New(sitePath, config.ContentConfig{Dir: docs},
		pipeline.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
		pipeline.WithReporter(report.ReporterFunc(func(context.Context, *report.Run) error {
			return errors.New("broker down")
		})),
	)

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Run.Issues, 1)
	assert.Contains(t, logs.String(), "broker down")
}

func TestRunFailsOnBadGitRepo(t *testing.T) {
	r := pipeline.New("", config.ContentConfig{Git: &config.GitConfig{RepoPath: t.TempDir()}},
		pipeline.WithLogger(quietLogger()))
	_, err := r.Run(context.Background())
	require.Error(t, err)
	assert.False(t, site.IsConfigurationError(err))
}
