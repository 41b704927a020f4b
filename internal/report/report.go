// Package report delivers validation results to operators: the log, a NATS
// JetStream subject and a local SQLite history.
package report

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docnav/internal/site"
)

// Run is the outcome of one validation pass.
type Run struct {
	ID        string                 `json:"id"`
	Site      string                 `json:"site"`
	Source    string                 `json:"source"`
	StartedAt time.Time              `json:"started_at"`
	Duration  time.Duration          `json:"duration"`
	Issues    []site.ValidationIssue `json:"issues"`
}

// NewRun stamps a validation result with a fresh id.
func NewRun(siteName, source string, startedAt time.Time, issues []site.ValidationIssue) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Site:      siteName,
		Source:    source,
		StartedAt: startedAt.UTC(),
		Duration:  time.Since(startedAt),
		Issues:    issues,
	}
}

// CountByKind tallies the run's issues per kind.
func (r *Run) CountByKind() map[site.IssueKind]int {
	counts := make(map[site.IssueKind]int)
	for _, issue := range r.Issues {
		counts[issue.Kind]++
	}
	return counts
}

// Reporter receives finished validation runs.
type Reporter interface {
	Report(ctx context.Context, run *Run) error
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context, run *Run) error

func (f ReporterFunc) Report(ctx context.Context, run *Run) error { return f(ctx, run) }

type multi []Reporter

// Multi fans a run out to every reporter. All reporters are called even when
// one fails; the failures are joined.
func Multi(reporters ...Reporter) Reporter {
	var out multi
	for _, r := range reporters {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (m multi) Report(ctx context.Context, run *Run) error {
	var errs []error
	for _, r := range m {
		if err := r.Report(ctx, run); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
