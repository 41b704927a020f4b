package report

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/docnav/internal/logfields"
)

// LogReporter writes one warning per issue and an info summary.
type LogReporter struct {
	logger *slog.Logger
}

// NewLogReporter logs to logger, or the default logger when nil.
func NewLogReporter(logger *slog.Logger) *LogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogReporter{logger: logger}
}

func (l *LogReporter) Report(ctx context.Context, run *Run) error {
	for _, issue := range run.Issues {
		l.logger.LogAttrs(ctx, slog.LevelWarn, issue.Message,
			logfields.RunID(run.ID),
			logfields.IssueKind(string(issue.Kind)),
			logfields.Path(issue.Path),
			logfields.Location(issue.Location),
			logfields.Prefix(issue.Prefix))
	}
	l.logger.LogAttrs(ctx, slog.LevelInfo, "Validation finished",
		logfields.RunID(run.ID),
		logfields.Source(run.Source),
		logfields.Issues(len(run.Issues)),
		logfields.DurationMS(float64(run.Duration.Microseconds())/1000))
	return nil
}
