package metrics

import "time"

// ResultLabel enumerates outcome categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultWarning ResultLabel = "warning"
	ResultFailed  ResultLabel = "failed"
)

// Recorder defines observability hooks for site construction, validation and
// route resolution.
type Recorder interface {
	ObserveConstructDuration(d time.Duration, result ResultLabel)
	IncConfigurationProblems(n int)
	ObserveValidation(d time.Duration, issuesByKind map[string]int)
	IncResolve(prefix string, found bool)
	IncReload(result ResultLabel)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveConstructDuration(time.Duration, ResultLabel) {}
func (NoopRecorder) IncConfigurationProblems(int)                       {}
func (NoopRecorder) ObserveValidation(time.Duration, map[string]int)    {}
func (NoopRecorder) IncResolve(string, bool)                            {}
func (NoopRecorder) IncReload(ResultLabel)                              {}
