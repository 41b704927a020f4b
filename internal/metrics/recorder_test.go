package metrics

import (
	"time"
)

// testRecorder counts calls.
type testRecorder struct {
	constructs map[ResultLabel]int
	problems   int
	validated  int
	resolves   map[string]int
	reloads    map[ResultLabel]int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{constructs: map[ResultLabel]int{}, resolves: map[string]int{}, reloads: map[ResultLabel]int{}}
}

func (t *testRecorder) ObserveConstructDuration(_ time.Duration, r ResultLabel) { t.constructs[r]++ }
func (t *testRecorder) IncConfigurationProblems(n int)                         { t.problems += n }
func (t *testRecorder) ObserveValidation(time.Duration, map[string]int)        { t.validated++ }
func (t *testRecorder) IncResolve(prefix string, _ bool)                       { t.resolves[prefix]++ }
func (t *testRecorder) IncReload(r ResultLabel)                                { t.reloads[r]++ }

var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
	_ Recorder = newTestRecorder()
)
