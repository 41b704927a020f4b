package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

func gatherValue(t *testing.T, reg *prom.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue metrics
				}
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				return float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	t.Fatalf("metric %s%v not found", name, labels)
	return 0
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveConstructDuration(2*time.Millisecond, ResultSuccess)
	pr.IncConfigurationProblems(3)
	pr.IncResolve("/1.x/", true)
	pr.IncResolve("/1.x/", true)
	pr.IncResolve("", false)
	pr.IncReload(ResultFailed)

	if got := gatherValue(t, reg, "docnav_construct_duration_seconds", map[string]string{"result": "success"}); got != 1 {
		t.Errorf("construct observations = %v, want 1", got)
	}
	if got := gatherValue(t, reg, "docnav_configuration_problems_total", nil); got != 3 {
		t.Errorf("problems = %v, want 3", got)
	}
	if got := gatherValue(t, reg, "docnav_resolve_total", map[string]string{"prefix": "/1.x/"}); got != 2 {
		t.Errorf("resolves = %v, want 2", got)
	}
	if got := gatherValue(t, reg, "docnav_resolve_total", map[string]string{"prefix": "none"}); got != 1 {
		t.Errorf("unresolved = %v, want 1", got)
	}
	if got := gatherValue(t, reg, "docnav_reloads_total", map[string]string{"result": "failed"}); got != 1 {
		t.Errorf("reloads = %v, want 1", got)
	}
}

func TestObserveValidationResetsVanishedKinds(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveValidation(time.Millisecond, map[string]int{"unresolved_path": 2, "duplicate_path": 1})
	pr.ObserveValidation(time.Millisecond, map[string]int{"unresolved_path": 1})

	if got := gatherValue(t, reg, "docnav_validation_issues", map[string]string{"kind": "unresolved_path"}); got != 1 {
		t.Errorf("unresolved_path = %v, want 1", got)
	}
	if got := gatherValue(t, reg, "docnav_validation_issues", map[string]string{"kind": "duplicate_path"}); got != 0 {
		t.Errorf("duplicate_path = %v, want 0", got)
	}
	if got := gatherValue(t, reg, "docnav_validation_runs_total", map[string]string{"result": "warning"}); got != 2 {
		t.Errorf("warning runs = %v, want 2", got)
	}

	pr.ObserveValidation(time.Millisecond, nil)
	if got := gatherValue(t, reg, "docnav_validation_runs_total", map[string]string{"result": "success"}); got != 1 {
		t.Errorf("clean runs = %v, want 1", got)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.IncResolve("/", true)
	pr.ObserveValidation(time.Second, map[string]int{"x": 1})
	pr.IncReload(ResultSuccess)
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncResolve("/", true)

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `docnav_resolve_total{prefix="/"} 1`) {
		t.Errorf("metrics body missing resolve counter:\n%s", body)
	}
}
