package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docnav"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once              sync.Once
	mu                sync.Mutex
	constructDuration *prom.HistogramVec
	configProblems    prom.Counter
	validateDuration  prom.Histogram
	validationRuns    *prom.CounterVec
	issues            *prom.GaugeVec
	resolves          *prom.CounterVec
	reloads           *prom.CounterVec
	issueKinds        map[string]bool
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{issueKinds: make(map[string]bool)}
	pr.once.Do(func() {
		pr.constructDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "construct_duration_seconds",
			Help:      "Duration of site construction from literal data",
			Buckets:   prom.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"result"})
		pr.configProblems = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "configuration_problems_total",
			Help:      "Problems reported by failed site constructions",
		})
		pr.validateDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "validation_duration_seconds",
			Help:      "Duration of navigation validation runs",
			Buckets:   prom.DefBuckets,
		})
		pr.validationRuns = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "validation_runs_total",
			Help:      "Validation runs by outcome",
		}, []string{"result"})
		pr.issues = prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "validation_issues",
			Help:      "Issues found by the last validation run, by kind",
		}, []string{"kind"})
		pr.resolves = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "resolve_total",
			Help:      "Route resolutions by selected sidebar prefix",
		}, []string{"prefix"})
		pr.reloads = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "reloads_total",
			Help:      "Site reloads by outcome",
		}, []string{"result"})
		reg.MustRegister(pr.constructDuration, pr.configProblems, pr.validateDuration, pr.validationRuns, pr.issues, pr.resolves, pr.reloads)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveConstructDuration(d time.Duration, result ResultLabel) {
	if p == nil || p.constructDuration == nil {
		return
	}
	p.constructDuration.WithLabelValues(string(result)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncConfigurationProblems(n int) {
	if p == nil || p.configProblems == nil {
		return
	}
	p.configProblems.Add(float64(n))
}

// ObserveValidation records a run. Kinds seen in earlier runs but absent from
// this one are reset to zero.
func (p *PrometheusRecorder) ObserveValidation(d time.Duration, issuesByKind map[string]int) {
	if p == nil || p.issues == nil {
		return
	}
	p.validateDuration.Observe(d.Seconds())

	total := 0
	p.mu.Lock()
	for kind := range p.issueKinds {
		if _, ok := issuesByKind[kind]; !ok {
			p.issues.WithLabelValues(kind).Set(0)
		}
	}
	for kind, n := range issuesByKind {
		p.issueKinds[kind] = true
		p.issues.WithLabelValues(kind).Set(float64(n))
		total += n
	}
	p.mu.Unlock()

	result := ResultSuccess
	if total > 0 {
		result = ResultWarning
	}
	p.validationRuns.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncResolve(prefix string, found bool) {
	if p == nil || p.resolves == nil {
		return
	}
	if !found {
		prefix = "none"
	}
	p.resolves.WithLabelValues(prefix).Inc()
}

func (p *PrometheusRecorder) IncReload(result ResultLabel) {
	if p == nil || p.reloads == nil {
		return
	}
	p.reloads.WithLabelValues(string(result)).Inc()
}
