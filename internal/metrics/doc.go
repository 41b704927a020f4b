// Package metrics records navigation model activity.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so nothing needs a nil check:
//
//	svc := watch.New(loader, watch.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// PrometheusRecorder exports the counters and histograms under the docnav
// namespace; HTTPHandler serves them for scraping.
package metrics
