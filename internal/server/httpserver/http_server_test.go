package httpserver_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/pipeline"
	"git.home.luguber.info/inful/docnav/internal/report"
	"git.home.luguber.info/inful/docnav/internal/server/httpserver"
	"git.home.luguber.info/inful/docnav/internal/sitedata"
)

type source struct{ res *pipeline.Result }

func (s source) Current() *pipeline.Result { return s.res }

func bundled(t *testing.T) source {
	t.Helper()
	s, err := sitedata.Site()
	require.NoError(t, err)
	return source{&pipeline.Result{Site: s, Run: report.NewRun(sitedata.Name, "none", time.Now(), nil)}}
}

func TestRoutesAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	srv := httpserver.New(":0", bundled(t), httpserver.Options{
		Recorder:       rec,
		MetricsHandler: metrics.HTTPHandler(reg),
	})

	do := func(target string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		return w
	}

	assert.Equal(t, http.StatusOK, do("/healthz").Code)
	assert.Equal(t, http.StatusOK, do("/api/sidebar?path=/1.x/installation").Code)
	assert.Equal(t, http.StatusOK, do("/api/site").Code)
	assert.Equal(t, http.StatusNotFound, do("/api/unknown").Code)

	m := do("/metrics")
	require.Equal(t, http.StatusOK, m.Code)
	assert.Contains(t, m.Body.String(), `docnav_resolve_total{prefix="/1.x/"} 1`)
}

func TestStartStop(t *testing.T) {
	srv := httpserver.New("127.0.0.1:0", bundled(t), httpserver.Options{})
	require.NoError(t, srv.Start(context.Background()))

	resp, err := http.Get("http://" + srv.Addr() + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"healthy"`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
}

func TestStartFailsOnBusyAddress(t *testing.T) {
	first := httpserver.New("127.0.0.1:0", bundled(t), httpserver.Options{})
	require.NoError(t, first.Start(context.Background()))
	t.Cleanup(func() { _ = first.Stop(context.Background()) })

	second := httpserver.New(first.Addr(), bundled(t), httpserver.Options{})
	assert.Error(t, second.Start(context.Background()))
}
