package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/pipeline"
	"git.home.luguber.info/inful/docnav/internal/report"
	"git.home.luguber.info/inful/docnav/internal/server/httpserver"
	"git.home.luguber.info/inful/docnav/internal/watch"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	SiteFlag `embed:""`

	Addr    string `help:"Listen address (overrides server.addr)"`
	Content string `help:"Content directory to validate against (overrides content.dir)" type:"path"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.Settings()
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}
	if s.Content != "" {
		cfg.Content = config.ContentConfig{Dir: s.Content}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunServe(ctx, cfg, s.path(cfg), root.Logger())
}

// RunServe validates the site, then serves the API and keeps the snapshot
// current until ctx is cancelled.
func RunServe(ctx context.Context, cfg *config.Config, sitePath string, logger *slog.Logger) error {
	var (
		recorder       metrics.Recorder = metrics.NoopRecorder{}
		metricsHandler http.Handler
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder = metrics.NewPrometheusRecorder(reg)
		metricsHandler = metrics.HTTPHandler(reg)
	}

	reporters, history, closeReporters := openReporters(cfg, logger)
	defer closeReporters()
	reporters = append([]report.Reporter{report.NewLogReporter(logger)}, reporters...)

	runner := pipeline.New(sitePath, cfg.Content,
		pipeline.WithLogger(logger),
		pipeline.WithRecorder(recorder),
		pipeline.WithReporter(report.Multi(reporters...)))

	opts := []watch.Option{
		watch.WithLogger(logger),
		watch.WithRecorder(recorder),
		watch.WithInterval(cfg.Watch.IntervalDuration()),
		watch.WithDebounce(cfg.Watch.DebounceDuration()),
	}
	if cfg.Watch.Enabled {
		paths := []string{sitePath}
		if cfg.Content.Git == nil {
			paths = append(paths, cfg.Content.Dir)
		}
		opts = append(opts, watch.WithPaths(paths...))
	}
	svc := watch.New(runner, opts...)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := svc.Stop(); err != nil {
			logger.Warn("Failed to stop watcher", logfields.Error(err))
		}
	}()

	srvOpts := httpserver.Options{
		Recorder:       recorder,
		MetricsHandler: metricsHandler,
		MetricsPath:    cfg.Metrics.Path,
		Logger:         logger,
	}
	if history != nil {
		srvOpts.History = history
	}
	srv := httpserver.New(cfg.Server.Addr, svc, srvOpts)
	if err := srv.Start(ctx); err != nil {
		return err
	}

	logger.Info("Serving navigation API, waiting for shutdown signal", slog.String("addr", srv.Addr()))
	<-ctx.Done()
	logger.Info("Shutdown signal received, stopping server")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := srv.Stop(stopCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	return nil
}
