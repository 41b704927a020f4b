// Package watch keeps a validated site snapshot current while serving. The
// snapshot is replaced atomically after a successful pass; a failed pass keeps
// the previous one.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/pipeline"
)

// DefaultDebounce delays a reload after the last file event.
const DefaultDebounce = 300 * time.Millisecond

// Runner produces a fresh snapshot.
type Runner interface {
	Run(ctx context.Context) (*pipeline.Result, error)
}

// Service owns the current snapshot and the reload triggers feeding it.
type Service struct {
	runner   Runner
	recorder metrics.Recorder
	logger   *slog.Logger
	debounce time.Duration
	interval time.Duration
	paths    []string

	current  atomic.Pointer[pipeline.Result]
	reloadMu sync.Mutex

	mu         sync.Mutex
	started    bool
	watcher    *fsnotify.Watcher
	scheduler  gocron.Scheduler
	files      map[string]bool
	dirs       []string
	stopChan   chan struct{}
	reloadChan chan struct{}
	wg         sync.WaitGroup
}

// Option configures a Service.
type Option func(*Service)

// WithPaths watches the given files and directories. Directories are watched
// recursively.
func WithPaths(paths ...string) Option {
	return func(s *Service) {
		for _, p := range paths {
			if p != "" {
				s.paths = append(s.paths, p)
			}
		}
	}
}

// WithDebounce sets the quiet period before a file change triggers a reload.
func WithDebounce(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithInterval revalidates on a fixed schedule; zero disables it.
func WithInterval(d time.Duration) Option {
	return func(s *Service) { s.interval = d }
}

// WithRecorder records reload outcomes.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New creates a stopped service.
func New(runner Runner, opts ...Option) *Service {
	s := &Service{
		runner:   runner,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the latest good snapshot, or nil before the first success.
func (s *Service) Current() *pipeline.Result {
	return s.current.Load()
}

// Reload runs one pass and publishes its result. Passes are serialized. On
// error the previous snapshot stays current.
func (s *Service) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()
	res, err := s.runner.Run(ctx)
	if err != nil {
		s.recorder.IncReload(metrics.ResultFailed)
		return err
	}
	s.current.Store(res)

	result := metrics.ResultSuccess
	if len(res.Run.Issues) > 0 {
		result = metrics.ResultWarning
	}
	s.recorder.IncReload(result)
	s.logger.Info("Site reloaded",
		logfields.RunID(res.Run.ID),
		logfields.Issues(len(res.Run.Issues)),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return nil
}

// Start performs the initial pass and then begins watching. It fails when the
// initial pass fails.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errors.New("watch service already started")
	}
	if err := s.Reload(ctx); err != nil {
		return err
	}

	s.stopChan = make(chan struct{})
	s.reloadChan = make(chan struct{}, 1)

	if len(s.paths) > 0 {
		if err := s.startWatcher(ctx); err != nil {
			return err
		}
	}
	if s.interval > 0 {
		if err := s.startScheduler(ctx); err != nil {
			close(s.stopChan)
			_ = s.stopWatcher()
			s.wg.Wait()
			return err
		}
	}
	s.started = true
	return nil
}

// Stop halts watching and scheduling. The last snapshot stays readable.
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}
	s.started = false
	close(s.stopChan)

	var errs []error
	if s.scheduler != nil {
		errs = append(errs, s.scheduler.Shutdown())
		s.scheduler = nil
	}
	errs = append(errs, s.stopWatcher())
	s.wg.Wait()
	return errors.Join(errs...)
}

func (s *Service) stopWatcher() error {
	if s.watcher == nil {
		return nil
	}
	err := s.watcher.Close()
	s.watcher = nil
	return err
}

func (s *Service) startScheduler(ctx context.Context) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			if err := s.Reload(ctx); err != nil {
				s.logger.Warn("Scheduled revalidation failed", logfields.Error(err))
			}
		}),
		gocron.WithName("revalidate"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("schedule revalidation: %w", err)
	}
	sched.Start()
	s.scheduler = sched
	s.logger.Info("Scheduled revalidation", slog.Duration("interval", s.interval))
	return nil
}

func (s *Service) startWatcher(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	s.watcher = w
	s.files = make(map[string]bool)
	s.dirs = nil

	for _, p := range s.paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = s.stopWatcher()
			return fmt.Errorf("failed to resolve watch path %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			s.logger.Warn("Watch path does not exist", logfields.Path(abs))
			continue
		case err != nil:
			_ = s.stopWatcher()
			return fmt.Errorf("failed to stat watch path %s: %w", abs, err)
		}
		if info.IsDir() {
			s.dirs = append(s.dirs, abs)
			err = addTree(w, abs)
		} else {
			// Watching the directory survives editors that replace the file.
			s.files[abs] = true
			err = w.Add(filepath.Dir(abs))
		}
		if err != nil {
			_ = s.stopWatcher()
			return fmt.Errorf("failed to watch %s: %w", abs, err)
		}
	}

	s.logger.Info("Starting site watcher", slog.Any("paths", s.paths))
	s.wg.Add(2)
	go s.watchLoop(w)
	go s.reloadLoop(ctx)
	return nil
}

func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && ignored(d.Name()) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

func ignored(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules"
}

func (s *Service) relevant(name string) bool {
	if s.files[name] {
		return true
	}
	if ignored(filepath.Base(name)) {
		return false
	}
	for _, dir := range s.dirs {
		if name == dir || strings.HasPrefix(name, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (s *Service) watchLoop(w *fsnotify.Watcher) {
	defer s.wg.Done()
	for {
		select {
		case <-s.stopChan:
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if !s.relevant(event.Name) || event.Op == fsnotify.Chmod {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(w, event.Name); err != nil {
						s.logger.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
					}
				}
			}
			s.logger.Debug("Site change detected", logfields.File(event.Name), slog.String("op", event.Op.String()))
			s.triggerReload()
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.logger.Error("Site watcher error", logfields.Error(err))
		}
	}
}

func (s *Service) triggerReload() {
	select {
	case s.reloadChan <- struct{}{}:
	default:
	}
}

func (s *Service) reloadLoop(ctx context.Context) {
	defer s.wg.Done()
	var timer *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-s.reloadChan:
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(s.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			if err := s.Reload(ctx); err != nil {
				s.logger.Error("Reload failed, keeping previous site", logfields.Error(err))
			}
		}
	}
}
