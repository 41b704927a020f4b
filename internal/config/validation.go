package config

import (
	"fmt"
	"strings"
	"time"

	derrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// ValidationError lists every invalid field of a configuration.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// Details lists one problem per line for the CLI error adapter.
func (e *ValidationError) Details() []string { return e.Problems }

func (e *ValidationError) Unwrap() error {
	return derrors.ConfigError("invalid configuration").
		WithContext("problems", len(e.Problems)).
		Build()
}

func validate(cfg *Config) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if d, err := time.ParseDuration(cfg.Watch.Debounce); err != nil || d < 0 {
		add("watch.debounce: invalid duration %q", cfg.Watch.Debounce)
	}
	if cfg.Watch.Interval != "" {
		if d, err := time.ParseDuration(cfg.Watch.Interval); err != nil || d < time.Second {
			add("watch.interval: must be a duration of at least 1s, got %q", cfg.Watch.Interval)
		}
	}
	if g := cfg.Content.Git; g != nil && strings.TrimSpace(g.RepoPath) == "" {
		add("content.git.repo_path: required when content.git is set")
	}
	if n := cfg.Reporting.NATS; n != nil && strings.TrimSpace(n.URL) == "" {
		add("reporting.nats.url: required when reporting.nats is set")
	}
	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		add("metrics.path: must start with /, got %q", cfg.Metrics.Path)
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
