// Package config loads the docnav tool configuration (docnav.yaml).
//
// Loading follows a fixed pipeline: .env files are read into the process
// environment, ${VAR} references in the file are expanded, the YAML is
// decoded, enumerations are normalized, defaults are applied and the result is
// validated.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "docnav.yaml"

// Config is the complete tool configuration.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Content   ContentConfig   `yaml:"content"`
	Logging   LoggingConfig   `yaml:"logging"`
	Server    ServerConfig    `yaml:"server"`
	Watch     WatchConfig     `yaml:"watch"`
	Reporting ReportingConfig `yaml:"reporting"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// SiteConfig selects the site literal. An empty path uses the bundled site.
type SiteConfig struct {
	Path string `yaml:"path,omitempty"`
}

// ContentConfig selects the content index used for validation. Git takes
// precedence over Dir when both are set.
type ContentConfig struct {
	Dir string     `yaml:"dir,omitempty"`
	Git *GitConfig `yaml:"git,omitempty"`
}

// GitConfig reads content from a committed branch instead of the working tree.
type GitConfig struct {
	RepoPath string `yaml:"repo_path"`
	Branch   string `yaml:"branch,omitempty"`
	Dir      string `yaml:"dir,omitempty"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// WatchConfig controls site reloading while serving. Durations use Go syntax.
type WatchConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Debounce string `yaml:"debounce"`
	Interval string `yaml:"interval,omitempty"`
}

// DebounceDuration returns the parsed debounce delay.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, _ := time.ParseDuration(w.Debounce)
	return d
}

// IntervalDuration returns the parsed revalidation interval; zero disables it.
func (w WatchConfig) IntervalDuration() time.Duration {
	if w.Interval == "" {
		return 0
	}
	d, _ := time.ParseDuration(w.Interval)
	return d
}

// ReportingConfig lists where validation runs are delivered besides the log.
type ReportingConfig struct {
	NATS    *NATSConfig    `yaml:"nats,omitempty"`
	History *HistoryConfig `yaml:"history,omitempty"`
}

// NATSConfig publishes issues to a JetStream subject.
type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject,omitempty"`
}

// HistoryConfig stores runs in a SQLite database.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// MetricsConfig exposes Prometheus metrics on the HTTP API.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, derrors.NotFoundError(fmt.Sprintf("configuration file not found: %s", path)).
				WithContext("file", path).
				Build()
		}
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "failed to read config file").
			WithContext("file", path).
			Build()
	}
	return Parse(data)
}

// LoadOrDefault reads path when it exists and falls back to Default otherwise.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if derrors.HasCategory(err, derrors.CategoryNotFound) {
		slog.Debug("No configuration file, using defaults", "file", path)
		return Default(), nil
	}
	return cfg, err
}

// Parse decodes configuration YAML after expanding environment variables.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to unmarshal config").Build()
	}

	for _, w := range normalize(&cfg) {
		slog.Warn("config normalization", "warning", w)
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadEnvFiles reads .env and .env.local without overriding variables that
// are already set.
func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		if err := godotenv.Load(name); err == nil {
			slog.Debug("Loaded environment variables", "file", name)
		}
	}
}
