package config

import (
	"os"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// Example returns the configuration written by Init.
func Example() *Config {
	return &Config{
		Content: ContentConfig{Dir: DefaultContentDir},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		Server:  ServerConfig{Addr: DefaultAddr},
		Watch:   WatchConfig{Enabled: true, Debounce: DefaultDebounce, Interval: "10m"},
		Reporting: ReportingConfig{
			History: &HistoryConfig{Path: DefaultHistoryPath},
		},
		Metrics: MetricsConfig{Enabled: true, Path: DefaultMetricsPath},
	}
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return derrors.ConfigError("configuration file already exists: " + path + " (use --force to overwrite)").
			WithContext("file", path).
			Build()
	}
	data, err := yaml.Marshal(Example())
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryInternal, "failed to marshal example config").Build()
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to write config file").
			WithContext("file", path).
			Build()
	}
	return nil
}
