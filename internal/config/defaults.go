package config

// Default values applied to unset fields.
const (
	DefaultAddr        = ":8080"
	DefaultDebounce    = "300ms"
	DefaultMetricsPath = "/metrics"
	DefaultContentDir  = "docs"
	DefaultHistoryPath = "docnav-history.db"
	DefaultNATSSubject = "docnav.issues"
)

func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = DefaultDebounce
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Content.Dir == "" && cfg.Content.Git == nil {
		cfg.Content.Dir = DefaultContentDir
	}
	if n := cfg.Reporting.NATS; n != nil && n.Subject == "" {
		n.Subject = DefaultNATSSubject
	}
	if h := cfg.Reporting.History; h != nil && h.Path == "" {
		h.Path = DefaultHistoryPath
	}
}
