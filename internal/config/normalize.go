package config

import (
	"fmt"
	"strings"
)

// normalize case-folds enumerations and trims paths. It returns a warning for
// each value it had to change.
func normalize(cfg *Config) []string {
	var warnings []string

	if raw := string(cfg.Logging.Level); raw != "" {
		res := logLevels.NormalizeWithWarning("logging.level", raw)
		if _, err := logLevels.NormalizeWithValidation(raw); err != nil {
			warnings = append(warnings, warnUnknown("logging.level", raw, string(res.Value)))
		} else if res.Changed {
			warnings = append(warnings, res.Warning)
		}
		cfg.Logging.Level = res.Value
	}
	if raw := string(cfg.Logging.Format); raw != "" {
		res := logFormats.NormalizeWithWarning("logging.format", raw)
		if _, err := logFormats.NormalizeWithValidation(raw); err != nil {
			warnings = append(warnings, warnUnknown("logging.format", raw, string(res.Value)))
		} else if res.Changed {
			warnings = append(warnings, res.Warning)
		}
		cfg.Logging.Format = res.Value
	}

	cfg.Site.Path = strings.TrimSpace(cfg.Site.Path)
	cfg.Content.Dir = strings.TrimSpace(cfg.Content.Dir)
	cfg.Server.Addr = strings.TrimSpace(cfg.Server.Addr)
	return warnings
}

func warnUnknown(field, value, def string) string {
	return fmt.Sprintf("unknown %s '%s', defaulting to %s", field, value, def)
}
