package logger

import (
	"os"
	"strings"
)

// Environment variables:
//
//	YTX_LOG        comma-separated components to enable, or "all"
//	YTX_LOG_LEVEL  TRACE|DEBUG|INFO|WARN|ERROR
//	YTX_LOG_FORMAT text|json
//	YTX_LOG_TS     1 to prepend timestamps

// FromEnv builds a config from environment variables on top of defaults.
func FromEnv() *Config {
	cfg := DefaultConfig()

	if v := os.Getenv("YTX_LOG"); v != "" {
		if strings.EqualFold(v, "all") {
			for c := range cfg.Components {
				cfg.Components[c] = true
			}
		} else {
			for _, name := range strings.Split(v, ",") {
				cfg.Components[Component(strings.TrimSpace(name))] = true
			}
		}
	}

	if v := os.Getenv("YTX_LOG_LEVEL"); v != "" {
		if level, ok := parseLevel(v); ok {
			cfg.Level = level
		}
	}

	if strings.EqualFold(os.Getenv("YTX_LOG_FORMAT"), "json") {
		cfg.Format = FormatJSON
	}

	if os.Getenv("YTX_LOG_TS") == "1" {
		cfg.Timestamp = true
	}

	return cfg
}

func parseLevel(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return TRACE, true
	case "DEBUG":
		return DEBUG, true
	case "INFO":
		return INFO, true
	case "WARN", "WARNING":
		return WARN, true
	case "ERROR":
		return ERROR, true
	}
	return INFO, false
}
