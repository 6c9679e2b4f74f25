package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/userdesk/internal/flagx"
	"github.com/dmitrijs2005/userdesk/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify durations either as
// strings like "200ms" or as integer nanoseconds.
type JsonConfig struct {
	BaseURL           string         `json:"base_url"`
	DebounceWindow    timex.Duration `json:"debounce"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
	DeleteConcurrency int            `json:"delete_concurrency"`
	StateDBPath       string         `json:"state_db"`
	HistoryFile       string         `json:"history_file"`
	LogLevel          string         `json:"log_level"`
	OtelEndpoint      string         `json:"otel_endpoint"`
}

// parseJson overlays cfg with the JSON file named by -c or -config.
// Keys missing from the file keep their current values.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	jc := JsonConfig{
		BaseURL:           cfg.BaseURL,
		DebounceWindow:    timex.Duration{Duration: cfg.DebounceWindow},
		RequestTimeout:    timex.Duration{Duration: cfg.RequestTimeout},
		DeleteConcurrency: cfg.DeleteConcurrency,
		StateDBPath:       cfg.StateDBPath,
		HistoryFile:       cfg.HistoryFile,
		LogLevel:          cfg.LogLevel,
		OtelEndpoint:      cfg.OtelEndpoint,
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.BaseURL = jc.BaseURL
	cfg.DebounceWindow = jc.DebounceWindow.Duration
	cfg.RequestTimeout = jc.RequestTimeout.Duration
	cfg.DeleteConcurrency = jc.DeleteConcurrency
	cfg.StateDBPath = jc.StateDBPath
	cfg.HistoryFile = jc.HistoryFile
	cfg.LogLevel = jc.LogLevel
	cfg.OtelEndpoint = jc.OtelEndpoint
	return nil
}
