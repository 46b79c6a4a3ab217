package shell

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"whelk.sh/pkg/histutil"
)

// Config holds the optional configuration of the shell, read from
// config.yaml under the user configuration directory. Every field has a
// sensible zero-value default; a missing file means an all-default Config.
type Config struct {
	// Path of the bolt database persisting the command history. Empty means
	// history is kept in memory only.
	HistoryFile string `yaml:"history-file"`
	// Capacity of the in-memory history.
	HistorySize int `yaml:"history-size"`
	// Height of the suggestion panel.
	SuggestionRows int `yaml:"suggestion-rows"`
	// Path of a debug log file. Empty disables logging.
	LogFile string `yaml:"log-file"`
}

const defaultSuggestionRows = 5

func defaultConfig() Config {
	return Config{
		HistorySize:    histutil.DefaultCapacity,
		SuggestionRows: defaultSuggestionRows,
	}
}

// loadConfig reads the configuration file if it exists. A malformed file is
// reported through the returned error, with the defaults still usable in the
// returned Config.
func loadConfig() (Config, error) {
	cfg := defaultConfig()
	dir, err := os.UserConfigDir()
	if err != nil {
		return cfg, nil
	}
	data, err := os.ReadFile(filepath.Join(dir, "whelk", "config.yaml"))
	if err != nil {
		// Missing configuration is the normal case.
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("cannot parse config.yaml: %w", err)
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = histutil.DefaultCapacity
	}
	if cfg.SuggestionRows <= 0 {
		cfg.SuggestionRows = defaultSuggestionRows
	}
	return cfg, nil
}
