package shell

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	// Needed for os.UserConfigDir on non-XDG platforms.
	t.Setenv("HOME", dir)
	cfgDir := filepath.Join(mustUserConfigDir(t), "whelk")
	if err := os.MkdirAll(cfgDir, 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func mustUserConfigDir(t *testing.T) string {
	t.Helper()
	dir, err := os.UserConfigDir()
	if err != nil {
		t.Skipf("no user config dir: %v", err)
	}
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig with no file errors: %v", err)
	}
	if cfg.HistorySize != 64 || cfg.SuggestionRows != 5 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.HistoryFile != "" {
		t.Errorf("history is persistent by default: %q", cfg.HistoryFile)
	}
}

func TestLoadConfig_File(t *testing.T) {
	writeConfig(t, "history-file: /tmp/whelk-db\nhistory-size: 10\nsuggestion-rows: 3\n")
	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HistoryFile != "/tmp/whelk-db" || cfg.HistorySize != 10 || cfg.SuggestionRows != 3 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfig_MalformedFileFallsBackToDefaults(t *testing.T) {
	writeConfig(t, "history-size: [not an int\n")
	cfg, err := loadConfig()
	if err == nil {
		t.Errorf("malformed config did not report an error")
	}
	if cfg.HistorySize != 64 || cfg.SuggestionRows != 5 {
		t.Errorf("fallback cfg = %+v", cfg)
	}
}

func TestPrompt(t *testing.T) {
	p := prompt()
	if len(p) < len("> ") || p[len(p)-2:] != "> " {
		t.Errorf("prompt = %q, want a name followed by %q", p, "> ")
	}
}
