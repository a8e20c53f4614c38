package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/vango-dev/reactor/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.Hydration.Fallback != FallbackAbort {
		t.Errorf("Hydration.Fallback = %q, want %q", cfg.Hydration.Fallback, FallbackAbort)
	}
	if !cfg.Markers() {
		t.Error("Markers() = false, want true by default")
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q", cfg.Metrics.Namespace)
	}
}

func TestLoadJSON(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := Load(tmpDir); !errors.HasCode(err, "R401") {
		t.Fatalf("Load on empty dir err = %v, want R401", err)
	}

	configJSON := `{
  "debug": true,
  "hydration": {"fallback": "remount"},
  "render": {"pretty": true, "markers": false},
  "metrics": {"enabled": true}
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, JSONFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Remount() {
		t.Error("Remount() = false")
	}
	if cfg.Markers() {
		t.Error("Markers() = true, want false")
	}
	if !cfg.Render.Pretty {
		t.Error("Render.Pretty = false")
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, want debug", cfg.SlogLevel())
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace default not applied: %q", cfg.Metrics.Namespace)
	}
	if cfg.Path() != filepath.Join(tmpDir, JSONFileName) {
		t.Errorf("Path() = %q", cfg.Path())
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configYAML := "logLevel: warn\nhydration:\n  fallback: abort\nmetrics:\n  namespace: app\n"
	if err := os.WriteFile(filepath.Join(tmpDir, YAMLFileName), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SlogLevel() != slog.LevelWarn {
		t.Errorf("SlogLevel() = %v, want warn", cfg.SlogLevel())
	}
	if cfg.Metrics.Namespace != "app" {
		t.Errorf("Metrics.Namespace = %q, want app", cfg.Metrics.Namespace)
	}
	if cfg.Remount() {
		t.Error("Remount() = true")
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
		code string
	}{
		{"bad json", JSONFileName, "{not json", "R402"},
		{"bad yaml", YAMLFileName, "hydration: [", "R402"},
		{"bad fallback", JSONFileName, `{"hydration":{"fallback":"retry"}}`, "R403"},
		{"bad level", YAMLFileName, "logLevel: loud\n", "R403"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, tt.file), []byte(tt.body), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(dir)
			if !errors.HasCode(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := New()
	cfg.Hydration.Fallback = FallbackRemount

	for _, name := range []string{"out.json", "out.yaml"} {
		path := filepath.Join(dir, name)
		if err := cfg.SaveTo(path); err != nil {
			t.Fatalf("SaveTo(%s): %v", name, err)
		}
		loaded, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile(%s): %v", name, err)
		}
		if !loaded.Remount() {
			t.Errorf("%s: Remount() = false after round trip", name)
		}
	}
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadOrDefault(nested)
	if err != nil {
		t.Fatalf("LoadOrDefault without file: %v", err)
	}
	if cfg.Path() != "" {
		t.Errorf("default config should have no path, got %q", cfg.Path())
	}

	if err := os.WriteFile(filepath.Join(root, YAMLFileName), []byte("debug: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	found, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("FindConfig: %v", err)
	}
	want, _ := filepath.Abs(root)
	if found != want {
		t.Errorf("FindConfig = %q, want %q", found, want)
	}

	cfg, err = LoadOrDefault(nested)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true from parent config")
	}
}
