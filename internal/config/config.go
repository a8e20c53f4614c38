package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/reactor/internal/errors"
)

const (
	// JSONFileName is the JSON configuration file name.
	JSONFileName = "reactor.json"

	// YAMLFileName is the YAML configuration file name.
	YAMLFileName = "reactor.yaml"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "reactor"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"
)

// Hydration fallback policies.
const (
	FallbackAbort   = "abort"
	FallbackRemount = "remount"
)

// Config represents the complete reactor configuration.
type Config struct {
	// Debug enables verbose diagnostics.
	Debug bool `json:"debug,omitempty" yaml:"debug,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`

	// Hydration contains hydration configuration.
	Hydration HydrationConfig `json:"hydration,omitempty" yaml:"hydration,omitempty"`

	// Render contains server-side rendering configuration.
	Render RenderConfig `json:"render,omitempty" yaml:"render,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// HydrationConfig controls how hydration mismatches are handled.
type HydrationConfig struct {
	// Fallback is "abort" (log and skip the subtree) or "remount"
	// (log and mount the subtree fresh).
	Fallback string `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// RenderConfig controls string rendering.
type RenderConfig struct {
	// Pretty indents rendered HTML. Development only: pretty output
	// cannot be hydrated because of the added whitespace text.
	Pretty bool `json:"pretty,omitempty" yaml:"pretty,omitempty"`

	// Markers emits fragment marker comments. Defaults to true.
	Markers *bool `json:"markers,omitempty" yaml:"markers,omitempty"`
}

// MetricsConfig controls Prometheus instrumentation.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the specified directory, preferring
// reactor.json over reactor.yaml.
func Load(dir string) (*Config, error) {
	for _, name := range []string{JSONFileName, YAMLFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("R401").
		WithDetail("No " + JSONFileName + " or " + YAMLFileName + " found in " + dir)
}

// LoadFile reads configuration from the specified file path. The format is
// chosen by extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("R401").
				WithDetail("No config found at " + path)
		}
		return nil, errors.New("R402").Wrap(err)
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("R402").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveTo writes the configuration to path, as YAML or JSON by extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("R402").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("R402").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults sets default values for missing fields.
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Hydration.Fallback == "" {
		c.Hydration.Fallback = FallbackAbort
	}
	if c.Render.Markers == nil {
		markers := true
		c.Render.Markers = &markers
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Hydration.Fallback {
	case FallbackAbort, FallbackRemount:
	default:
		return errors.New("R403").
			WithDetailf("hydration.fallback must be %q or %q, got %q", FallbackAbort, FallbackRemount, c.Hydration.Fallback)
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		return errors.New("R403").
			WithDetailf("logLevel must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

// SlogLevel returns the configured log level. Debug forces slog.LevelDebug.
func (c *Config) SlogLevel() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	level, _ := parseLevel(c.LogLevel)
	return level
}

// Remount reports whether hydration mismatches remount the subtree.
func (c *Config) Remount() bool {
	return c.Hydration.Fallback == FallbackRemount
}

// Markers reports whether SSR emits fragment markers.
func (c *Config) Markers() bool {
	return c.Render.Markers == nil || *c.Render.Markers
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range []string{JSONFileName, YAMLFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindConfig walks up from startDir and returns the first directory
// containing a config file.
func FindConfig(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("R401").
				WithDetail("No config found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadOrDefault loads the config found from dir upward, or returns defaults
// when none exists. Parse errors are still returned.
func LoadOrDefault(dir string) (*Config, error) {
	root, err := FindConfig(dir)
	if err != nil {
		if errors.HasCode(err, "R401") {
			return New(), nil
		}
		return nil, err
	}
	return Load(root)
}
