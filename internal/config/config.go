package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvConfig names a config file to use when --config is not given.
const EnvConfig = "TASKS_CONFIG"

// Config holds the user settings for the tasks CLI.
type Config struct {
	DataFile string `toml:"data_file" yaml:"data_file"`
	Theme    string `toml:"theme" yaml:"theme"`
	LogLevel string `toml:"log_level" yaml:"log_level"`
	Group    bool   `toml:"group" yaml:"group"`
	NoColor  bool   `toml:"no_color" yaml:"no_color"`
}

// Default returns the built-in settings. DataFile stays empty so the
// store falls back to tasks.json in the working directory.
func Default() Config {
	return Config{
		Theme:    "classic",
		LogLevel: "warn",
	}
}

// Load reads path, or the first default location that exists when path is
// empty. An explicit path that does not exist is an error; no file at all
// yields Default().
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = discover()
	}
	if path == "" {
		return Default(), nil
	}
	path = os.ExpandEnv(path)

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(b, formatOf(path))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes content in the given format ("toml" or "yaml"), applies
// defaults to empty fields and validates the result.
func Parse(content []byte, format string) (Config, error) {
	var cfg Config
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return Config{}, fmt.Errorf("yaml parse error: %w", err)
		}
	case "toml":
		if _, err := toml.Decode(string(content), &cfg); err != nil {
			return Config{}, fmt.Errorf("toml parse error: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format: %q", format)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown themes and log levels.
func (c Config) Validate() error {
	switch strings.ToLower(c.Theme) {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("unknown theme %q (want classic, neon or mono)", c.Theme)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Theme == "" {
		c.Theme = d.Theme
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.DataFile != "" {
		c.DataFile = os.ExpandEnv(c.DataFile)
	}
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "toml"
	}
}

func discover() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfig)); p != "" {
		return p
	}
	candidates := []string{"tasks.toml", "tasks.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "tasks", "config.toml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
