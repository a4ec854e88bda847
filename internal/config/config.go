// Package config loads beadview settings from a yaml file and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the workspace config file.
const FileName = ".beadview.yaml"

// Duration wraps time.Duration so yaml values like "30s" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config is the full beadview configuration. Zero values fall back to the
// defaults below.
type Config struct {
	Port         int      `yaml:"port"`
	Workspace    string   `yaml:"workspace"`
	DbPath       string   `yaml:"db"`
	BdBin        string   `yaml:"bd_bin"`
	PollInterval Duration `yaml:"poll_interval"`
	RankDir      string   `yaml:"rankdir"`
	AnimateReady bool     `yaml:"animate_ready_edges"`
	TypeByKind   bool     `yaml:"type_by_kind"` // node type from issue_type instead of the default tag
}

// Default returns the configuration used when no file or env overrides
// exist.
func Default() Config {
	return Config{
		Port:         7171,
		PollInterval: Duration(5 * time.Second),
		RankDir:      "TB",
	}
}

// Load reads workspace/.beadview.yaml when present and layers env
// overrides on top. A missing file is not an error.
func Load(workspace string) (Config, error) {
	cfg := Default()
	cfg.Workspace = workspace

	path := filepath.Join(workspace, FileName)
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnv()
	if cfg.Port <= 0 {
		cfg.Port = Default().Port
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = Default().PollInterval
	}
	return cfg, nil
}

// LoadEnvFiles loads .env.local then .env from the workspace, without
// overriding variables already set. Missing files are fine.
func LoadEnvFiles(workspace string) {
	for _, name := range []string{".env.local", ".env"} {
		path := filepath.Join(workspace, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		// godotenv.Load never overrides existing env vars.
		_ = godotenv.Load(path)
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("WORKSPACE_PATH"); v != "" {
		if info, err := os.Stat(v); err == nil && info.IsDir() {
			c.Workspace = v
		}
	}
	if v := os.Getenv("BEADS_DB_PATH"); v != "" {
		c.DbPath = v
	}
	if v := os.Getenv("BD_BIN"); v != "" {
		c.BdBin = v
	}
	if v := os.Getenv("PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil && port > 0 {
			c.Port = port
		}
	}
}
