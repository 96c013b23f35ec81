// Package config loads the YAML options file shared by the command-line
// tools, with environment-variable overrides for the common fields.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config mirrors datasets.Options for file-based configuration.
type Config struct {
	Root          string `yaml:"root"`
	Split         string `yaml:"split"`
	Download      bool   `yaml:"download"`
	Window        int    `yaml:"window"`
	LastLabelOnly bool   `yaml:"lastLabelOnly"`
	Subjects      []int  `yaml:"subjects"`
	Series        []int  `yaml:"series"`
	BatchSize     int    `yaml:"batchSize"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Root:      "./data",
		Split:     "train",
		Download:  true,
		BatchSize: 32,
	}
}

// Load reads path, fills unset fields with defaults, and applies
// environment overrides (GLIFT_ROOT, GLIFT_SPLIT, GLIFT_WINDOW).
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GLIFT_ROOT"); v != "" {
		cfg.Root = v
	}
	if v := os.Getenv("GLIFT_SPLIT"); v != "" {
		cfg.Split = v
	}
	if v := os.Getenv("GLIFT_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Window = n
		}
	}
}

// Validate rejects combinations the dataset would refuse anyway, so the
// CLIs can fail before touching the filesystem.
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("config: root must be set")
	}
	if c.Split != "train" && c.Split != "test" {
		return fmt.Errorf("config: split must be train or test, got %q", c.Split)
	}
	if c.Window < 0 {
		return fmt.Errorf("config: window must be >= 0, got %d", c.Window)
	}
	if c.LastLabelOnly && c.Window == 0 {
		return fmt.Errorf("config: lastLabelOnly requires window")
	}
	return nil
}
