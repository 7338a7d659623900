package app

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/raysh454/skim/internal/passes"
	"github.com/raysh454/skim/internal/scraper"
	"github.com/raysh454/skim/internal/webclient"
)

// Config contains the runtime configuration shared by the CLI and the API
// server. Every endpoint and selector the pipelines touch is configurable
// here, defaulting to the documented literal values.
type Config struct {
	// ListenAddr is the HTTP listen address for the API server (the CLI
	// runs the pipelines in-process and does not require the network).
	ListenAddr string `yaml:"listen_addr"`

	// StoragePath is where the run history database is kept.
	StoragePath string `yaml:"storage_path"`

	// WebClient configuration
	WebClient webclient.Config `yaml:"webclient"`

	// Passes pipeline configuration
	Passes passes.Config `yaml:"passes"`

	// Scraper pipeline configuration
	Scraper scraper.Config `yaml:"scraper"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:  ":8080",
		StoragePath: "~/.config/skim/runs.db",
		WebClient:   webclient.DefaultConfig(),
		Passes:      passes.DefaultConfig(),
		Scraper:     scraper.DefaultConfig(),
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing file is
// not an error; the defaults are returned unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ExpandStoragePath resolves a leading ~ in StoragePath and makes sure the
// parent directory exists.
func (c *Config) ExpandStoragePath() (string, error) {
	p := c.StoragePath
	if len(p) > 0 && p[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(home, p[1:])
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("create storage directory: %w", err)
	}
	return p, nil
}
