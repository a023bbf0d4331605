package scout

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/seatwatch/mcda"
	"github.com/hazyhaar/seatwatch/scan"
)

// Config is the top-level service configuration.
type Config struct {
	// HTTPAddr is the listen address of the JSON API.
	HTTPAddr string `yaml:"http_addr"`
	// Profile selects which preference profile loads at startup.
	Profile string `yaml:"profile"`
	// PrefsPath is the SQLite preference database. Empty disables
	// persistence; weights then live only for the process lifetime.
	PrefsPath string `yaml:"prefs_path"`

	Browser scan.BrowserConfig `yaml:"browser"`
	Scan    scan.Config        `yaml:"scan"`

	// Weights overrides the startup scoring weights. Persisted
	// preferences, when present, take precedence over this.
	Weights *mcda.Weights `yaml:"weights"`
}

func (c *Config) applyDefaults() {
	if c.HTTPAddr == "" {
		c.HTTPAddr = "127.0.0.1:8474"
	}
	if c.Profile == "" {
		c.Profile = "default"
	}
}

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("scout: read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("scout: parse config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}
