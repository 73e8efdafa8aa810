// Package config loads host application configuration
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config represents the main application configuration
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Logging LoggingConfig `toml:"logging"`
	Plugins PluginsConfig `toml:"plugins"`
}

// ServerConfig contains the status API configuration
type ServerConfig struct {
	Bind string `toml:"bind"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// PluginsConfig contains plugin system configuration
type PluginsConfig struct {
	Enabled  bool                      `toml:"enabled"`
	Disabled []string                  `toml:"disabled"`
	Config   map[string]map[string]any `toml:"config"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Bind: ":8080",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Plugins: PluginsConfig{
			Enabled: true,
			Config:  make(map[string]map[string]any),
		},
	}
}

// LoadConfig loads configuration from a TOML file. A missing file yields
// the defaults.
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()

	if filename == "" {
		return config, nil
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return config, nil
	}

	if _, err := toml.DecodeFile(filename, config); err != nil {
		return nil, err
	}

	if config.Plugins.Config == nil {
		config.Plugins.Config = make(map[string]map[string]any)
	}

	return config, nil
}

// PluginDisabled reports whether a plugin ID has been switched off.
func (c *Config) PluginDisabled(id string) bool {
	for _, name := range c.Plugins.Disabled {
		if name == id {
			return true
		}
	}
	return false
}
