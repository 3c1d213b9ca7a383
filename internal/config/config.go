package config

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

type Config struct {
	Global   GlobalConfig   `yaml:"global"`
	Insights InsightsConfig `yaml:"insights"`
}

type GlobalConfig struct {
	Concurrency   int    `yaml:"concurrency"`
	APIKey        string `yaml:"api_key,omitempty"`
	Strategy      string `yaml:"strategy,omitempty"`      // mobile (default) or desktop
	OutputFormat  string `yaml:"output_format,omitempty"` // text (default), json, markdown
	CacheTTLHours int    `yaml:"cache_ttl_hours,omitempty"`
}

// InsightsConfig toggles individual analysis sections. Everything is on by
// default; turning a section off drops it from the diagnostics table and the
// opportunity list.
type InsightsConfig struct {
	UnusedCode     SectionConfig `yaml:"unused_code"`
	Images         SectionConfig `yaml:"images"`
	ThirdParties   SectionConfig `yaml:"third_parties"`
	Caching        SectionConfig `yaml:"caching"`
	RenderBlocking SectionConfig `yaml:"render_blocking"`
	LongTasks      SectionConfig `yaml:"long_tasks"`
	LCP            SectionConfig `yaml:"lcp"`
}

type SectionConfig struct {
	Enabled bool `yaml:"enabled"`
}

func GetConfigPath() (string, error) {
	// Respect XDG_CONFIG_HOME if set (useful for testing and Linux users)
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig + "/pagepulse/config.yaml", nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return configDir + "/pagepulse/config.yaml", nil
}

// Validate rejects values a loaded config may carry that no command can act
// on. Zero values are fine; Load fills the defaults before unmarshaling.
func (c *Config) Validate() error {
	if c.Global.Concurrency < 0 {
		return fmt.Errorf("global.concurrency must not be negative, got %d", c.Global.Concurrency)
	}
	if c.Global.CacheTTLHours < 0 {
		return fmt.Errorf("global.cache_ttl_hours must not be negative, got %d", c.Global.CacheTTLHours)
	}
	switch c.Global.Strategy {
	case "", "mobile", "desktop":
	default:
		return fmt.Errorf("global.strategy must be 'mobile' or 'desktop', got %q", c.Global.Strategy)
	}
	switch c.Global.OutputFormat {
	case "", "text", "json", "markdown":
	default:
		return fmt.Errorf("global.output_format must be 'text', 'json' or 'markdown', got %q", c.Global.OutputFormat)
	}
	return nil
}
func Load() (*Config, error) {
	cfg := &Config{
		Global: GlobalConfig{
			Concurrency:   3,
			Strategy:      "mobile",
			OutputFormat:  "text",
			CacheTTLHours: 1,
		},
		Insights: InsightsConfig{
			UnusedCode:     SectionConfig{Enabled: true},
			Images:         SectionConfig{Enabled: true},
			ThirdParties:   SectionConfig{Enabled: true},
			Caching:        SectionConfig{Enabled: true},
			RenderBlocking: SectionConfig{Enabled: true},
			LongTasks:      SectionConfig{Enabled: true},
			LCP:            SectionConfig{Enabled: true},
		},
	}

	// Priorities: ./config.yaml, $XDG_CONFIG_HOME/pagepulse/config.yaml,
	// $HOME/.pagepulse.yaml
	configDirs := []string{"config.yaml"} // Local override

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		configDirs = append(configDirs, userConfigDir+"/pagepulse/config.yaml")
	}

	// Legacy fallback
	if home := os.Getenv("HOME"); home != "" {
		configDirs = append(configDirs, home+"/.pagepulse.yaml")
	}

	for _, p := range configDirs {
		if _, err := os.Stat(p); err == nil {
			data, err := os.ReadFile(p)
			if err != nil {
				return nil, err
			}
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("error parsing %s: %w", p, err)
			}
			return cfg, nil
		}
	}

	return cfg, nil
}

// Save writes the configuration to the user's config file
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("error getting config path: %w", err)
	}

	// Ensure the directory exists
	configDir := configPath[:len(configPath)-len("/config.yaml")]
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
