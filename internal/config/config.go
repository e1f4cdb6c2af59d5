package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"gridalpha/internal/model"
)

// Config is the on-disk configuration shape (YAML). Every field has a
// working default so an empty config file (or none at all) yields a
// runnable service against PJM's public feeds.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	PJM      PJMConfig      `yaml:"pjm"`
	NOAA     NOAAConfig     `yaml:"noaa"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Env  string `yaml:"env"` // "development" | "production"
}

type PJMConfig struct {
	// APIKey overrides the public subscription key fetched from the
	// settings endpoint. Usually left empty.
	APIKey      string `yaml:"api_key"`
	BaseURL     string `yaml:"base_url"`
	SettingsURL string `yaml:"settings_url"`
	RowsPerPage int    `yaml:"rows_per_page"`
}

type NOAAConfig struct {
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`
}

// DefaultsConfig carries per-request parameter defaults.
type DefaultsConfig struct {
	Zone             string              `yaml:"zone"`
	WindowHours      int                 `yaml:"window_hours"`
	HeatRate         float64             `yaml:"heat_rate"`
	GasPrice         float64             `yaml:"gas_price"`
	QueueSuccessRate float64             `yaml:"queue_success_rate"`
	Battery          model.BatteryConfig `yaml:"battery"`
}

// Load reads, defaults, and validates a config file. An empty path
// loads pure defaults.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.applyDefaults()
	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads a config without defaulting or validation.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	var c Config
	if path == "" {
		return &c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.Defaults.Zone == "" {
		c.Defaults.Zone = "PJM-RTO"
	}
	if c.Defaults.WindowHours == 0 {
		c.Defaults.WindowHours = model.DefaultWindowHours
	}
	c.Defaults.Battery = model.MergeBatteryConfig(model.DefaultBatteryConfig(), c.Defaults.Battery)
}

// applyEnv overlays environment variables onto the file config.
// Environment wins so deployments can reconfigure without editing YAML.
func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("API_ENV"); v != "" {
		c.Server.Env = v
	}
	if v := os.Getenv("PJM_API_KEY"); v != "" {
		c.PJM.APIKey = v
	}
	if v := os.Getenv("PJM_ROWS_PER_PAGE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.PJM.RowsPerPage = n
		}
	}
	if v := os.Getenv("NOAA_USER_AGENT"); v != "" {
		c.NOAA.UserAgent = v
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server.port must be numeric, got %q", c.Server.Port)
	}
	if c.PJM.RowsPerPage < 0 {
		return errors.New("pjm.rows_per_page must be >= 0")
	}
	if c.Defaults.WindowHours < 1 || c.Defaults.WindowHours > 168 {
		return fmt.Errorf("defaults.window_hours must be in [1, 168], got %d", c.Defaults.WindowHours)
	}
	if err := c.Defaults.Battery.Validate(); err != nil {
		return fmt.Errorf("defaults.battery invalid: %w", err)
	}
	return nil
}

// Production reports whether the service runs in production mode.
func (c *Config) Production() bool {
	return c.Server.Env == "production"
}

// DemoMode reports whether demo mode is forced via environment. Demo
// mode serves the bundled snapshot instead of live PJM/NOAA feeds.
func DemoMode() bool {
	return os.Getenv("GRIDALPHA_DEMO") == "true"
}
