package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Config is the persistent application configuration
type Config struct {
	// Service holds the remote assistant endpoint settings
	Service ServiceConfig `json:"service"`

	// Suggest tunes the as-you-type suggestion surfaces
	Suggest SuggestConfig `json:"suggest"`

	// UI Preferences
	UI UIConfig `json:"ui"`
}

// ServiceConfig holds the remote endpoint settings
type ServiceConfig struct {
	BaseURL          string `json:"base_url"`
	RequestTimeoutMs int    `json:"request_timeout_ms"`
}

// SuggestConfig tunes the suggestion engine per surface
type SuggestConfig struct {
	DelayMs      int `json:"delay_ms"`       // page search box debounce
	QuickDelayMs int `json:"quick_delay_ms"` // header quick-search debounce
	MinChars     int `json:"min_chars"`      // shortest query that suggests
	BlurGraceMs  int `json:"blur_grace_ms"`  // grace before blur dismisses
}

// UIConfig holds UI preferences
type UIConfig struct {
	Theme        string `json:"theme"`
	SeriesPoints int    `json:"series_points"` // trailing points shown inline
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			BaseURL:          "http://localhost:8000/route",
			RequestTimeoutMs: 30000,
		},
		Suggest: SuggestConfig{
			DelayMs:      220,
			QuickDelayMs: 250,
			MinChars:     2,
			BlurGraceMs:  150,
		},
		UI: UIConfig{
			Theme:        "dark",
			SeriesPoints: 3,
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".healthdesk", "config.json")
}

// Load reads config from disk, or returns defaults
func Load() (*Config, error) {
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.AutoPopulateFromEnv()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), nil
	}

	cfg.fillZeroes()
	cfg.AutoPopulateFromEnv()
	return &cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// AutoPopulateFromEnv fills in settings from environment variables
func (c *Config) AutoPopulateFromEnv() {
	if url := os.Getenv("HEALTHDESK_URL"); url != "" {
		c.Service.BaseURL = url
	}
}

// RequestTimeout returns the service timeout as a duration
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Service.RequestTimeoutMs) * time.Millisecond
}

// SuggestDelay returns the page search debounce as a duration
func (c *Config) SuggestDelay() time.Duration {
	return time.Duration(c.Suggest.DelayMs) * time.Millisecond
}

// QuickDelay returns the quick-search debounce as a duration
func (c *Config) QuickDelay() time.Duration {
	return time.Duration(c.Suggest.QuickDelayMs) * time.Millisecond
}

// BlurGrace returns the blur grace period as a duration
func (c *Config) BlurGrace() time.Duration {
	return time.Duration(c.Suggest.BlurGraceMs) * time.Millisecond
}

// fillZeroes restores defaults for fields a hand-edited file left out
func (c *Config) fillZeroes() {
	def := DefaultConfig()
	if c.Service.BaseURL == "" {
		c.Service.BaseURL = def.Service.BaseURL
	}
	if c.Service.RequestTimeoutMs <= 0 {
		c.Service.RequestTimeoutMs = def.Service.RequestTimeoutMs
	}
	if c.Suggest.DelayMs <= 0 {
		c.Suggest.DelayMs = def.Suggest.DelayMs
	}
	if c.Suggest.QuickDelayMs <= 0 {
		c.Suggest.QuickDelayMs = def.Suggest.QuickDelayMs
	}
	if c.Suggest.MinChars <= 0 {
		c.Suggest.MinChars = def.Suggest.MinChars
	}
	if c.Suggest.BlurGraceMs <= 0 {
		c.Suggest.BlurGraceMs = def.Suggest.BlurGraceMs
	}
	if c.UI.SeriesPoints <= 0 {
		c.UI.SeriesPoints = def.UI.SeriesPoints
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
}
