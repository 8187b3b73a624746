package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

// Config holds every setting the clinicalops commands read from the
// environment or the .env file.
type Config struct {
	DataPath       string        `mapstructure:"DATA_PATH"`
	OutputDir      string        `mapstructure:"OUTPUT_DIR"`
	ImagesDir      string        `mapstructure:"IMAGES_DIR"`
	RecordCount    int           `mapstructure:"RECORD_COUNT"`
	Seed           int64         `mapstructure:"SEED"`
	DatabaseDriver string        `mapstructure:"DATABASE_DRIVER"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	DevtoAPIKey    string        `mapstructure:"DEVTO_API_KEY"`
	DevtoAPIURL    string        `mapstructure:"DEVTO_API_URL"`
	ArticlePath    string        `mapstructure:"ARTICLE_PATH"`
	MermaidURL     string        `mapstructure:"MERMAID_URL"`
	HTTPTimeout    time.Duration `mapstructure:"HTTP_TIMEOUT"`
	HTTPRetryMax   int           `mapstructure:"HTTP_RETRY_MAX"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	Port           string        `mapstructure:"PORT"`
}

var defaults = map[string]any{
	"DATA_PATH":       "clinical_trial_data.csv",
	"OUTPUT_DIR":      "output",
	"IMAGES_DIR":      "images",
	"RECORD_COUNT":    500,
	"SEED":            42,
	"DATABASE_DRIVER": "postgres",
	"DATABASE_URL":    "",
	"DEVTO_API_KEY":   "",
	"DEVTO_API_URL":   "https://dev.to/api",
	"ARTICLE_PATH":    "generated_article.md",
	"MERMAID_URL":     "https://mermaid.ink",
	"HTTP_TIMEOUT":    "60s",
	"HTTP_RETRY_MAX":  0,
	"LOG_LEVEL":       "info",
	"PORT":            "8080",
}

var supportedDrivers = []string{"postgres", "sqlite"}

// Load reads envFile into the process environment when it exists and then
// resolves the configuration from the environment. A missing .env file is not
// an error; the demo runs on defaults.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
		// Bind explicitly so Unmarshal picks them up
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.DatabaseDriver = strings.ToLower(cfg.DatabaseDriver)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no command can run with.
func (c *Config) Validate() error {
	if c.RecordCount <= 0 {
		return fmt.Errorf("RECORD_COUNT must be positive, got %d", c.RecordCount)
	}
	if c.HTTPRetryMax < 0 {
		return fmt.Errorf("HTTP_RETRY_MAX must not be negative, got %d", c.HTTPRetryMax)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	if c.DatabaseURL != "" && !slices.Contains(supportedDrivers, c.DatabaseDriver) {
		return fmt.Errorf("DATABASE_DRIVER must be one of %v, got %q", supportedDrivers, c.DatabaseDriver)
	}
	return nil
}

// HasDatabase reports whether the record store is configured.
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}
