package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// WebhookEnvVar supplies the Discord webhook URL. It always wins over the
// config file so the secret never has to live on disk.
const WebhookEnvVar = "DISCORD_WEBHOOK_URL"

// SiteConfig identifies the storefront collection being watched.
type SiteConfig struct {
	BaseURL       string `yaml:"base_url" validate:"required,url"`
	CollectionURL string `yaml:"collection_url" validate:"required,url"`
	UserAgent     string `yaml:"user_agent"`
}

// ScraperConfig holds general scraper settings.
type ScraperConfig struct {
	Headless          bool `yaml:"headless"`
	NavigateTimeoutMS int  `yaml:"navigate_timeout_ms" validate:"min=1000"`
	ScrollRounds      int  `yaml:"scroll_rounds" validate:"min=1"`
	ScrollPauseMS     int  `yaml:"scroll_pause_ms" validate:"min=0"`
	MaxPages          int  `yaml:"max_pages" validate:"min=1"`
	SettleMS          int  `yaml:"settle_ms" validate:"min=0"`
}

// SnapshotConfig locates the persisted inventory state.
type SnapshotConfig struct {
	Path string `yaml:"path" validate:"required"`
}

// NotifyConfig controls what gets pushed and where.
type NotifyConfig struct {
	// WebhookURL is filled from the environment, never from the file.
	WebhookURL            string `yaml:"-"`
	TimeoutMS             int    `yaml:"timeout_ms" validate:"min=1000"`
	IncludeUnorderableNew bool   `yaml:"include_unorderable_new"`
}

// LogConfig configures console level and optional rotated file output.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Config is the complete structure for the config.yml file.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Scraper  ScraperConfig  `yaml:"scraper"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Notify   NotifyConfig   `yaml:"notify"`
	Log      LogConfig      `yaml:"log"`
}

// Default returns the configuration used when the file leaves a field unset.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120 Safari/537.36",
		},
		Scraper: ScraperConfig{
			Headless:          true,
			NavigateTimeoutMS: 60000,
			ScrollRounds:      8,
			ScrollPauseMS:     800,
			MaxPages:          20,
			SettleMS:          500,
		},
		Snapshot: SnapshotConfig{Path: "snapshot.json"},
		Notify:   NotifyConfig{TimeoutMS: 30000},
		Log:      LogConfig{Level: "info", MaxSizeMB: 10, MaxBackups: 3},
	}
}

// LoadConfig reads and validates the config file, then applies the webhook
// secret from the environment. A missing webhook is a configuration error:
// the monitor would crawl and then have nowhere to report.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config YAML: %w", err)
	}

	cfg.Notify.WebhookURL = strings.TrimSpace(os.Getenv(WebhookEnvVar))
	if cfg.Notify.WebhookURL == "" {
		return nil, fmt.Errorf("%s is not set", WebhookEnvVar)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}
