// Package config provides configuration management for the token screener.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration. It is loaded once per process
// and passed by value through the pipeline; nothing mutates it after Load.
type Config struct {
	Filters       FilterConfig   `mapstructure:"filters"`
	CoinBlacklist []string       `mapstructure:"coin_blacklist"`
	DevBlacklist  []string       `mapstructure:"dev_blacklist"`
	Telegram      TelegramConfig `mapstructure:"telegram"`
	Webhook       WebhookConfig  `mapstructure:"webhook"`
	Email         EmailConfig    `mapstructure:"email"`
	Endpoints     EndpointConfig `mapstructure:"api_endpoints"`
	Monitor       MonitorConfig  `mapstructure:"monitor"`
	Database      DatabaseConfig `mapstructure:"database"`
	Logging       LoggingConfig  `mapstructure:"logging"`
}

// FilterConfig holds the classification thresholds.
type FilterConfig struct {
	RugThreshold   float64 `mapstructure:"rug_threshold"`
	PumpThreshold  float64 `mapstructure:"pump_threshold"`
	Tier1Liquidity float64 `mapstructure:"tier1_liquidity"`
}

// TelegramConfig holds Telegram notification credentials. Leaving either
// field empty disables the channel silently.
type TelegramConfig struct {
	BotToken string `mapstructure:"telegram_token"`
	ChatID   string `mapstructure:"telegram_chat_id"`
}

// WebhookConfig holds webhook notification configuration.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// EmailConfig holds email notification configuration.
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
}

// EndpointConfig holds external service URLs. An empty URL selects the
// adapter's fallback policy instead of a remote call.
type EndpointConfig struct {
	Dexscreener    string `mapstructure:"dexscreener"`
	PocketUniverse string `mapstructure:"pocket_universe"`
	Rugcheck       string `mapstructure:"rugcheck"`
}

// MonitorConfig holds polling loop and verification policy settings.
type MonitorConfig struct {
	// PollInterval is the fixed wall-clock pause between cycle completions.
	PollInterval time.Duration `mapstructure:"poll_interval"`
	// RequestTimeout bounds every outbound HTTP request.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// AssumeVolumeAuthentic switches the volume fallback policy to always
	// accept. Used when the upstream schema variant never carries a volume
	// field. This is an explicit operator choice, never inferred.
	AssumeVolumeAuthentic bool `mapstructure:"assume_volume_authentic"`
}

// DatabaseConfig holds persistence settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Console  bool   `mapstructure:"console"`
	File     bool   `mapstructure:"file"`
	FilePath string `mapstructure:"file_path"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/dexwatch"
	}
	return filepath.Join(home, ".config", "dexwatch")
}

// DefaultDatabasePath returns the default SQLite database location.
func DefaultDatabasePath() string {
	return filepath.Join(DefaultConfigDir(), "dexwatch.db")
}

// Load loads configuration from the specified directory. If configDir is
// empty, the default config directory is used. A missing config file is not
// an error: a commented template is written and the defaults are returned.
// Malformed values fall back to their defaults rather than failing the load.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := createTemplateConfig(configDir); err != nil {
				return nil, err
			}
		}
		// A malformed file also falls through to defaults: every option has
		// a documented default and config problems are never fatal.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		// Type coercion failed somewhere; reload pure defaults.
		cfg = &Config{}
		d := viper.New()
		setDefaults(d)
		if err := d.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("filters.rug_threshold", -80.0)
	v.SetDefault("filters.pump_threshold", 100.0)
	v.SetDefault("filters.tier1_liquidity", 1000000.0)
	v.SetDefault("coin_blacklist", []string{})
	v.SetDefault("dev_blacklist", []string{})
	v.SetDefault("api_endpoints.dexscreener", "https://api.dexscreener.com/token-profiles/latest/v1")
	v.SetDefault("api_endpoints.pocket_universe", "")
	v.SetDefault("api_endpoints.rugcheck", "")
	v.SetDefault("monitor.poll_interval", "60s")
	v.SetDefault("monitor.request_timeout", "10s")
	v.SetDefault("monitor.assume_volume_authentic", false)
	v.SetDefault("database.path", DefaultDatabasePath())
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", false)
	v.SetDefault("logging.file_path", filepath.Join(DefaultConfigDir(), "logs", "dexwatch.log"))
	v.SetDefault("email.smtp_port", 587)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DEXWATCH_TELEGRAM_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("DEXWATCH_TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DEXWATCH_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
}

// BlacklistedCoin reports whether the symbol is on the coin blacklist.
// Comparison is case-insensitive.
func (c *Config) BlacklistedCoin(symbol string) bool {
	for _, s := range c.CoinBlacklist {
		if strings.EqualFold(s, symbol) {
			return true
		}
	}
	return false
}

// BlacklistedDev reports whether the developer address is on the dev
// blacklist. Comparison is case-insensitive.
func (c *Config) BlacklistedDev(addr string) bool {
	if addr == "" {
		return false
	}
	for _, a := range c.DevBlacklist {
		if strings.EqualFold(a, addr) {
			return true
		}
	}
	return false
}
