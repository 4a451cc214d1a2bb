// Package config provides configuration management for the volatility
// tracker.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Asset   string        `mapstructure:"asset"`
	Server  ServerConfig  `mapstructure:"server"`
	Refresh RefreshConfig `mapstructure:"refresh"`
	Options SourceConfig  `mapstructure:"options_source"`
	Price   SourceConfig  `mapstructure:"price_source"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RefreshConfig controls the periodic snapshot refresh loop.
type RefreshConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

// SourceConfig holds upstream data source configuration.
type SourceConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	QuoteCurrency  string        `mapstructure:"quote_currency"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RequestsPerSec float64       `mapstructure:"requests_per_sec"`
	Burst          int           `mapstructure:"burst"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/volwatch"
	}
	return filepath.Join(home, ".config", "volwatch")
}

// Load loads configuration from the specified directory. If configDir is
// empty, the default config directory is used. A template config file is
// created on first run.
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
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		if err := createTemplateConfig(configDir); err != nil {
			return nil, fmt.Errorf("creating config template: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("asset", "BTC")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("refresh.interval", 15*time.Minute)
	v.SetDefault("refresh.max_attempts", 3)

	v.SetDefault("options_source.base_url", "https://www.deribit.com/api/v2")
	v.SetDefault("options_source.request_timeout", 5*time.Second)
	v.SetDefault("options_source.requests_per_sec", 10.0)
	v.SetDefault("options_source.burst", 5)

	v.SetDefault("price_source.base_url", "https://api.binance.com")
	v.SetDefault("price_source.quote_currency", "USDT")
	v.SetDefault("price_source.request_timeout", 5*time.Second)
	v.SetDefault("price_source.requests_per_sec", 5.0)
	v.SetDefault("price_source.burst", 2)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.file_path", filepath.Join(DefaultConfigDir(), "logs", "volwatch.log"))
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 7)
	v.SetDefault("logging.max_age", 30)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VOLWATCH_ASSET"); v != "" {
		cfg.Asset = v
	}
	if v := os.Getenv("VOLWATCH_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("VOLWATCH_OPTIONS_URL"); v != "" {
		cfg.Options.BaseURL = v
	}
	if v := os.Getenv("VOLWATCH_PRICE_URL"); v != "" {
		cfg.Price.BaseURL = v
	}
	if v := os.Getenv("VOLWATCH_REFRESH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Refresh.Interval = d
		}
	}
	if v := os.Getenv("VOLWATCH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("VOLWATCH_LOG_FILE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Logging.File = b
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Asset == "" {
		return fmt.Errorf("asset must not be empty")
	}
	if c.Refresh.Interval < time.Minute {
		return fmt.Errorf("refresh interval must be at least 1m, got %s", c.Refresh.Interval)
	}
	if c.Refresh.MaxAttempts < 1 {
		return fmt.Errorf("refresh max_attempts must be at least 1")
	}
	if c.Options.RequestTimeout <= 0 || c.Price.RequestTimeout <= 0 {
		return fmt.Errorf("request timeouts must be positive")
	}
	if c.Options.RequestsPerSec <= 0 || c.Price.RequestsPerSec <= 0 {
		return fmt.Errorf("requests_per_sec must be positive")
	}
	return nil
}
