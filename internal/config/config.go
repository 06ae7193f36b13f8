// Package config provides configuration management for the travel monitoring application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"trip-monitor/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Monitor       MonitorConfig      `mapstructure:"monitor"`
	Currency      CurrencyConfig     `mapstructure:"currency"`
	Trip          TripConfig         `mapstructure:"trip"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Database      DatabaseConfig     `mapstructure:"database"`
}

// MonitorConfig holds background monitoring configuration.
type MonitorConfig struct {
	EnablePriceAlerts   bool `mapstructure:"enable_price_alerts"`
	PriceCheckInterval  int  `mapstructure:"price_check_interval"`  // seconds
	ErrorBackoff        int  `mapstructure:"error_backoff"`         // seconds
	FlightReminderHours int  `mapstructure:"flight_reminder_hours"` // lead time
	HotelReminderDays   int  `mapstructure:"hotel_reminder_days"`   // lead time
}

// PriceCheckIntervalDuration returns the alert polling interval.
func (m MonitorConfig) PriceCheckIntervalDuration() time.Duration {
	return time.Duration(m.PriceCheckInterval) * time.Second
}

// ErrorBackoffDuration returns the wait after a failed tick.
func (m MonitorConfig) ErrorBackoffDuration() time.Duration {
	return time.Duration(m.ErrorBackoff) * time.Second
}

// CurrencyConfig holds exchange rate configuration.
type CurrencyConfig struct {
	APIURL          string  `mapstructure:"api_url"`
	FallbackUSDToETB float64 `mapstructure:"fallback_usd_etb_rate"`
}

// TripConfig holds Trip.com API configuration.
type TripConfig struct {
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
	BaseURL   string `mapstructure:"base_url"`
}

// NotificationConfig holds notification configuration.
type NotificationConfig struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig holds Telegram bot configuration.
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
}

// DatabaseConfig holds data store configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/trip-monitor"
	}
	return filepath.Join(home, ".config", "trip-monitor")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrConfigInvalid, err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, target *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if werr := createTemplateConfig(configDir); werr != nil {
				return werr
			}
			return v.Unmarshal(target)
		}
		return err
	}

	return v.Unmarshal(target)
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("monitor.enable_price_alerts", true)
	v.SetDefault("monitor.price_check_interval", 3600)
	v.SetDefault("monitor.error_backoff", 60)
	v.SetDefault("monitor.flight_reminder_hours", 24)
	v.SetDefault("monitor.hotel_reminder_days", 1)
	v.SetDefault("currency.api_url", "https://api.exchangerate.host")
	v.SetDefault("currency.fallback_usd_etb_rate", 55.5)
	v.SetDefault("trip.base_url", "https://api.trip.com")
	v.SetDefault("notifications.telegram.enabled", false)
	v.SetDefault("database.path", filepath.Join(configDir, "trip-monitor.db"))
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRIP_COM_API_KEY"); v != "" {
		cfg.Trip.APIKey = v
	}
	if v := os.Getenv("TRIP_COM_API_SECRET"); v != "" {
		cfg.Trip.APISecret = v
	}
	if v := os.Getenv("TRIP_COM_BASE_URL"); v != "" {
		cfg.Trip.BaseURL = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Notifications.Telegram.BotToken = v
		cfg.Notifications.Telegram.Enabled = true
	}
	if v := os.Getenv("CURRENCY_API_URL"); v != "" {
		cfg.Currency.APIURL = v
	}
	if v := os.Getenv("USD_TO_ETB_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil && rate > 0 {
			cfg.Currency.FallbackUSDToETB = rate
		}
	}
	if v := os.Getenv("PRICE_CHECK_INTERVAL"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.Monitor.PriceCheckInterval = secs
		}
	}
	if v := os.Getenv("ENABLE_PRICE_ALERTS"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Monitor.EnablePriceAlerts = enabled
		}
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Monitor.PriceCheckInterval <= 0 {
		return errors.NewValidationError("monitor.price_check_interval", c.Monitor.PriceCheckInterval, "must be positive")
	}
	if c.Monitor.ErrorBackoff <= 0 {
		return errors.NewValidationError("monitor.error_backoff", c.Monitor.ErrorBackoff, "must be positive")
	}
	if c.Monitor.ErrorBackoff >= c.Monitor.PriceCheckInterval {
		return errors.NewValidationError("monitor.error_backoff", c.Monitor.ErrorBackoff,
			fmt.Sprintf("must be shorter than monitor.price_check_interval (%ds)", c.Monitor.PriceCheckInterval))
	}
	if c.Currency.FallbackUSDToETB <= 0 {
		return errors.NewValidationError("currency.fallback_usd_etb_rate", c.Currency.FallbackUSDToETB, "must be positive")
	}
	if c.Monitor.FlightReminderHours <= 1 {
		return errors.NewValidationError("monitor.flight_reminder_hours", c.Monitor.FlightReminderHours, "must be greater than 1")
	}
	if c.Monitor.HotelReminderDays <= 0 {
		return errors.NewValidationError("monitor.hotel_reminder_days", c.Monitor.HotelReminderDays, "must be positive")
	}
	return nil
}
