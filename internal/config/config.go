// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // trace|debug|info|warn|error
	Format string `yaml:"format"` // json|console
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
}

type AuthConfig struct {
	// BotSecret authenticates the service caller (the bot issuing codes
	// and administering payments); AppSecret authenticates the installed
	// client application.
	BotSecret         string `yaml:"bot_secret"`
	AppSecret         string `yaml:"app_secret"`
	CodeTTLSeconds    int    `yaml:"code_ttl_seconds"`
	SessionTTLSeconds int    `yaml:"session_ttl_seconds"`
}

type SubscriptionConfig struct {
	MonthSeconds int `yaml:"month_seconds"`
}

type ReminderConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Interval      time.Duration `yaml:"interval"`
	ThresholdDays []int         `yaml:"threshold_days"`
}

type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Log          LogConfig          `yaml:"log"`
	Database     DatabaseConfig     `yaml:"database"`
	Auth         AuthConfig         `yaml:"auth"`
	Subscription SubscriptionConfig `yaml:"subscription"`
	Reminder     ReminderConfig     `yaml:"reminder"`

	Runtime RuntimeConfig `yaml:"-"`
}

func (c *Config) CodeTTL() time.Duration {
	return time.Duration(c.Auth.CodeTTLSeconds) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Auth.SessionTTLSeconds) * time.Second
}

func (c *Config) MonthLength() time.Duration {
	return time.Duration(c.Subscription.MonthSeconds) * time.Second
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Auth.CodeTTLSeconds <= 0 {
		cfg.Auth.CodeTTLSeconds = 600
	}
	if cfg.Auth.SessionTTLSeconds <= 0 {
		cfg.Auth.SessionTTLSeconds = 600
	}
	if cfg.Subscription.MonthSeconds <= 0 {
		cfg.Subscription.MonthSeconds = 30 * 24 * 60 * 60
	}
	if cfg.Reminder.Interval <= 0 {
		cfg.Reminder.Interval = time.Hour
	}
	if len(cfg.Reminder.ThresholdDays) == 0 {
		cfg.Reminder.ThresholdDays = []int{3, 1}
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Auth.BotSecret == "" {
		return nil, errors.New("auth.bot_secret is required")
	}
	if cfg.Auth.AppSecret == "" {
		return nil, errors.New("auth.app_secret is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
