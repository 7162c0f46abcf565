// Package config provides YAML-based configuration loading for Surveyor.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Surveyor configuration, loaded from config.yaml.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Gateway  GatewayConfig  `yaml:"gateway"`
	Chat     ChatConfig     `yaml:"chat"`
}

// DatabaseConfig holds connection settings for the MySQL inspection store.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// RedisConfig holds connection settings for the session store.
type RedisConfig struct {
	Addr          string `yaml:"addr"`
	Prefix        string `yaml:"prefix"`          // key namespace, e.g. "surveyor"
	SessionTTLSec int    `yaml:"session_ttl_sec"` // chat session expiry window
}

// GatewayConfig holds settings for the messaging webhook server.
type GatewayConfig struct {
	Port         int    `yaml:"port"`
	SendURL      string `yaml:"send_url"`      // provider endpoint for outbound replies
	WebhookToken string `yaml:"webhook_token"` // bearer token expected on inbound hooks
}

// ChatConfig holds conversational engine settings.
type ChatConfig struct {
	ReminderCron string `yaml:"reminder_cron"` // 5-field cron for daily job reminders
	MenuPageSize int    `yaml:"menu_page_size"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values. REDIS_ADDR overrides
// the configured Redis address so deployments can point at a managed
// instance without editing the file.
func (c *Config) applyDefaults() {
	if c.Database.Host == "" {
		c.Database.Host = "127.0.0.1"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.Database.User == "" {
		c.Database.User = "surveyor"
	}
	if c.Database.Database == "" {
		c.Database.Database = "surveyor"
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c.Redis.Addr = addr
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "surveyor"
	}
	if c.Redis.SessionTTLSec == 0 {
		c.Redis.SessionTTLSec = 6 * 60 * 60
	}
	if c.Gateway.Port == 0 {
		c.Gateway.Port = 8080
	}
	if c.Chat.MenuPageSize == 0 {
		c.Chat.MenuPageSize = 9
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Redis.SessionTTLSec < 0 {
		errs = append(errs, "redis.session_ttl_sec must not be negative")
	}
	if c.Gateway.Port < 0 || c.Gateway.Port > 65535 {
		errs = append(errs, "gateway.port out of range")
	}
	if c.Chat.MenuPageSize < 1 {
		errs = append(errs, "chat.menu_page_size must be at least 1")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
