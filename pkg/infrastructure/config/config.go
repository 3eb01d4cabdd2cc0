package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type ServiceConfig struct {
	Name     string `yaml:"name"`
	HTTPAddr string `yaml:"http_addr"`
}

type StorageConfig struct {
	// PostgresDSN empty means the in-memory store is used.
	PostgresDSN string `yaml:"postgres_dsn"`
}

type RulesConfig struct {
	RulesFile   string `yaml:"rules_file"`
	CatalogFile string `yaml:"catalog_file"`
}

type EmailConfig struct {
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	From           string `yaml:"from"`
	To             string `yaml:"to"`
}

type PushoverConfig struct {
	Token   string `yaml:"token"`
	UserKey string `yaml:"user_key"`
}

type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

type NotifyConfig struct {
	Email    EmailConfig    `yaml:"email"`
	Pushover PushoverConfig `yaml:"pushover"`
	NATS     NATSConfig     `yaml:"nats"`
}

type Config struct {
	ConfigVersion int           `yaml:"config_version"`
	Service       ServiceConfig `yaml:"service"`
	Storage       StorageConfig `yaml:"storage"`
	Rules         RulesConfig   `yaml:"rules"`
	Notify        NotifyConfig  `yaml:"notify"`
	ShutdownGrace time.Duration `yaml:"-"`
}

// Load reads and validates a service configuration file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Service.HTTPAddr == "" {
		return nil, fmt.Errorf("service.http_addr is required")
	}
	if cfg.Service.Name == "" {
		cfg.Service.Name = "fossaworkd"
	}
	if cfg.Notify.NATS.URL != "" && cfg.Notify.NATS.Subject == "" {
		cfg.Notify.NATS.Subject = "fossawork.filters"
	}

	cfg.ShutdownGrace = 10 * time.Second
	return &cfg, nil
}
