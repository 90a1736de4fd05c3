package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	ConfigPathEnvVar = "CONFIG_PATH"
	defaultJWTSecret = "your-secret-key-change-this-in-production"
)

var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/animehub/config.yaml",
}

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Jikan    JikanConfig    `koanf:"jikan"`
	Avatars  AvatarConfig   `koanf:"avatars"`
	Billing  BillingConfig  `koanf:"billing"`
	Logging  LoggingConfig  `koanf:"logging"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            string        `koanf:"port"`
	FrontendURL     string        `koanf:"frontend_url"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Path string `koanf:"path"`
}

type AuthConfig struct {
	JWTSecret string `koanf:"jwt_secret"`
}

type JikanConfig struct {
	BaseURL           string        `koanf:"base_url"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestInterval   time.Duration `koanf:"request_interval"`
	SearchCacheTTL    time.Duration `koanf:"search_cache_ttl"`
	RecommendCacheTTL time.Duration `koanf:"recommend_cache_ttl"`
}

type AvatarConfig struct {
	Dir           string `koanf:"dir"`
	PublicBaseURL string `koanf:"public_base_url"`
}

type BillingConfig struct {
	CheckoutURL   string        `koanf:"checkout_url"`
	PortalURL     string        `koanf:"portal_url"`
	WebhookSecret string        `koanf:"webhook_secret"`
	PremiumTier   string        `koanf:"premium_tier"`
	PeriodLength  time.Duration `koanf:"period_length"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			FrontendURL:     "http://localhost:3000",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path: "./data/animehub.db",
		},
		Auth: AuthConfig{
			JWTSecret: defaultJWTSecret,
		},
		Jikan: JikanConfig{
			BaseURL:           "https://api.jikan.moe/v4",
			Timeout:           10 * time.Second,
			RequestInterval:   300 * time.Millisecond,
			SearchCacheTTL:    5 * time.Minute,
			RecommendCacheTTL: 30 * time.Minute,
		},
		Avatars: AvatarConfig{
			Dir:           "./data/avatar-icons",
			PublicBaseURL: "/static/avatars",
		},
		Billing: BillingConfig{
			CheckoutURL:  "http://localhost:3000/checkout",
			PortalURL:    "http://localhost:3000/billing",
			PremiumTier:  "premium",
			PeriodLength: 30 * 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load layers defaults, an optional YAML file and the environment, in that order.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if c.Jikan.BaseURL == "" {
		return errors.New("jikan.base_url is required")
	}
	if c.Jikan.RequestInterval < 0 {
		return errors.New("jikan.request_interval must not be negative")
	}
	return nil
}

// UsingDefaultSecret reports whether the JWT secret was never overridden.
func (c *Config) UsingDefaultSecret() bool {
	return c.Auth.JWTSecret == defaultJWTSecret
}

func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var envMappings = map[string]string{
	"api_host":                  "server.host",
	"api_port":                  "server.port",
	"frontend_url":              "server.frontend_url",
	"shutdown_timeout":          "server.shutdown_timeout",
	"db_path":                   "database.path",
	"jwt_secret":                "auth.jwt_secret",
	"jikan_base_url":            "jikan.base_url",
	"jikan_timeout":             "jikan.timeout",
	"jikan_request_interval":    "jikan.request_interval",
	"jikan_search_cache_ttl":    "jikan.search_cache_ttl",
	"jikan_recommend_cache_ttl": "jikan.recommend_cache_ttl",
	"avatar_dir":                "avatars.dir",
	"avatar_public_base_url":    "avatars.public_base_url",
	"billing_checkout_url":      "billing.checkout_url",
	"billing_portal_url":        "billing.portal_url",
	"billing_webhook_secret":    "billing.webhook_secret",
	"billing_premium_tier":      "billing.premium_tier",
	"billing_period_length":     "billing.period_length",
	"log_level":                 "logging.level",
	"log_format":                "logging.format",
}

// envTransformFunc maps API_PORT style variables onto config paths.
// Unknown variables map to "" and are skipped.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
