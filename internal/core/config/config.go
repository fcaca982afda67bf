package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config represents the top-level application config.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Cache     CacheConfig     `koanf:"cache"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Dashboard DashboardConfig `koanf:"dashboard"`
	Payments  PaymentsConfig  `koanf:"payments"`
	Media     MediaConfig     `koanf:"media"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeMB int    `koanf:"max_body_size_mb"`
	Mode          string `koanf:"mode"` // debug | release
}

type DatabaseConfig struct {
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

type CacheConfig struct {
	Addr       string `koanf:"addr"`
	Password   string `koanf:"password"`
	DB         int    `koanf:"db"`
	DefaultTTL string `koanf:"default_ttl"` // analytics views and entity lookups
	ListingTTL string `koanf:"listing_ttl"` // parameterized product listings
}

type CatalogConfig struct {
	PageSize  int `koanf:"page_size"`
	MaxPhotos int `koanf:"max_photos"`
}

type DashboardConfig struct {
	WarmEnabled  bool   `koanf:"warm_enabled"`
	WarmInterval string `koanf:"warm_interval"`
}

type PaymentsConfig struct {
	StripeKey string `koanf:"stripe_key"`
	Currency  string `koanf:"currency"`
}

type MediaConfig struct {
	Bucket    string `koanf:"bucket"`
	Region    string `koanf:"region"`
	URLPrefix string `koanf:"url_prefix"`
}

func (c CacheConfig) EffectiveDefaultTTL() (time.Duration, error) {
	return time.ParseDuration(c.DefaultTTL)
}

func (c CacheConfig) EffectiveListingTTL() (time.Duration, error) {
	return time.ParseDuration(c.ListingTTL)
}

func (c DashboardConfig) EffectiveWarmInterval() (time.Duration, error) {
	return time.ParseDuration(c.WarmInterval)
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be > 0")
	}
	if c.Database.MaxIdleConns <= 0 {
		return fmt.Errorf("database.max_idle_conns must be > 0")
	}

	if strings.TrimSpace(c.Cache.Addr) == "" {
		return fmt.Errorf("cache.addr is required")
	}
	ttl, err := c.Cache.EffectiveDefaultTTL()
	if err != nil {
		return fmt.Errorf("invalid cache.default_ttl %q: %w", c.Cache.DefaultTTL, err)
	}
	if ttl <= 0 {
		return fmt.Errorf("cache.default_ttl must be > 0")
	}
	listingTTL, err := c.Cache.EffectiveListingTTL()
	if err != nil {
		return fmt.Errorf("invalid cache.listing_ttl %q: %w", c.Cache.ListingTTL, err)
	}
	if listingTTL <= 0 {
		return fmt.Errorf("cache.listing_ttl must be > 0")
	}
	if listingTTL > ttl {
		return fmt.Errorf("cache.listing_ttl must not exceed cache.default_ttl")
	}

	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("catalog.page_size must be > 0")
	}
	if c.Catalog.MaxPhotos <= 0 {
		return fmt.Errorf("catalog.max_photos must be > 0")
	}

	if c.Dashboard.WarmEnabled {
		interval, err := c.Dashboard.EffectiveWarmInterval()
		if err != nil {
			return fmt.Errorf("invalid dashboard.warm_interval %q: %w", c.Dashboard.WarmInterval, err)
		}
		if interval <= 0 {
			return fmt.Errorf("dashboard.warm_interval must be > 0")
		}
	}

	if strings.TrimSpace(c.Payments.Currency) == "" {
		return fmt.Errorf("payments.currency is required")
	}

	return nil
}

// Load parses config from file + env and validates it.
// Env vars use the SHOP_ prefix with __ as the section separator,
// e.g. SHOP_CACHE__ADDR=localhost:6379.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":             8080,
		"server.host":             "0.0.0.0",
		"server.max_body_size_mb": 1,
		"server.mode":             "release",
		"database.dsn":            "postgres://localhost:5432/shopcore?sslmode=disable",
		"database.max_open_conns": 25,
		"database.max_idle_conns": 25,
		"database.auto_migrate":   true,
		"cache.addr":              "localhost:6379",
		"cache.password":          "",
		"cache.db":                0,
		"cache.default_ttl":       "4h",
		"cache.listing_ttl":       "30s",
		"catalog.page_size":       8,
		"catalog.max_photos":      5,
		"dashboard.warm_enabled":  false,
		"dashboard.warm_interval": "1h",
		"payments.stripe_key":     "",
		"payments.currency":       "usd",
		"media.bucket":            "",
		"media.region":            "us-east-1",
		"media.url_prefix":        "",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("SHOP_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "SHOP_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
