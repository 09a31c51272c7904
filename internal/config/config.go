package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// CatalogConfig selects where the read-only event catalog comes from.
type CatalogConfig struct {
	// Source is "file" or "firestore".
	Source string `yaml:"source" validate:"oneof=file firestore"`
	// Path is the YAML/JSON catalog file, used when Source is "file".
	Path string `yaml:"path" validate:"required_if=Source file"`

	ProjectID  string `yaml:"project_id" validate:"required_if=Source firestore"`
	DatabaseID string `yaml:"database_id"`
	Collection string `yaml:"collection"`
}

// CacheConfig configures the shared filtered-result cache. An empty RedisURL
// disables it.
type CacheConfig struct {
	RedisURL string        `yaml:"redis_url"`
	TTL      time.Duration `yaml:"ttl" validate:"gte=0"`
	MemoSize int           `yaml:"memo_size" validate:"gte=0"`
}

// Config is the top-level application configuration.
type Config struct {
	Port        string `yaml:"port" validate:"required,numeric"`
	Environment string `yaml:"environment" validate:"oneof=development production test"`
	CORSOrigin  string `yaml:"cors_allowed_origin"`

	// Timezone is the IANA zone calendar days are computed in.
	Timezone string `yaml:"timezone" validate:"required"`
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info error DEBUG INFO ERROR"`

	// RefreshCron reloads the catalog snapshot; empty disables scheduled reloads.
	RefreshCron string `yaml:"refresh_cron"`

	Catalog CatalogConfig `yaml:"catalog"`
	Cache   CacheConfig   `yaml:"cache"`
}

var validate = validator.New()

// Default returns an in-memory default configuration.
func Default() *Config {
	return &Config{
		Port:        "5000",
		Environment: "development",
		Timezone:    "Europe/Amsterdam",
		LogLevel:    "info",
		RefreshCron: "*/20 * * * *",
		Catalog: CatalogConfig{
			Source:     "file",
			Path:       "data/events.yaml",
			ProjectID:  "local-project-id",
			DatabaseID: "(default)",
			Collection: "events",
		},
		Cache: CacheConfig{
			TTL:      10 * time.Minute,
			MemoSize: 256,
		},
	}
}

// Load reads path (if it exists) over the defaults, applies environment
// overrides and validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv(os.Getenv)
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Port, "PORT")
	set(&c.Environment, "APP_ENV")
	set(&c.CORSOrigin, "CORS_ALLOWED_ORIGIN")
	set(&c.Timezone, "TIMEZONE")
	set(&c.LogLevel, "LOG_LEVEL")
	set(&c.RefreshCron, "REFRESH_CRON")
	set(&c.Catalog.Source, "CATALOG_SOURCE")
	set(&c.Catalog.Path, "CATALOG_PATH")
	set(&c.Catalog.ProjectID, "GOOGLE_CLOUD_PROJECT")
	set(&c.Catalog.DatabaseID, "FIRESTORE_DATABASE_ID")
	set(&c.Catalog.Collection, "FIRESTORE_COLLECTION")
	set(&c.Cache.RedisURL, "REDIS_URL")

	if v := getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Cache.TTL = d
		}
	}
	if v := getenv("MEMO_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Cache.MemoSize = n
		}
	}
}

// Normalize fills zero values left by partial files.
func (c *Config) Normalize() {
	d := Default()
	if c.Port == "" {
		c.Port = d.Port
	}
	if c.Environment == "" {
		c.Environment = d.Environment
	}
	if c.Timezone == "" {
		c.Timezone = d.Timezone
	}
	if c.Catalog.Source == "" {
		c.Catalog.Source = d.Catalog.Source
	}
	if c.Catalog.DatabaseID == "" {
		c.Catalog.DatabaseID = d.Catalog.DatabaseID
	}
	if c.Catalog.Collection == "" {
		c.Catalog.Collection = d.Catalog.Collection
	}
	if c.Cache.MemoSize == 0 {
		c.Cache.MemoSize = d.Cache.MemoSize
	}
}

// Validate checks struct constraints and that Timezone names a real zone.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid config: timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the configured zone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsProduction reports whether HSTS and other production-only behavior apply.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
