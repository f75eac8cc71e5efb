package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	defaultAddress  = ":4001"
	defaultDriver   = "sqlite"
	defaultDatabase = "communityBack.db"
	defaultCacheTTL = 30 * time.Second
	defaultCacheMax = 1024
	DefaultPath     = "config/config.yaml"
)

type Config struct {
	Server struct {
		Address     string   `yaml:"address"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"`
		URL    string `yaml:"url"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Cache struct {
		TTLSeconds int `yaml:"ttl_seconds"`
		MaxEntries int `yaml:"max_entries"`
	} `yaml:"cache"`
	NATS struct {
		URL string `yaml:"url"`
	} `yaml:"nats"`
	Auth struct {
		SigningKey string `yaml:"signing_key"`
	} `yaml:"auth"`
	S3 struct {
		Endpoint  string `yaml:"endpoint"`
		Region    string `yaml:"region"`
		Bucket    string `yaml:"bucket"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
		PublicURL string `yaml:"public_url"`
	} `yaml:"s3"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// LoadConfig reads the YAML file at path (a missing file is fine), applies
// environment overrides and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to unmarshal config data: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaults() Config {
	var cfg Config
	cfg.Server.Address = defaultAddress
	cfg.Server.CORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	cfg.Database.Driver = defaultDriver
	cfg.Database.URL = defaultDatabase
	cfg.Cache.TTLSeconds = int(defaultCacheTTL / time.Second)
	cfg.Cache.MaxEntries = defaultCacheMax
	cfg.S3.Region = "us-east-1"
	cfg.Log.Level = "info"
	return cfg
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return fmt.Errorf("parse PORT: %w", err)
		}
		cfg.Server.Address = ":" + v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}
	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.URL, "DATABASE_URL")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	if v, err := readIntEnv("REDIS_DB"); err != nil {
		return fmt.Errorf("parse REDIS_DB: %w", err)
	} else if v != nil {
		cfg.Redis.DB = *v
	}
	if v, err := readIntEnv("CACHE_TTL_SECONDS"); err != nil {
		return fmt.Errorf("parse CACHE_TTL_SECONDS: %w", err)
	} else if v != nil {
		cfg.Cache.TTLSeconds = *v
	}
	if v, err := readIntEnv("CACHE_MAX_ENTRIES"); err != nil {
		return fmt.Errorf("parse CACHE_MAX_ENTRIES: %w", err)
	} else if v != nil {
		cfg.Cache.MaxEntries = *v
	}
	setString(&cfg.NATS.URL, "NATS_URL")
	setString(&cfg.Auth.SigningKey, "JWT_SIGNING_KEY")
	setString(&cfg.S3.Endpoint, "S3_ENDPOINT")
	setString(&cfg.S3.Region, "S3_REGION")
	setString(&cfg.S3.Bucket, "S3_BUCKET")
	setString(&cfg.S3.AccessKey, "S3_ACCESS_KEY")
	setString(&cfg.S3.SecretKey, "S3_SECRET_KEY")
	setString(&cfg.S3.PublicURL, "S3_PUBLIC_URL")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	return nil
}

func (c Config) Validate() error {
	switch c.Database.Driver {
	case "pgx", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.Auth.SigningKey == "" {
		return errors.New("JWT_SIGNING_KEY is required")
	}
	if c.Cache.TTLSeconds < 0 {
		return errors.New("cache ttl must not be negative")
	}
	if c.Cache.MaxEntries < 0 {
		return errors.New("cache max entries must not be negative")
	}
	return nil
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// MediaEnabled reports whether enough S3 settings are present to accept uploads.
func (c Config) MediaEnabled() bool {
	return c.S3.Bucket != "" && c.S3.AccessKey != "" && c.S3.SecretKey != ""
}

func setString(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func readIntEnv(name string) (*int, error) {
	val := os.Getenv(name)
	if val == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(val)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
