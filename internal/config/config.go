package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config represents the complete service configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Redis    RedisConfig    `toml:"redis"`
	MinIO    MinIOConfig    `toml:"minio"`
	Jobs     JobsConfig     `toml:"jobs"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig contains HTTP listener settings
type ServerConfig struct {
	Port            int      `toml:"port"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	// MaxImportBytes caps the body accepted by the tree import endpoint.
	MaxImportBytes int64 `toml:"max_import_bytes"`
}

// DatabaseConfig contains pool and transaction settings
type DatabaseConfig struct {
	URL             string   `toml:"url"`
	MaxConns        int32    `toml:"max_conns"`
	MinConns        int32    `toml:"min_conns"`
	MaxConnLifetime Duration `toml:"max_conn_lifetime"`
	LockTimeout     Duration `toml:"lock_timeout"`
	TxMaxAttempts   int      `toml:"tx_max_attempts"`
	AutoMigrate     bool     `toml:"auto_migrate"`
}

// RedisConfig contains inventory cache settings. An empty Addr disables the cache.
type RedisConfig struct {
	Addr     string   `toml:"addr"`
	Password string   `toml:"password"`
	DB       int      `toml:"db"`
	TTL      Duration `toml:"ttl"`
}

// MinIOConfig contains import archive settings. An empty Endpoint disables archiving.
type MinIOConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	UseSSL    bool   `toml:"use_ssl"`
	Bucket    string `toml:"bucket"`
}

// JobsConfig contains background job intervals
type JobsConfig struct {
	Enabled             bool     `toml:"enabled"`
	ReconcileInterval   Duration `toml:"reconcile_interval"`
	SafetyStockInterval Duration `toml:"safety_stock_interval"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Duration decodes TOML strings such as "30s" or "5m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: Duration{10 * time.Second},
			MaxImportBytes:  10 << 20,
		},
		Database: DatabaseConfig{
			MaxConns:        10,
			MaxConnLifetime: Duration{time.Hour},
			LockTimeout:     Duration{3 * time.Second},
			TxMaxAttempts:   3,
		},
		Redis: RedisConfig{
			TTL: Duration{5 * time.Minute},
		},
		MinIO: MinIOConfig{
			Bucket: "bom-imports",
		},
		Jobs: JobsConfig{
			Enabled:             true,
			ReconcileInterval:   Duration{15 * time.Minute},
			SafetyStockInterval: Duration{time.Hour},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads defaults, then the optional TOML file, then environment
// variables (a .env file in the working directory is loaded first).
func Load(filename string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if filename != "" {
		if _, err := toml.DecodeFile(filename, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Database.TxMaxAttempts <= 0 {
		return fmt.Errorf("tx_max_attempts must be positive")
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.MinIO.Endpoint, "MINIO_ENDPOINT")
	setString(&c.MinIO.AccessKey, "MINIO_ACCESS_KEY")
	setString(&c.MinIO.SecretKey, "MINIO_SECRET_KEY")
	setString(&c.MinIO.Bucket, "MINIO_BUCKET")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	if err := setInt(&c.Server.Port, "PORT"); err != nil {
		return err
	}
	if err := setInt(&c.Redis.DB, "REDIS_DB"); err != nil {
		return err
	}
	if err := setBool(&c.MinIO.UseSSL, "MINIO_USE_SSL"); err != nil {
		return err
	}
	if err := setBool(&c.Database.AutoMigrate, "AUTO_MIGRATE"); err != nil {
		return err
	}
	return setBool(&c.Jobs.Enabled, "JOBS_ENABLED")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = b
	return nil
}
