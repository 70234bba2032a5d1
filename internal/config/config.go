package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageMemory   = "memory"
	StorageBolt     = "bolt"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// DefaultIdeasKey is the storage key the browser version of the board used,
// kept so exported browser data can be loaded as-is.
const DefaultIdeasKey = "studentComputingIdeas"

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Ideas    IdeasConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Secure       bool   // Use HTTPS-only cookies
	Environment  string // "development", "production", "test"
	LogLevel     string
	TemplatesDir string
	StaticDir    string
}

type StorageConfig struct {
	Driver   string
	Key      string
	BoltPath string
	// MigrationsDir overrides the migrations compiled into the binary.
	MigrationsDir string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string
}

type IdeasConfig struct {
	// RateLimit is submissions per client IP per minute; 0 disables it.
	RateLimit int
	// DisplayTimezone is used when rendering timestamps for people.
	DisplayTimezone string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Location resolves DisplayTimezone, falling back to UTC.
func (i IdeasConfig) Location() *time.Location {
	if i.DisplayTimezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(i.DisplayTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvInt("SERVER_PORT", 8080),
			Secure:       getEnvBool("SERVER_SECURE", false),
			Environment:  getEnv("APP_ENV", "development"),
			LogLevel:     getEnv("LOG_LEVEL", "info"),
			TemplatesDir: getEnv("TEMPLATES_DIR", "web/templates"),
			StaticDir:    getEnv("STATIC_DIR", "web/static"),
		},
		Storage: StorageConfig{
			Driver:        strings.ToLower(getEnv("STORAGE_DRIVER", StorageBolt)),
			Key:           getEnv("STORAGE_KEY", DefaultIdeasKey),
			BoltPath:      getEnv("BOLT_PATH", "data/ideas.bolt"),
			MigrationsDir: getEnv("MIGRATIONS_DIR", ""),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "studentcomputing"),
			Password: getEnv("DB_PASSWORD", "studentcomputing"),
			DBName:   getEnv("DB_NAME", "studentcomputing"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:      getEnv("REDIS_HOST", "localhost"),
			Port:      getEnvInt("REDIS_PORT", 6379),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvInt("REDIS_DB", 0),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "studentcomputing:"),
		},
		Ideas: IdeasConfig{
			RateLimit:       getEnvInt("IDEA_RATE_LIMIT", 10),
			DisplayTimezone: getEnv("DISPLAY_TIMEZONE", "UTC"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StorageBolt, StorageRedis, StoragePostgres:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return fmt.Errorf("STORAGE_KEY must not be empty")
	}
	if c.Storage.Driver == StorageBolt && c.Storage.BoltPath == "" {
		return fmt.Errorf("BOLT_PATH is required for the bolt driver")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid SERVER_PORT %d", c.Server.Port)
	}
	if c.Ideas.RateLimit < 0 {
		return fmt.Errorf("IDEA_RATE_LIMIT must not be negative")
	}
	return nil
}

// RequiresRedis reports whether the server cannot start without Redis.
// Rate limiting alone only wants Redis and runs without it.
func (c *Config) RequiresRedis() bool {
	return c.Storage.Driver == StorageRedis
}

func (c *Config) WantsRedis() bool {
	return c.RequiresRedis() || c.Ideas.RateLimit > 0
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
