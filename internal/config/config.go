package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Environment represents the deployment environment
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Config holds all application configuration. Variables are read with
// the PAGEWRIGHT_ prefix, falling back to the bare name.
type Config struct {
	// Environment
	Env      Environment `envconfig:"ENV" default:"development"`
	LogLevel string      `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool        `envconfig:"DEBUG" default:"false"`

	// Server
	Server ServerConfig

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// MinIO
	MinIO MinIOConfig

	// Temporal
	Temporal TemporalConfig

	// Engine
	Engine EngineConfig

	// Site import
	Import ImportConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	CORSOrigins     []string      `envconfig:"SERVER_CORS_ORIGINS" default:"*"`
	RateLimitPerMin int           `envconfig:"SERVER_RATE_LIMIT_PER_MIN" default:"120"`
	PublicBaseURL   string        `envconfig:"SERVER_PUBLIC_BASE_URL" default:"http://localhost:8080"`
}

// Addr returns the server listen address
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds PostgreSQL settings
type DatabaseConfig struct {
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            int           `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" default:"pagewright"`
	Password        string        `envconfig:"DB_PASSWORD" default:""`
	Database        string        `envconfig:"DB_NAME" default:"pagewright"`
	SSLMode         string        `envconfig:"DB_SSL_MODE" default:"disable"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	ConnMaxIdleTime time.Duration `envconfig:"DB_CONN_MAX_IDLE_TIME" default:"1m"`
}

// DSN returns the PostgreSQL connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisConfig holds Redis settings
type RedisConfig struct {
	Host         string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port         int           `envconfig:"REDIS_PORT" default:"6379"`
	Password     string        `envconfig:"REDIS_PASSWORD" default:""`
	DB           int           `envconfig:"REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REDIS_MIN_IDLE_CONNS" default:"5"`
	DialTimeout  time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"REDIS_WRITE_TIMEOUT" default:"3s"`
}

// Addr returns Redis address
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MinIOConfig holds object storage settings
type MinIOConfig struct {
	Endpoint        string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"MINIO_ACCESS_KEY_ID" default:"minioadmin"`
	SecretAccessKey string `envconfig:"MINIO_SECRET_ACCESS_KEY" default:"minioadmin"`
	Bucket          string `envconfig:"MINIO_BUCKET" default:"pagewright"`
	UseSSL          bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

// TemporalConfig holds Temporal settings
type TemporalConfig struct {
	Host        string `envconfig:"TEMPORAL_HOST" default:"localhost"`
	Port        int    `envconfig:"TEMPORAL_PORT" default:"7233"`
	Namespace   string `envconfig:"TEMPORAL_NAMESPACE" default:"pagewright"`
	TaskQueue   string `envconfig:"TEMPORAL_TASK_QUEUE" default:"pagewright-provision"`
	WorkerCount int    `envconfig:"TEMPORAL_WORKER_COUNT" default:"4"`
}

// Address returns Temporal address
func (c TemporalConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// EngineConfig holds recommendation engine settings
type EngineConfig struct {
	CacheTTL             time.Duration `envconfig:"ENGINE_CACHE_TTL" default:"15m"`
	DeterministicIDs     bool          `envconfig:"ENGINE_DETERMINISTIC_IDS" default:"false"`
	AssistantDelay       time.Duration `envconfig:"ENGINE_ASSISTANT_DELAY" default:"0"`
	AssistantFailureRate float64       `envconfig:"ENGINE_ASSISTANT_FAILURE_RATE" default:"0"`
}

// ImportConfig holds site import browser settings
type ImportConfig struct {
	Enabled      bool          `envconfig:"IMPORT_ENABLED" default:"false"`
	Headless     bool          `envconfig:"IMPORT_HEADLESS" default:"true"`
	Timeout      time.Duration `envconfig:"IMPORT_TIMEOUT" default:"30s"`
	RateLimitRPM int           `envconfig:"IMPORT_RATE_LIMIT_RPM" default:"30"`
	Screenshots  bool          `envconfig:"IMPORT_SCREENSHOTS" default:"true"`
}

// Load loads configuration from an optional .env file and the
// environment
func Load() (*Config, error) {
	// Missing .env is the normal case outside local development
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("pagewright", &cfg); err != nil {
		return nil, fmt.Errorf("processing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errors []string

	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		errors = append(errors, fmt.Sprintf("unknown environment %q", c.Env))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid server port %d", c.Server.Port))
	}

	if c.Env != EnvDevelopment {
		if c.Database.Password == "" {
			errors = append(errors, "DB_PASSWORD is required outside development")
		}
	}

	if c.Engine.AssistantFailureRate < 0 || c.Engine.AssistantFailureRate > 1 {
		errors = append(errors, "ENGINE_ASSISTANT_FAILURE_RATE must be within [0, 1]")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// GetLogLevel returns the appropriate zap log level
func (c *Config) GetLogLevel() string {
	if c.Debug {
		return "debug"
	}
	return c.LogLevel
}
