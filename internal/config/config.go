package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// MinJWTSecretLength is the minimum signing secret size in bytes (256 bits)
const MinJWTSecretLength = 32

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	Lockout  LockoutConfig
	Seed     SeedConfig
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Name              string
	SSLMode           string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

type ServerConfig struct {
	Port                    string
	Env                     string
	LogLevel                string
	StorageBackend          string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	IdleTimeout             time.Duration
	LoginRateLimitPerMinute int
}

type AuthConfig struct {
	JWTSecret         string
	TokenTTL          time.Duration
	TimingDelayBase   time.Duration
	TimingDelayRandom time.Duration
}

type LockoutConfig struct {
	MaxAttempts          int
	BlockDuration        time.Duration
	SerializePerUsername bool
	CleanupInterval      time.Duration
}

// SeedConfig describes an optional account created at startup when it does not exist
type SeedConfig struct {
	Username string
	Password string
}

// Enabled reports whether both seed values are present
func (s SeedConfig) Enabled() bool {
	return s.Username != "" && s.Password != ""
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	env := getEnv("ENV", "development")

	cfg := &Config{
		Database: DatabaseConfig{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvAsInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", ""),
			Name:              getEnv("DB_NAME", "gymcrm"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			MaxConns:          int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns:          int32(getEnvAsInt("DB_MIN_CONNS", 5)),
			MaxConnLifetime:   getEnvAsDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 1*time.Minute),
			HealthCheckPeriod: getEnvAsDuration("DB_HEALTH_CHECK_PERIOD", 1*time.Minute),
		},
		Server: ServerConfig{
			Port:                    getEnv("PORT", "8080"),
			Env:                     env,
			LogLevel:                getEnv("LOG_LEVEL", "info"),
			StorageBackend:          strings.ToLower(getEnv("STORAGE_BACKEND", StorageMemory)),
			ReadTimeout:             getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:            getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:             getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			LoginRateLimitPerMinute: getEnvAsInt("LOGIN_RATE_LIMIT_PER_MINUTE", 20),
		},
		Auth: AuthConfig{
			JWTSecret:         jwtSecret,
			TokenTTL:          time.Duration(getEnvAsInt("JWT_EXPIRATION_MS", 3600000)) * time.Millisecond,
			TimingDelayBase:   time.Duration(getEnvAsInt("TIMING_DELAY_BASE_MS", 500)) * time.Millisecond,
			TimingDelayRandom: time.Duration(getEnvAsInt("TIMING_DELAY_RANDOM_MS", 100)) * time.Millisecond,
		},
		Lockout: LockoutConfig{
			MaxAttempts:          getEnvAsInt("LOGIN_MAX_ATTEMPTS", 3),
			BlockDuration:        getEnvAsDuration("LOGIN_BLOCK_DURATION", 5*time.Minute),
			SerializePerUsername: getEnvAsBool("LOGIN_SERIALIZE_ATTEMPTS", true),
			CleanupInterval:      getEnvAsDuration("BLOCK_CLEANUP_INTERVAL", 10*time.Minute),
		},
		Seed: SeedConfig{
			Username: getEnv("SEED_USERNAME", ""),
			Password: getEnv("SEED_PASSWORD", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Server.StorageBackend {
	case StorageMemory:
	case StoragePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required when STORAGE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q (got %q)",
			StorageMemory, StoragePostgres, c.Server.StorageBackend)
	}

	if err := validateJWTSecret(c.Auth.JWTSecret); err != nil {
		return err
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_MS must be positive")
	}
	if c.Lockout.MaxAttempts < 1 {
		return fmt.Errorf("LOGIN_MAX_ATTEMPTS must be at least 1 (got %d)", c.Lockout.MaxAttempts)
	}
	if c.Lockout.BlockDuration <= 0 {
		return fmt.Errorf("LOGIN_BLOCK_DURATION must be positive")
	}
	if c.Lockout.CleanupInterval <= 0 {
		return fmt.Errorf("BLOCK_CLEANUP_INTERVAL must be positive")
	}
	if c.Auth.TimingDelayBase < 0 || c.Auth.TimingDelayRandom < 0 {
		return fmt.Errorf("timing delay values cannot be negative")
	}

	return nil
}

// validateJWTSecret enforces minimum security standards for JWT secret
func validateJWTSecret(secret string) error {
	if len(secret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters (got %d)",
			MinJWTSecretLength, len(secret))
	}

	// Repeated single character is as weak as a dictionary word
	if strings.Count(secret, secret[:1]) == len(secret) {
		return fmt.Errorf("JWT_SECRET cannot be a single repeated character")
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}
