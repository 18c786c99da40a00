package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	ServiceName string
	Version     string
	Environment string
	APIKey      string // API key for settlement-layer authentication
	DBUser      string
	DBPassword  string
	DBHost      string
	DBPort      string
	DBName      string
	GamesDir    string // directory holding game outcome table JSON files

	// DeadLetterPath is where events that exhaust their publish retries are
	// appended for later reconciliation.
	DeadLetterPath string

	// Static pool risk settings; per-agent DB overrides take priority at
	// pool creation, hard defaults fill whatever is left (see resolver.go).
	Pool PoolSettings
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		ServiceName: getEnv("SERVICE_NAME", "game-provider"),
		Version:     getEnv("VERSION", "dev"),
		Environment: getEnv("ENVIRONMENT", "dev"),
		APIKey:      getEnv("API_KEY", ""),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBName:      getEnv("DB_NAME", "gameprovider"),
		GamesDir:    getEnv("GAMES_DIR", "configs/games"),

		DeadLetterPath: getEnv("EVENT_DEADLETTER_PATH", "deadletter.jsonl"),
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	pool, err := loadPoolSettings()
	if err != nil {
		return nil, err
	}
	cfg.Pool = pool

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// loadPoolSettings reads the optional static pool risk settings. Unset
// variables stay zero; the resolver fills them from hard defaults.
func loadPoolSettings() (PoolSettings, error) {
	var s PoolSettings
	var err error

	if s.RetentionThreshold, err = getEnvInt64("POOL_RETENTION_THRESHOLD", 0); err != nil {
		return s, err
	}
	if s.ReleaseThreshold, err = getEnvInt64("POOL_RELEASE_THRESHOLD", 0); err != nil {
		return s, err
	}
	if s.MaxAbsolutePayout, err = getEnvInt64("POOL_MAX_ABSOLUTE_PAYOUT", 0); err != nil {
		return s, err
	}
	if s.MaxRiskPercent, err = getEnvFloat("POOL_MAX_RISK_PERCENT", 0); err != nil {
		return s, err
	}
	return s, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return f, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
