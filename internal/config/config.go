package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int    `validate:"min=1,max=65535"`
	LogLevel    string `validate:"required"`
	LogFormat   string `validate:"oneof=json text"`
	Environment string `validate:"required"`
	Version     string
	ServiceName string `validate:"required"`
	// LogDir, when set, also writes each run's log to a session file there
	LogDir string

	// Postgres
	DBUser        string `validate:"required"`
	DBPassword    string
	DBHost        string        `validate:"required"`
	DBPort        string        `validate:"required"`
	DBName        string        `validate:"required"`
	DBMaxConns    int           `validate:"min=2"`
	DBMaxConnIdle time.Duration `validate:"gt=0"`
	DBMaxConnLife time.Duration `validate:"gt=0"`

	// Redis
	RedisAddr     string `validate:"required,hostname_port"`
	RedisPassword string
	RedisDB       int `validate:"min=0"`

	// RedisQ killmail queue
	RedisQURL            string        `validate:"required,url"`
	RedisQQueueID        string        `validate:"required"`
	RedisQTTW            int           `validate:"min=1,max=10"`
	RedisQMinInterval    time.Duration `validate:"gt=0"`
	RedisQBackoffInitial time.Duration `validate:"gt=0"`
	RedisQBackoffMax     time.Duration `validate:"gtfield=RedisQBackoffInitial"`
	UserAgent            string        `validate:"required"`

	// ESI killmail detail fetch
	ESIURL            string        `validate:"required,url"`
	ESITimeout        time.Duration `validate:"gt=0"`
	DetailConcurrency int           `validate:"min=1"`

	// Discord alerts; an empty token or channel disables delivery
	DiscordToken     string
	DiscordChannelID string
	AlertWorkers     int           `validate:"min=1"`
	AlertQueueSize   int           `validate:"min=1"`
	AlertTimeout     time.Duration `validate:"gt=0"`

	// Background sweep
	SweepInterval time.Duration `validate:"gt=0"`

	// Optional directory holding systems.json / ship_types.json overrides
	UniverseDataDir string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:   getEnv("LOG_FORMAT", DefaultLogFormat),
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),
		Version:     getEnv("VERSION", DefaultVersion),
		ServiceName: getEnv("SERVICE_NAME", DefaultServiceName),
		LogDir:      getEnv("LOG_DIR", ""),

		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBName:        getEnv("DB_NAME", "killwatch"),
		DBMaxConns:    getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdle: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdle),
		DBMaxConnLife: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLife),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		RedisQURL:            getEnv("REDISQ_URL", DefaultRedisQURL),
		RedisQQueueID:        getEnv("REDISQ_QUEUE_ID", ""),
		RedisQTTW:            getEnvAsInt("REDISQ_TTW", DefaultRedisQTTW),
		RedisQMinInterval:    getEnvAsDuration("REDISQ_MIN_INTERVAL", DefaultRedisQMinInterval),
		RedisQBackoffInitial: getEnvAsDuration("REDISQ_BACKOFF_INITIAL", DefaultBackoffInitial),
		RedisQBackoffMax:     getEnvAsDuration("REDISQ_BACKOFF_MAX", DefaultBackoffMax),
		UserAgent:            getEnv("USER_AGENT", DefaultUserAgent),

		ESIURL:            getEnv("ESI_URL", DefaultESIURL),
		ESITimeout:        getEnvAsDuration("ESI_TIMEOUT", DefaultESITimeout),
		DetailConcurrency: getEnvAsInt("DETAIL_CONCURRENCY", DefaultDetailConcurrency),

		DiscordToken:     getEnv("DISCORD_TOKEN", ""),
		DiscordChannelID: getEnv("DISCORD_CHANNEL_ID", ""),
		AlertWorkers:     getEnvAsInt("ALERT_WORKERS", DefaultAlertWorkers),
		AlertQueueSize:   getEnvAsInt("ALERT_QUEUE_SIZE", DefaultAlertQueueSize),
		AlertTimeout:     getEnvAsDuration("ALERT_TIMEOUT", DefaultAlertTimeout),

		SweepInterval: getEnvAsDuration("SWEEP_INTERVAL", DefaultSweepInterval),

		UniverseDataDir: getEnv("UNIVERSE_DATA_DIR", ""),
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	if cfg.RedisQQueueID == "" {
		return nil, fmt.Errorf("REDISQ_QUEUE_ID environment variable must be set to a stable queue identifier")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the assembled configuration against its struct constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// AlertsEnabled reports whether Discord delivery is configured
func (c *Config) AlertsEnabled() bool {
	return c.DiscordToken != "" && c.DiscordChannelID != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt parses an integer environment variable, falling back to the default
func getEnvAsInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvAsDuration parses a Go duration environment variable, falling back to the default
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
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
