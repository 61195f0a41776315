package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"sportsbook/database"

	"github.com/joho/godotenv"
)

// Storage backends accepted by STORAGE_BACKEND
var storageBackends = []string{"memory", "sqlite", "postgres", "redis"}

// Config holds all application configuration
type Config struct {
	// Storage configuration
	StorageBackend      string // memory, sqlite, postgres or redis
	SQLitePath          string
	DatabaseURL         string
	DatabaseName        string
	RedisAddr           string
	RedisDB             int
	StorageMaxValueSize int // Upper bound on an encoded entity, in bytes

	// HTTP configuration
	HTTPAddr    string
	MetricsAddr string // Empty disables the metrics server
	APIKey      string // Empty disables the API key check

	// Discord configuration
	DiscordToken      string // Empty disables the bot
	GuildID           string
	AnnounceChannelID string // Channel for bet status notices; empty disables them

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated); empty disables forwarding

	// Betting behaviour
	PlaceBetLegacyOrder bool // Insert the wager before checking the account

	// Logging
	LogLevel  string
	LogFormat string // text or json

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = Load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// Load reads configuration from the environment, after an optional .env file
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		// Storage
		StorageBackend:      strings.ToLower(getEnvWithDefault("STORAGE_BACKEND", "sqlite")),
		SQLitePath:          getEnvWithDefault("SQLITE_PATH", "sportsbook.db"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		DatabaseName:        os.Getenv("DATABASE_NAME"),
		RedisAddr:           getEnvWithDefault("REDIS_ADDR", "localhost:6379"),
		StorageMaxValueSize: 1024,

		// HTTP
		HTTPAddr:    getEnvWithDefault("HTTP_ADDR", ":8080"),
		MetricsAddr: getEnvWithDefault("METRICS_ADDR", ":9090"),
		APIKey:      os.Getenv("API_KEY"),

		// Discord
		DiscordToken:      os.Getenv("DISCORD_TOKEN"),
		GuildID:           os.Getenv("GUILD_ID"),
		AnnounceChannelID: os.Getenv("DISCORD_ANNOUNCE_CHANNEL_ID"),

		// NATS
		NATSServers: os.Getenv("NATS_SERVERS"),

		// Betting
		PlaceBetLegacyOrder: os.Getenv("PLACE_BET_LEGACY_ORDER") == "true",

		// Logging
		LogLevel:  getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvWithDefault("LOG_FORMAT", "text"),

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		parsed, err := strconv.Atoi(redisDB)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", redisDB, err)
		}
		config.RedisDB = parsed
	}
	if maxSize := os.Getenv("STORAGE_MAX_VALUE_SIZE"); maxSize != "" {
		parsed, err := strconv.Atoi(maxSize)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid STORAGE_MAX_VALUE_SIZE %q", maxSize)
		}
		config.StorageMaxValueSize = parsed
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if !slices.Contains(storageBackends, config.StorageBackend) {
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", config.StorageBackend)
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.StorageBackend == "postgres" && config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
		if config.StorageBackend == "sqlite" && strings.TrimSpace(config.SQLitePath) == "" {
			return nil, fmt.Errorf("SQLITE_PATH cannot be empty")
		}
		// If DatabaseName is provided, ensure it's not empty
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		StorageBackend:      "memory",
		StorageMaxValueSize: 1024,
		HTTPAddr:            "127.0.0.1:0",
		LogLevel:            "debug",
		LogFormat:           "text",
		Environment:         "test",
	}
}
