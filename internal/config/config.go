package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Runtime
	Env      string
	LogLevel string

	// Server
	Host string
	Port string

	// Database
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// PreferencesFile is the JSON file holding user preferences.
	PreferencesFile string

	// SnapshotListLimit caps how many recent snapshots analytics look at by default.
	SnapshotListLimit int
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", ""),

		// Local UI only talks to loopback by default.
		Host: getEnv("HOST", "127.0.0.1"),
		Port: getEnv("PORT", "8080"),

		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBPath:     getEnv("DB_PATH", "budget_data.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "budgetex"),
		DBPassword: getEnv("DB_PASSWORD", "budgetex"),
		DBName:     getEnv("DB_NAME", "budgetex"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		PreferencesFile: getEnv("PREFERENCES_FILE", DefaultPreferencesFile),
	}

	limitStr := getEnv("SNAPSHOT_LIST_LIMIT", "6")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		log.Printf("Warning: invalid SNAPSHOT_LIST_LIMIT value '%s', falling back to 6\n", limitStr)
		limit = 6
	}
	config.SnapshotListLimit = limit

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
