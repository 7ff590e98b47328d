package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	StoreEngine    string
	StoreNamespace string
	JSONStorePath  string
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	RedisAddr      string
	RedisDB        int
	LogMode        string
	Timezone       string
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		StoreEngine:    getEnv("STORE_ENGINE", "sqlite"),
		StoreNamespace: getEnv("STORE_NAMESPACE", "lifeos_"),
		JSONStorePath:  getEnv("JSON_STORE_PATH", "./lifeos.json"),
		DatabaseType:   getEnv("DATABASE_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./lifeos.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:        getEnvAsInt("REDIS_DB", 0),
		LogMode:        getEnv("LOG_MODE", ""),
		Timezone:       getEnv("TIMEZONE", ""),
	}
}

// Location resolves the calendar used for streak and weekly XP day boundaries.
// An empty or unknown timezone falls back to the device-local zone.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
