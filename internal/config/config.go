package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings. It is constructed once in main
// and passed explicitly to every component that needs it.
type Config struct {
	Environment string
	GinMode     string
	ServerAddr  string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret      string
	AccessTokenTTL time.Duration

	Argon2Memory      uint32
	Argon2Time        uint32
	Argon2Parallelism uint8
}

func Load() *Config {
	// Missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		ServerAddr:  getEnv("SERVER_ADDR", ":8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "todouser"),
		DBPassword: getEnv("DB_PASSWORD", "todopassword"),
		DBName:     getEnv("DB_NAME", "todo_app"),

		JWTSecret:      getEnv("SECRET_KEY", "your-secret-key-here-change-in-production"),
		AccessTokenTTL: getDurationMinutes("ACCESS_TOKEN_EXPIRE_MINUTES", 30),

		Argon2Memory:      uint32(getInt("ARGON2_MEMORY_KB", 64*1024)),
		Argon2Time:        uint32(getInt("ARGON2_TIME", 3)),
		Argon2Parallelism: uint8(getInt("ARGON2_PARALLELISM", 2)),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) int {
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

func getDurationMinutes(key string, defaultMinutes int) time.Duration {
	return time.Duration(getInt(key, defaultMinutes)) * time.Minute
}
