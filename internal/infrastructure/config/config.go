package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration

	// MongoDB
	MongoURI string
	MongoDB  string

	// Auth
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	// Cloudinary asset store
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// Discord bot integration
	BotAPIKey string

	// Command-log retention
	LogRetentionDays int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion:     getEnv("APP_VERSION", "1.0.0"),
		Port:           getEnv("PORT", "8080"),
		ReadTimeout:    time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout:   time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,
		RequestTimeout: time.Duration(getEnvAsInt("REQUEST_TIMEOUT", 15)) * time.Second,

		MongoURI: getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "parkings"),

		JWTSecret:  getEnv("JWT_SECRET", ""),
		TokenTTL:   time.Duration(getEnvAsInt("TOKEN_TTL_HOURS", 24)) * time.Hour,
		BcryptCost: getEnvAsInt("BCRYPT_COST", 10),

		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),

		BotAPIKey: getEnv("BOT_API_KEY", ""),

		LogRetentionDays: getEnvAsInt("LOG_RETENTION_DAYS", 30),
	}

	if config.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
