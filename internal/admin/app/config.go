package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Hosted auth service.
	AuthBaseURL    string // Required: base URL of the auth service
	AuthAnonKey    string // Optional: publishable API key sent on session calls
	AuthServiceKey string // Required: service-role key for the admin endpoints
	SessionSecret  string // Required: shared HS256 secret for local session verification

	// Object storage for QR images.
	S3Bucket        string
	S3Region        string
	S3Endpoint      string // Optional: custom endpoint (MinIO)
	S3AccessKey     string // Optional: static credentials
	S3SecretKey     string
	S3PathStyle     bool   // Optional: path-style addressing for MinIO
	S3PublicBaseURL string // Optional: CDN prefix for public URLs

	DatabaseFile        string        // Path to SQLite database file (default: ./admin.db)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads configuration from the environment. A .env file in
// the working directory is loaded first when present; real environment
// variables win over it.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		AuthBaseURL:    os.Getenv("AUTH_BASE_URL"),
		AuthAnonKey:    os.Getenv("AUTH_ANON_KEY"),
		AuthServiceKey: os.Getenv("AUTH_SERVICE_ROLE_KEY"),
		SessionSecret:  os.Getenv("AUTH_SESSION_SECRET"),

		S3Bucket:        os.Getenv("S3_BUCKET"),
		S3Region:        getEnvOrDefault("S3_REGION", "ap-northeast-1"),
		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3PathStyle:     getEnvBoolOrDefault("S3_PATH_STYLE", false),
		S3PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),

		DatabaseFile:        getEnvOrDefault("ADMIN_DATABASE_FILE", "admin.db"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}
