package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	ServerPort string
	GinMode    string
	BaseURL    string

	MongoURI      string
	MongoDatabase string
	RedisURI      string

	CORSOrigins []string

	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool
	S3PublicURL string

	GeocoderURL       string
	GeocoderUserAgent string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	AdminEmail   string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	LoginRateRPS   float64
	LoginRateBurst int
}

// Load reads configuration from .env file and environment variables
func Load() *Config {
	// Load .env file (ignore error if file doesn't exist - env vars may be set directly)
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		GinMode:    getEnv("GIN_MODE", "debug"),
		BaseURL:    getEnv("BASE_URL", "http://localhost:8080"),

		MongoURI:      getEnvRequired("MONGO_URI"),
		MongoDatabase: getEnvRequired("MONGO_DATABASE"),
		RedisURI:      getEnv("REDIS_URI", "localhost:6379"),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),

		AccessTokenSecret:  getEnvRequired("ACCESS_TOKEN_SECRET"),
		AccessTokenExpiry:  parseDuration(getEnv("ACCESS_TOKEN_EXPIRY", "15m")),
		RefreshTokenExpiry: parseDuration(getEnv("REFRESH_TOKEN_EXPIRY", "720h")),

		S3Endpoint:  getEnvRequired("S3_ENDPOINT"),
		S3AccessKey: getEnvRequired("S3_ACCESS_KEY"),
		S3SecretKey: getEnvRequired("S3_SECRET_KEY"),
		S3Bucket:    getEnv("S3_BUCKET", "krushak-media"),
		S3UseSSL:    parseBool(getEnv("S3_USE_SSL", "false")),
		S3PublicURL: getEnv("S3_PUBLIC_URL", ""),

		GeocoderURL:       getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org/search"),
		GeocoderUserAgent: getEnv("GEOCODER_USER_AGENT", "krushak-api"),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     parseInt(getEnv("SMTP_PORT", "587")),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "no-reply@krushak.in"),
		AdminEmail:   getEnv("ADMIN_EMAIL", "admin@krushak.in"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),

		LoginRateRPS:   parseFloat(getEnv("LOGIN_RATE_RPS", "1")),
		LoginRateBurst: parseInt(getEnv("LOGIN_RATE_BURST", "5")),
	}

	return cfg
}

// getEnv reads an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvRequired reads an environment variable and panics if not set
func getEnvRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("Required environment variable %s is not set", key)
	}
	return value
}

// parseDuration parses a duration string, panics on error
func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Fatalf("Invalid duration format: %s", s)
	}
	return d
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		log.Fatalf("Invalid boolean value: %s", s)
	}
	return b
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("Invalid integer value: %s", s)
	}
	return n
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Fatalf("Invalid float value: %s", s)
	}
	return f
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
