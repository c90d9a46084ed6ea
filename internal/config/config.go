package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port         string
	AppEnv       string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	BodyLimit    int

	// Upload root: local files are only readable from inside this directory
	UploadRoot string

	// Presigned URL lifetime applied when a request leaves expires_in unset
	DefaultExpiry time.Duration

	// Transfer strategy
	MultipartThreshold int64
	PartSize           int64
	MaxParts           int

	// Async upload settings
	MaxConcurrentUploads int
	RequestTimeout       time.Duration

	// Logging configuration
	LogUploads bool

	// Production settings
	EnableRequestID bool
	EnableCORS      bool
	TrustedProxies  []string

	// S3 backend configuration
	S3 *S3Configuration
}

// Load loads configuration from environment variables and .env file
func Load() *Config {
	// Try to load .env file (optional)
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: .env file not found or couldn't be loaded: %v", err)
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return &Config{
		// Server configuration
		Port:         getEnv("PORT", "8080"),
		AppEnv:       getEnv("APP_ENV", "development"),
		ReadTimeout:  getDuration("READ_TIMEOUT", 5*time.Minute),
		WriteTimeout: getDuration("WRITE_TIMEOUT", 5*time.Minute),
		IdleTimeout:  getDuration("IDLE_TIMEOUT", 5*time.Minute),
		BodyLimit:    getInt("BODY_LIMIT", 1024*1024), // 1MB, requests carry paths not payloads

		UploadRoot: getEnv("UPLOAD_ROOT", ""),

		DefaultExpiry: getDuration("PRESIGN_EXPIRES_IN", 24*time.Hour),

		MultipartThreshold: getInt64("MULTIPART_THRESHOLD", 100*1024*1024), // 100MiB
		PartSize:           getInt64("PART_SIZE", 10*1024*1024),            // 10MiB
		MaxParts:           getInt("MAX_PARTS", 10000),

		MaxConcurrentUploads: getInt("MAX_CONCURRENT_UPLOADS", 3),
		RequestTimeout:       getDuration("REQUEST_TIMEOUT", time.Hour),

		LogUploads: getBool("LOG_UPLOADS", true),

		EnableRequestID: getBool("ENABLE_REQUEST_ID", true),
		EnableCORS:      getBool("ENABLE_CORS", true),
		TrustedProxies:  getStringSlice("TRUSTED_PROXIES", []string{"127.0.0.1", "::1"}),

		S3: LoadS3Config(),
	}
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.Printf("Warning: Invalid integer value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

func getInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
		log.Printf("Warning: Invalid int64 value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
		log.Printf("Warning: Invalid boolean value for %s: %s, using default: %t", key, value, defaultValue)
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		// Bare integers are treated as seconds, matching expires_in on the API
		if seconds, err := strconv.ParseInt(value, 10, 64); err == nil {
			return time.Duration(seconds) * time.Second
		}
		log.Printf("Warning: Invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}

func getStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, len(parts))
		for i, part := range parts {
			result[i] = strings.TrimSpace(part)
		}
		return result
	}
	return defaultValue
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// PrintConfig logs the current configuration (without sensitive data)
func (c *Config) PrintConfig() {
	log.Println("===========================================")
	log.Println("📋 File Share API Configuration")
	log.Println("===========================================")
	log.Printf("🌍 Environment:      %s", c.AppEnv)
	log.Printf("🚪 Port:             %s", c.Port)
	log.Printf("📁 Upload Root:      %s", c.UploadRoot)
	log.Printf("⏰ Default Expiry:   %s", c.DefaultExpiry)
	log.Printf("📊 Multipart:        %dMB threshold", c.MultipartThreshold/1024/1024)
	log.Printf("🧩 Part Size:        %dMB", c.PartSize/1024/1024)
	log.Printf("🔄 Concurrent:       %d uploads", c.MaxConcurrentUploads)
	log.Printf("🕒 Request Timeout:  %s", c.RequestTimeout)
	log.Printf("📝 Upload Logging:   %t", c.LogUploads)
	log.Println("===========================================")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.UploadRoot == "" {
		return fmt.Errorf("UPLOAD_ROOT is required")
	}

	if c.DefaultExpiry <= 0 {
		log.Printf("Warning: PRESIGN_EXPIRES_IN is 0 or negative, setting to default: 24h")
		c.DefaultExpiry = 24 * time.Hour
	}

	if c.MultipartThreshold <= 0 {
		log.Printf("Warning: MULTIPART_THRESHOLD is 0 or negative, setting to default: 100MB")
		c.MultipartThreshold = 100 * 1024 * 1024
	}

	if c.PartSize <= 0 {
		log.Printf("Warning: PART_SIZE is 0 or negative, setting to default: 10MB")
		c.PartSize = 10 * 1024 * 1024
	}

	if c.MaxParts <= 0 {
		log.Printf("Warning: MAX_PARTS is 0 or negative, setting to default: 10000")
		c.MaxParts = 10000
	}

	if c.MaxConcurrentUploads <= 0 {
		log.Printf("Warning: MAX_CONCURRENT_UPLOADS is 0 or negative, setting to default: 3")
		c.MaxConcurrentUploads = 3
	}

	return c.S3.Validate()
}
