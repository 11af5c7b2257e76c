// internal/config/config.go

package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Gemini      GeminiConfig
	Storage     StorageConfig
	Log         LogConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// GeminiConfig holds Gemini API configuration. APIKey may be empty;
// its absence is surfaced at request time, not at startup.
type GeminiConfig struct {
	APIKey      string
	TextModel   string
	ImageModel  string
	Temperature float64
}

// StorageConfig holds temp-file staging configuration. In ephemeral
// (serverless) mode files go to the OS temp dir and outputs are never
// materialized on disk.
type StorageConfig struct {
	Dir            string
	PersistOutputs bool
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

const (
	productionTextModel  = "gemini-2.5-flash"
	productionImageModel = "gemini-2.5-flash-image-preview"
	previewTextModel     = "gemini-2.0-flash"
	previewImageModel    = "gemini-2.0-flash-preview-image-generation"
)

// Load loads configuration from environment variables
func Load() (Config, error) {
	env := getEnv("APP_ENV", "development")

	config := Config{
		Environment: env,
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Gemini: GeminiConfig{
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			TextModel:   getEnv("GEMINI_TEXT_MODEL", textModelFor(env)),
			ImageModel:  getEnv("GEMINI_IMAGE_MODEL", imageModelFor(env)),
			Temperature: getEnvAsFloat("GEMINI_TEMPERATURE", 0.8),
		},
		Storage: storageConfig(),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return config, nil
}

func textModelFor(env string) string {
	if env == "production" {
		return productionTextModel
	}
	return previewTextModel
}

func imageModelFor(env string) string {
	if env == "production" {
		return productionImageModel
	}
	return previewImageModel
}

// storageConfig selects the staging directory. VERCEL marks an
// ephemeral execution environment where only the OS temp dir is
// writable.
func storageConfig() StorageConfig {
	if getEnv("VERCEL", "") != "" {
		return StorageConfig{
			Dir:            filepath.Join(os.TempDir(), "trendlens"),
			PersistOutputs: false,
		}
	}
	return StorageConfig{
		Dir:            getEnv("STORAGE_DIR", "outputs"),
		PersistOutputs: true,
	}
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
