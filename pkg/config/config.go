package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Assembly AssemblyConfig
	LLM      LLMConfig
	Pipeline PipelineConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
	MaxUploadMB     int
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	PublicURL       string // external base URL when MinIO is behind a proxy
	PresignTTL      time.Duration
}

// RedisConfig holds the optional metadata index configuration
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// AssemblyConfig holds transcription provider configuration
type AssemblyConfig struct {
	APIKey         string
	WebhookSecret  string
	WebhookBaseURL string // public base URL delivered to the provider for callbacks
	PollInterval   time.Duration
	PollTimeout    time.Duration
}

// LLMConfig holds the generative extraction backend configuration
type LLMConfig struct {
	Enabled bool
	APIKey  string
	BaseURL string // any OpenAI-compatible endpoint
	Model   string
	Timeout time.Duration
}

// PipelineConfig holds extraction tuning knobs
type PipelineConfig struct {
	TopKPhrases      int
	SummarySentences int
	SpeakingRateWPM  int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
			MaxUploadMB:     getEnvAsInt("MAX_UPLOAD_MB", 100),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			Bucket:          getEnv("STORAGE_BUCKET", "meetscribe"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
			PublicURL:       getEnv("STORAGE_PUBLIC_URL", ""),
			PresignTTL:      getEnvAsDuration("STORAGE_PRESIGN_TTL", "1h"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Assembly: AssemblyConfig{
			APIKey:         getEnv("ASSEMBLYAI_API_KEY", ""),
			WebhookSecret:  getEnv("ASSEMBLYAI_WEBHOOK_SECRET", ""),
			WebhookBaseURL: getEnv("ASSEMBLYAI_WEBHOOK_BASE_URL", ""),
			PollInterval:   getEnvAsDuration("ASSEMBLYAI_POLL_INTERVAL", "15s"),
			PollTimeout:    getEnvAsDuration("ASSEMBLYAI_POLL_TIMEOUT", "10m"),
		},
		LLM: LLMConfig{
			Enabled: getEnvAsBool("LLM_ENABLED", false),
			APIKey:  getEnv("LLM_API_KEY", ""),
			BaseURL: getEnv("LLM_BASE_URL", "https://api.groq.com/openai/v1"),
			Model:   getEnv("LLM_MODEL", "llama-3.3-70b-versatile"),
			Timeout: getEnvAsDuration("LLM_TIMEOUT", "60s"),
		},
		Pipeline: PipelineConfig{
			TopKPhrases:      getEnvAsInt("PIPELINE_TOP_K_PHRASES", 10),
			SummarySentences: getEnvAsInt("PIPELINE_SUMMARY_SENTENCES", 3),
			SpeakingRateWPM:  getEnvAsInt("PIPELINE_SPEAKING_RATE_WPM", 130),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Storage.Bucket == "" {
		return fmt.Errorf("STORAGE_BUCKET is required")
	}
	if c.LLM.Enabled && c.LLM.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required when LLM_ENABLED is set")
	}
	return nil
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

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
