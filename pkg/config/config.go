package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// LLM commentary
	AI AIConfig

	// Uploads
	Upload UploadConfig

	// API rate limiting
	RateLimit RateLimitConfig

	// Analysis queue worker
	Worker WorkerConfig

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string // optional, tee JSON logs to this file
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool

	// AssessmentTTL is how long computed assessments stay cached
	AssessmentTTL time.Duration
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// AIConfig holds the commentary model configuration.
// An empty APIKey disables commentary.
type AIConfig struct {
	APIKey            string
	Model             string
	Temperature       float64
	RequestsPerMinute int
	Timeout           time.Duration
	UsePDFMode        bool // send uploaded PDFs to the model as-is
}

// Enabled reports whether commentary can be generated
func (c AIConfig) Enabled() bool {
	return c.APIKey != ""
}

// UploadConfig holds upload limits
type UploadConfig struct {
	MaxSizeMB         int
	AllowedExtensions []string // lower-case, no dot
	Dir               string
}

// MaxBytes returns the upload limit in bytes
func (c UploadConfig) MaxBytes() int64 {
	return int64(c.MaxSizeMB) * 1024 * 1024
}

// Allowed reports whether a filename has an allowed extension
func (c UploadConfig) Allowed(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	for _, a := range c.AllowedExtensions {
		if a == ext {
			return true
		}
	}
	return false
}

// RateLimitConfig holds the per-client API limit
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
}

// WorkerConfig holds analysis queue settings
type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxRetries   int
	Concurrency  int
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	cfg := load()

	if err := cfg.validate(true); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadForCLI reads configuration for offline commands (assess, batch)
// that never touch the database, so DATABASE_URL is optional.
func LoadForCLI() (*Config, error) {
	cfg := load()

	if err := cfg.validate(false); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func load() *Config {
	// Try multiple paths for .env file
	loadEnvFile()

	return &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "finhealth"),
			User:            getEnv("DB_USER", "finhealth"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:          getEnv("REDIS_HOST", "localhost"),
			Port:          getEnv("REDIS_PORT", "6379"),
			Password:      getEnv("REDIS_PASSWORD", ""),
			DB:            getEnvAsInt("REDIS_DB", 0),
			Enabled:       getEnvAsBool("REDIS_ENABLED", true),
			AssessmentTTL: getEnvAsDuration("ASSESSMENT_CACHE_TTL", "24h"),
		},

		// LLM commentary
		AI: AIConfig{
			APIKey:            getEnv("GEMINI_API_KEY", ""),
			Model:             getEnv("AI_MODEL", "gemini-3-flash-preview"),
			Temperature:       getEnvAsFloat("AI_TEMPERATURE", 0.3),
			RequestsPerMinute: getEnvAsInt("AI_REQUESTS_PER_MINUTE", 10),
			Timeout:           getEnvAsDuration("AI_TIMEOUT", "60s"),
			UsePDFMode:        getEnvAsBool("AI_PDF_MODE", true),
		},

		// Uploads
		Upload: UploadConfig{
			MaxSizeMB:         getEnvAsInt("MAX_UPLOAD_SIZE_MB", 50),
			AllowedExtensions: getEnvAsList("ALLOWED_EXTENSIONS", "csv,xlsx,html,pdf"),
			Dir:               getEnv("UPLOAD_DIR", "./uploads"),
		},

		// API rate limiting
		RateLimit: RateLimitConfig{
			Enabled:           getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
		},

		// Analysis queue worker
		Worker: WorkerConfig{
			PollInterval: getEnvAsDuration("WORKER_POLL_INTERVAL", "2s"),
			BatchSize:    getEnvAsInt("WORKER_BATCH_SIZE", 10),
			MaxRetries:   getEnvAsInt("WORKER_MAX_RETRIES", 3),
			Concurrency:  getEnvAsInt("WORKER_CONCURRENCY", 4),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		LogFile:   getEnv("LOG_FILE", ""),
	}
}

// validate checks if required configuration values are set
func (c *Config) validate(requireDatabase bool) error {
	// Database URL is required for server-side commands
	if requireDatabase && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Upload.MaxSizeMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE_MB must be positive, got %d", c.Upload.MaxSizeMB)
	}

	if len(c.Upload.AllowedExtensions) == 0 {
		return fmt.Errorf("ALLOWED_EXTENSIONS must not be empty")
	}

	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive when rate limiting is enabled")
	}

	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("AI_TEMPERATURE must be between 0 and 2, got %v", c.AI.Temperature)
	}

	if c.Worker.BatchSize <= 0 || c.Worker.Concurrency <= 0 {
		return fmt.Errorf("WORKER_BATCH_SIZE and WORKER_CONCURRENCY must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList splits a comma-separated value, lower-cased, dots stripped
func getEnvAsList(key string, defaultValue string) []string {
	parts := strings.Split(getEnv(key, defaultValue), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(p)), ".")
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
