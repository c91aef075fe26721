package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL   string
	RunMigrations bool

	// Auth0
	Auth0Domain   string
	Auth0Audience string

	// Server
	Port        string
	CORSOrigins []string
	Env         string
	PublicURL   string // advertised in /openapi.json when set

	// Rate limiting on mutating routes, per signed-in identity
	RateLimitPerMinute int
	RateLimitBurst     int

	// Realtime updates over /ws. When disabled, events are dropped.
	RealtimeEnabled      bool
	WSMaxClientsPerGroup int // 0 for no cap

	// Currency code shown to clients; amounts are whole units of it
	Currency string

	// S3 storage for member avatars. Avatars are disabled when Bucket is empty.
	S3 S3Config
}

// S3Config holds AWS S3 configuration
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // optional, for MinIO/LocalStack in local dev
}

// Enabled reports whether avatar storage is configured
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

// Load reads configuration from environment variables, then from .env if present
func Load() (*Config, error) {
	_ = godotenv.Load()

	perMinute, err := getEnvInt("RATE_LIMIT_PER_MINUTE", 60)
	if err != nil {
		return nil, err
	}
	burst, err := getEnvInt("RATE_LIMIT_BURST", 10)
	if err != nil {
		return nil, err
	}
	wsMax, err := getEnvInt("WS_MAX_CLIENTS_PER_GROUP", 50)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		RunMigrations:        getEnv("RUN_MIGRATIONS", "true") == "true",
		Auth0Domain:          getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience:        getEnv("AUTH0_AUDIENCE", ""),
		Port:                 getEnv("PORT", "8080"),
		CORSOrigins:          splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		Env:                  getEnv("ENV", "development"),
		PublicURL:            strings.TrimSuffix(getEnv("PUBLIC_URL", ""), "/"),
		RateLimitPerMinute:   perMinute,
		RateLimitBurst:       burst,
		RealtimeEnabled:      getEnv("REALTIME_ENABLED", "true") == "true",
		WSMaxClientsPerGroup: wsMax,
		Currency:             strings.ToUpper(getEnv("CURRENCY", "TZS")),
		S3: S3Config{
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with ENV=production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Auth0Domain == "" {
		return fmt.Errorf("AUTH0_DOMAIN is required")
	}
	if c.Auth0Audience == "" {
		return fmt.Errorf("AUTH0_AUDIENCE is required")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive")
	}
	if c.WSMaxClientsPerGroup < 0 {
		return fmt.Errorf("WS_MAX_CLIENTS_PER_GROUP must not be negative")
	}
	if len(c.Currency) != 3 {
		return fmt.Errorf("CURRENCY must be a 3-letter code")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
