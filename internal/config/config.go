package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port              string
	Environment       string // development, staging, production
	LogLevel          string
	LogFormat         string
	JWTSecretKey      string
	AdminEmail        string
	AdminPassword     string
	AdminPasswordHash string // bcrypt hash, preferred over AdminPassword when set
	AllowedOrigins    string
	StaticDir         string
	RabbitMQURL       string // optional, catalog events are dropped when empty
	OpenAPIValidation string // "true", "false" or empty for the environment default
	ContentStore      ContentStoreConfig
}

// Load loads configuration from environment variables and validates it.
// Any validation failure is fatal: the process must not serve requests without
// a signing key or admin credentials.
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := FromEnv()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	return cfg
}

// FromEnv reads the configuration without validating it
func FromEnv() *Config {
	return &Config{
		Port:              getEnv("PORT", "8080"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
		JWTSecretKey:      getEnv("JWT_SECRET_KEY", ""),
		AdminEmail:        getEnv("ADMIN_EMAIL", ""),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8080"),
		StaticDir:         getEnv("STATIC_DIR", "./static"),
		RabbitMQURL:       getEnv("RABBITMQ_URL", ""),
		OpenAPIValidation: getEnv("OPENAPI_VALIDATION", ""),
		ContentStore: ContentStoreConfig{
			ProjectID:  getEnv("CONTENT_STORE_PROJECT_ID", ""),
			Dataset:    getEnv("CONTENT_STORE_DATASET", "production"),
			APIVersion: getEnv("CONTENT_STORE_API_VERSION", DefaultContentStoreAPIVersion),
			Token:      getEnv("CONTENT_STORE_TOKEN", ""),
			URL:        getEnv("CONTENT_STORE_URL", ""),
			Timeout:    getDuration("CONTENT_STORE_TIMEOUT", DefaultContentStoreTimeout),
		},
	}
}

// Validate checks configuration for security and correctness
func (c *Config) Validate() error {
	if c.JWTSecretKey == "" {
		return fmt.Errorf("JWT_SECRET_KEY must be set")
	}

	// Production environment requires strong secrets
	if c.IsProduction() {
		if len(c.JWTSecretKey) < 32 {
			return fmt.Errorf("JWT_SECRET_KEY must be at least 32 characters in production (got %d)", len(c.JWTSecretKey))
		}
		if c.AdminPasswordHash == "" && c.AdminPassword != "" {
			log.Println("WARNING: prefer ADMIN_PASSWORD_HASH over a plaintext ADMIN_PASSWORD in production")
		}
	}

	if c.AdminEmail == "" {
		return fmt.Errorf("ADMIN_EMAIL must be set")
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		return fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set")
	}

	if err := c.ContentStore.Validate(); err != nil {
		return fmt.Errorf("content store: %w", err)
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev" || c.Environment == ""
}

// OpenAPIValidationEnabled resolves OPENAPI_VALIDATION, defaulting to on outside production
func (c *Config) OpenAPIValidationEnabled() bool {
	if v, err := strconv.ParseBool(c.OpenAPIValidation); err == nil {
		return v
	}
	return !c.IsProduction()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
