package config

import (
	"fmt"
	"os"
)

// Config holds application configuration
type Config struct {
	DatabaseURL     string
	ServerPort      string
	FrontendURL     string
	RedisURL        string
	RateLimit       string
	EnableHSTS      bool
	ServerDebugMode bool
	OIDCIssuer      string
	OIDCClientID    string
	OIDCJWKSURL     string
	OIDCRedirectURL string
	OTELEnabled     bool
	OTELEndpoint    string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:3000"),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RateLimit:       getEnv("RATE_LIMIT", ""),
		EnableHSTS:      getEnvBool("ENABLE_HSTS", false),
		ServerDebugMode: getEnvBool("SERVER_DEBUG_MODE", false),
		OIDCIssuer:      getEnv("OIDC_ISSUER", ""),
		OIDCClientID:    getEnv("OIDC_CLIENT_ID", ""),
		OIDCJWKSURL:     getEnv("OIDC_JWKS_URL", ""),
		OIDCRedirectURL: getEnv("OIDC_REDIRECT_URL", ""),
		OTELEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.OIDCIssuer == "" {
		return nil, fmt.Errorf("OIDC_ISSUER is required")
	}
	if cfg.OIDCClientID == "" {
		return nil, fmt.Errorf("OIDC_CLIENT_ID is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
