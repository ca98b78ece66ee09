// Package config provides configuration management for the allocation service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the complete application configuration.
type Config struct {
	Server     ServerConfig
	Cache      CacheConfig
	Allocation AllocationConfig
	Auth       AuthConfig
	Database   DatabaseConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        string
	RateLimit   int
	RateWindow  time.Duration
	CORSOrigins []string
	SwaggerUser string
	SwaggerPass string
}

// CacheConfig holds result cache configuration.
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// AllocationConfig holds the default allocation profile used until one is
// stored in the database.
type AllocationConfig struct {
	// PackSequence is the 15-slot ratio template of location names.
	PackSequence []string
	// Locations lists destinations as "Name:role" pairs (role: store, office, sink).
	Locations []string
	// OfficeSource names the store the office carve-out is debited from.
	OfficeSource string
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	Enabled          bool
	APIKeys          map[string]bool
	JWTSecretKey     string
	JWTRefreshSecret string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
}

// DatabaseConfig holds MongoDB and circuit breaker configuration.
type DatabaseConfig struct {
	URI          string
	DatabaseName string
	LogsTTL      time.Duration
	Enabled      bool

	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// Load creates a Config from environment variables.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:        envStr("PORT", "8080"),
			RateLimit:   envInt("RATE_LIMIT", 100),
			RateWindow:  envDuration("RATE_WINDOW", time.Minute),
			CORSOrigins: corsOrigins(os.Getenv("CORS_ORIGINS")),
			SwaggerUser: envStr("SWAGGER_USER", ""),
			SwaggerPass: envStr("SWAGGER_PASS", ""),
		},
		Cache: CacheConfig{
			Size: envInt("CACHE_SIZE", 1000),
			TTL:  envDuration("CACHE_TTL", 5*time.Minute),
		},
		Allocation: AllocationConfig{
			PackSequence: splitList(os.Getenv("PACK_SEQUENCE")),
			Locations:    splitList(os.Getenv("LOCATIONS")),
			OfficeSource: envStr("OFFICE_SOURCE", ""),
		},
		Auth: AuthConfig{
			Enabled:          envBool("AUTH_ENABLED", false),
			APIKeys:          apiKeySet(os.Getenv("API_KEYS")),
			JWTSecretKey:     envStr("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			JWTRefreshSecret: envStr("JWT_REFRESH_SECRET_KEY", "your-refresh-secret-key-change-in-production"),
			AccessTokenTTL:   envDuration("JWT_ACCESS_TOKEN_TTL", 15*time.Minute),
			RefreshTokenTTL:  envDuration("JWT_REFRESH_TOKEN_TTL", 7*24*time.Hour),
		},
		Database: DatabaseConfig{
			URI:                            envStr("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName:                   envStr("MONGODB_DATABASE", "allocation_service"),
			LogsTTL:                        envDuration("MONGODB_LOGS_TTL", 30*24*time.Hour),
			Enabled:                        envBool("MONGODB_ENABLED", false),
			CircuitBreakerFailureThreshold: envInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: envInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          envDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
	}
}

// The env helpers fall back to the given default when the variable is
// unset or fails to parse; a malformed value never aborts startup.

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// splitList turns a comma-separated value into trimmed non-empty items.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var items []string
	for _, part := range strings.Split(s, ",") {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func apiKeySet(s string) map[string]bool {
	keys := splitList(s)
	if len(keys) == 0 {
		return nil
	}
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

// corsOrigins always includes the local development origins and appends
// any configured ones after them.
func corsOrigins(s string) []string {
	defaults := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	return append(defaults, splitList(s)...)
}
