// ABOUTME: Configuration loader for the advisor service
// ABOUTME: Loads settings from an optional .env file and environment variables with defaults

package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var modelIdentifierPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*(:[a-z0-9]+)?$`)

type Config struct {
	// Server
	Port               string
	CORSAllowedOrigins []string // allowed CORS origins (empty = allow all for the local tool)
	MetricsEnabled     bool

	// Inventory store
	DatabaseURL  string // postgres:// DSN selects pgx
	DatabasePath string // SQLite file when DatabaseURL is empty

	// Rate Limiting
	RateLimitEnabled bool // Enable rate limiting (default: true)
	RateLimitAdvise  int  // Requests per minute for LLM-backed endpoints (default: 30)

	// Model provider (optional; rule-based only when unset)
	ProviderRegion         string
	ProviderAccessKey      string
	ProviderSecretKey      string
	ModelIdentifier        string // replaces the probe candidate list
	ProviderTimeoutSeconds int
	ProviderAllProxy       string // ssh+socks5://user@host:port?private-key=path

	// Price table override
	PricingFile string

	// Inventory loaded at startup: a YAML path, or "sample" for the built-in estate
	InventorySeed string

	// vSphere (optional)
	VSphereHost       string
	VSphereUsername   string
	VSpherePassword   string
	VSphereDatacenter string
	VSphereInsecure   bool
	VSphereCacheTTL   int // seconds, default 300 (5 min)
}

// VSphereConfigured returns true if vSphere credentials are set
func (c *Config) VSphereConfigured() bool {
	return c.VSphereHost != "" && c.VSphereUsername != "" && c.VSpherePassword != "" && c.VSphereDatacenter != ""
}

// ProviderConfigured returns true if model provider credentials are set
func (c *Config) ProviderConfigured() bool {
	return c.ProviderAccessKey != "" && c.ProviderSecretKey != ""
}

// ProviderTimeout returns the per-call provider deadline.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.ProviderTimeoutSeconds) * time.Second
}

// DSN returns the store connection string.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DatabasePath
}

// Load reads configuration. Values already present in the environment take
// precedence over a .env file in the working directory.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		CORSAllowedOrigins: getEnvStringList("CORS_ALLOWED_ORIGINS"),
		MetricsEnabled:     getEnvBool("METRICS_ENABLED", true),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabasePath: getEnv("DATABASE_PATH", "migration.db"),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitAdvise:  getEnvInt("RATE_LIMIT_ADVISE", 30),

		ProviderRegion:         getEnv("PROVIDER_REGION", "us-east-1"),
		ProviderAccessKey:      os.Getenv("PROVIDER_ACCESS_KEY"),
		ProviderSecretKey:      os.Getenv("PROVIDER_SECRET_KEY"),
		ModelIdentifier:        strings.TrimSpace(os.Getenv("MODEL_IDENTIFIER")),
		ProviderTimeoutSeconds: getEnvInt("PROVIDER_TIMEOUT_SECONDS", 30),
		ProviderAllProxy:       os.Getenv("PROVIDER_ALL_PROXY"),

		PricingFile:   os.Getenv("PRICING_FILE"),
		InventorySeed: strings.TrimSpace(os.Getenv("INVENTORY_SEED")),

		VSphereHost:       os.Getenv("VSPHERE_HOST"),
		VSphereUsername:   os.Getenv("VSPHERE_USERNAME"),
		VSpherePassword:   os.Getenv("VSPHERE_PASSWORD"),
		VSphereDatacenter: os.Getenv("VSPHERE_DATACENTER"),
		VSphereInsecure:   getEnvBool("VSPHERE_INSECURE", false),
		VSphereCacheTTL:   getEnvInt("VSPHERE_CACHE_TTL", 300),
	}

	if cfg.ProviderTimeoutSeconds < 1 || cfg.ProviderTimeoutSeconds > 300 {
		return nil, fmt.Errorf("PROVIDER_TIMEOUT_SECONDS must be between 1 and 300, got %d", cfg.ProviderTimeoutSeconds)
	}
	if cfg.RateLimitAdvise < 1 || cfg.RateLimitAdvise > 10000 {
		return nil, fmt.Errorf("RATE_LIMIT_ADVISE must be between 1 and 10000, got %d", cfg.RateLimitAdvise)
	}
	if cfg.ModelIdentifier != "" && !modelIdentifierPattern.MatchString(cfg.ModelIdentifier) {
		return nil, fmt.Errorf("MODEL_IDENTIFIER %q is not a valid model identifier", cfg.ModelIdentifier)
	}
	if cfg.DatabaseURL != "" && !strings.HasPrefix(cfg.DatabaseURL, "postgres://") && !strings.HasPrefix(cfg.DatabaseURL, "postgresql://") {
		return nil, fmt.Errorf("DATABASE_URL must be a postgres:// URL")
	}
	if cfg.VSphereCacheTTL < 0 {
		return nil, fmt.Errorf("VSPHERE_CACHE_TTL must not be negative, got %d", cfg.VSphereCacheTTL)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvStringList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
