package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server struct {
		Port            string
		Env             string
		Timeout         time.Duration
		ShutdownTimeout time.Duration
	}

	// Database configuration. DSN wins over the individual fields.
	Database struct {
		DSN      string
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
		MaxConns int
		Retries  int
		Timeout  time.Duration
	}

	// Security configuration
	Security struct {
		RateLimit      float64
		RateLimitBurst int
		AllowedOrigins []string
		TrustedProxies []string
		MaxBodySize    int64

		// InferenceRateLimit additionally bounds the routes that call the model
		InferenceRateLimit      float64
		InferenceRateLimitBurst int
	}

	// Logging configuration
	Logging struct {
		Level  string
		Format string
	}

	// Inference endpoint configuration
	Inference struct {
		DefaultEndpoint string
		// Endpoints maps a model identifier to its own endpoint
		Endpoints map[string]string
		Timeout   time.Duration
		// APIKeySecret names the secret holding the endpoint's bearer token
		APIKeySecret string
		HealthURL    string
	}

	// Study design switches
	Study struct {
		RandomizeModelPerTopic bool
	}

	// Observability configuration
	Observability struct {
		ServiceName    string
		TracingEnabled bool
		MetricsEnabled bool
	}

	// Secrets backend configuration
	Vault struct {
		Enabled     bool
		Address     string
		Token       string
		Namespace   string
		MountPath   string
		SecretsPath string
	}

	// OpenAPI request validation; empty disables it
	OpenAPI struct {
		SchemaPath string
	}
}

var (
	instance *Config
	once     sync.Once
)

// New creates a new Config instance with values from environment variables
// Uses singleton pattern to ensure only one instance exists
func New() *Config {
	once.Do(func() {
		// Load .env file if exists
		_ = godotenv.Load()
		instance = Load()
	})

	return instance
}

// Get returns the singleton Config instance
func Get() *Config {
	if instance == nil {
		return New()
	}
	return instance
}

// Load reads a fresh Config from the current environment
func Load() *Config {
	cfg := &Config{}

	// Server config
	cfg.Server.Port = getEnvString("PORT", "5000")
	cfg.Server.Env = getEnvString("APP_ENV", "development")
	cfg.Server.Timeout = getEnvDuration("SERVER_TIMEOUT", 120*time.Second)
	cfg.Server.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second)

	// Database config
	cfg.Database.DSN = getEnvString("DATABASE_DSN", "")
	cfg.Database.Host = getEnvString("DB_HOST", "localhost")
	cfg.Database.Port = getEnvString("DB_PORT", "5432")
	cfg.Database.User = getEnvString("DB_USER", "postgres")
	cfg.Database.Password = getEnvString("DB_PASSWORD", "postgres")
	cfg.Database.Name = getEnvString("DB_NAME", "chatbot_evaluation")
	cfg.Database.SSLMode = getEnvString("DB_SSL_MODE", "disable")
	cfg.Database.MaxConns = getEnvInt("DB_MAX_CONNS", 20)
	cfg.Database.Retries = getEnvInt("DB_CONNECT_RETRIES", 5)
	cfg.Database.Timeout = getEnvDuration("DB_TIMEOUT", 5*time.Second)

	// Security config
	cfg.Security.RateLimit = getEnvFloat("RATE_LIMIT", 5)
	cfg.Security.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", 20)
	cfg.Security.InferenceRateLimit = getEnvFloat("INFERENCE_RATE_LIMIT", 1)
	cfg.Security.InferenceRateLimitBurst = getEnvInt("INFERENCE_RATE_LIMIT_BURST", 3)
	cfg.Security.AllowedOrigins = getEnvStringSlice("ALLOWED_ORIGINS", []string{"*"})
	cfg.Security.TrustedProxies = getEnvStringSlice("TRUSTED_PROXIES", []string{"127.0.0.1"})
	cfg.Security.MaxBodySize = getEnvInt64("MAX_BODY_SIZE", 1<<20) // 1MB

	// Logging config
	cfg.Logging.Level = getEnvString("LOG_LEVEL", "info")
	cfg.Logging.Format = getEnvString("LOG_FORMAT", "json")

	// Inference config
	cfg.Inference.DefaultEndpoint = getEnvString("LLM_ENDPOINT", "http://localhost:11434/api/chat")
	cfg.Inference.Endpoints = getEnvStringMap("LLM_ENDPOINTS")
	cfg.Inference.Timeout = getEnvDuration("INFERENCE_TIMEOUT", 100*time.Second)
	cfg.Inference.APIKeySecret = getEnvString("LLM_API_KEY_SECRET", "llm_api_key")
	cfg.Inference.HealthURL = getEnvString("LLM_HEALTH_URL", "")

	// Study config
	cfg.Study.RandomizeModelPerTopic = getEnvBool("RANDOMIZE_MODEL_PER_TOPIC", false)

	// Observability config
	cfg.Observability.ServiceName = getEnvString("SERVICE_NAME", "chatbot-evaluation")
	cfg.Observability.TracingEnabled = getEnvBool("TRACING_ENABLED", false)
	cfg.Observability.MetricsEnabled = getEnvBool("METRICS_ENABLED", true)

	// Vault config
	cfg.Vault.Enabled = getEnvBool("VAULT_ENABLED", false)
	cfg.Vault.Address = getEnvString("VAULT_ADDR", "")
	cfg.Vault.Token = getEnvString("VAULT_TOKEN", "")
	cfg.Vault.Namespace = getEnvString("VAULT_NAMESPACE", "")
	cfg.Vault.MountPath = getEnvString("VAULT_MOUNT_PATH", "secret")
	cfg.Vault.SecretsPath = getEnvString("VAULT_SECRETS_PATH", "chatbot-evaluation")

	// OpenAPI config
	cfg.OpenAPI.SchemaPath = getEnvString("OPENAPI_SCHEMA_PATH", "")

	return cfg
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Helper functions to read environment variables with default values

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

// getEnvStringMap parses "k1=v1,k2=v2". Malformed pairs are skipped.
func getEnvStringMap(key string) map[string]string {
	out := make(map[string]string)
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return out
	}
	for _, pair := range strings.Split(value, ",") {
		k, v, ok := strings.Cut(pair, "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if !ok || k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}
