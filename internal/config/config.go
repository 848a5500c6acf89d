package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Meal source kinds
const (
	SourceHTTP     = "http"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Session store kinds
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds all configuration for the application
type Config struct {
	PostgreSQL PostgreSQLConfig
	Server     ServerConfig
	Catalog    CatalogConfig
	Session    SessionConfig
	Search     SearchConfig
	Logging    LoggingConfig
	OpenAI     OpenAIConfig

	// Warnings collects env values that could not be parsed and fell back
	// to their defaults. The logger does not exist yet while loading.
	Warnings []string
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, preferred when set
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	Enabled            bool
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            int
	Host            string
	GinMode         string
	AllowedOrigins  []string
	AllowedMethods  []string
	AllowedHeaders  []string
	ShutdownTimeout time.Duration
}

// CatalogConfig controls where meals come from and how the pipeline behaves
type CatalogConfig struct {
	Source               string // http, file or postgres
	SourceURL            string
	SourceFile           string
	FetchTimeout         time.Duration
	PageSize             int
	CategoryNameFallback bool
	UnifiedDefaults      bool
}

// SessionConfig holds browsing session storage configuration
type SessionConfig struct {
	Store     string // memory or redis
	TTL       time.Duration
	RedisURL  string
	KeyPrefix string
}

// SearchConfig holds limits for natural-language search and stateless views
type SearchConfig struct {
	DefaultPageSize int
	MaxPageSize     int
	MaxPages        int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey              string
	APIBase             string
	ChatModel           string // Model for chat/intent parsing
	ChatTemperature     float64
	ChatTopP            float64
	ChatMaxTokens       int
	ChatExtraBody       string // JSON string for extra_body (e.g., {"chat_template_kwargs":{"thinking":true}})
	EmbeddingModel      string
	EmbeddingDimensions int
	EmbeddingExtraBody  string // JSON string for extra_body (e.g., {"truncate":"NONE"})
	BatchSize           int
	Timeout             int
	Enabled             bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	l := &loader{}
	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("POSTGRESQL_URI", getEnv("PG_DSN", ""))),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               l.getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "meal_catalog"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     l.getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: l.getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
		},
		Server: ServerConfig{
			Port:            l.getEnvAsInt("SERVER_PORT", 8080),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:         getEnv("GIN_MODE", "release"),
			AllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods:  getEnvAsList("CORS_ALLOWED_METHODS", "GET,POST,PUT,PATCH,DELETE,OPTIONS"),
			AllowedHeaders:  getEnvAsList("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
			ShutdownTimeout: l.getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Catalog: CatalogConfig{
			Source:               strings.ToLower(getEnv("CATALOG_SOURCE", SourceHTTP)),
			SourceURL:            getEnv("CATALOG_SOURCE_URL", "http://localhost:5000/api/meals"),
			SourceFile:           getEnv("CATALOG_SOURCE_FILE", "meals.json"),
			FetchTimeout:         l.getEnvAsDuration("CATALOG_FETCH_TIMEOUT", 15*time.Second),
			PageSize:             l.getEnvAsInt("CATALOG_PAGE_SIZE", 12),
			CategoryNameFallback: l.getEnvAsBool("CATALOG_CATEGORY_NAME_FALLBACK", true),
			UnifiedDefaults:      l.getEnvAsBool("CATALOG_UNIFIED_DEFAULTS", false),
		},
		Session: SessionConfig{
			Store:     strings.ToLower(getEnv("SESSION_STORE", StoreMemory)),
			TTL:       l.getEnvAsDuration("SESSION_TTL", 30*time.Minute),
			RedisURL:  getEnv("REDIS_URL", "redis://localhost:6379"),
			KeyPrefix: getEnv("SESSION_KEY_PREFIX", "mealcatalog:session:"),
		},
		Search: SearchConfig{
			DefaultPageSize: l.getEnvAsInt("SEARCH_DEFAULT_PAGE_SIZE", 12),
			MaxPageSize:     l.getEnvAsInt("SEARCH_MAX_PAGE_SIZE", 100),
			MaxPages:        l.getEnvAsInt("SEARCH_MAX_PAGES", 50),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		OpenAI: OpenAIConfig{
			APIKey:              getEnv("OPENAI_API_KEY", ""),
			APIBase:             getEnv("OPENAI_API_BASE", "https://integrate.api.nvidia.com/v1"),
			ChatModel:           getEnv("OPENAI_CHAT_MODEL", "deepseek-ai/deepseek-v3.1-terminus"),
			ChatTemperature:     l.getEnvAsFloat("OPENAI_CHAT_TEMPERATURE", 0.2),
			ChatTopP:            l.getEnvAsFloat("OPENAI_CHAT_TOP_P", 0.7),
			ChatMaxTokens:       l.getEnvAsInt("OPENAI_CHAT_MAX_TOKENS", 8192),
			ChatExtraBody:       getEnv("OPENAI_CHAT_EXTRA_BODY", `{"chat_template_kwargs":{"thinking":true}}`),
			EmbeddingModel:      getEnv("OPENAI_EMBEDDING_MODEL", "baai/bge-m3"),
			EmbeddingDimensions: l.getEnvAsInt("OPENAI_EMBEDDING_DIMENSIONS", 1024),
			EmbeddingExtraBody:  getEnv("OPENAI_EMBEDDING_EXTRA_BODY", `{"truncate":"NONE"}`),
			BatchSize:           l.getEnvAsInt("OPENAI_BATCH_SIZE", 100),
			Timeout:             l.getEnvAsInt("OPENAI_TIMEOUT", 30),
			Enabled:             getEnv("OPENAI_API_KEY", "") != "",
		},
	}

	// Postgres is needed for the postgres source and for search logging.
	cfg.PostgreSQL.Enabled = cfg.PostgreSQL.DSN != "" ||
		cfg.Catalog.Source == SourcePostgres ||
		l.getEnvAsBool("PG_ENABLED", false)
	cfg.Warnings = l.warnings

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot start with
func (c *Config) Validate() error {
	switch c.Catalog.Source {
	case SourceHTTP:
		if c.Catalog.SourceURL == "" {
			return fmt.Errorf("CATALOG_SOURCE_URL is required for the http source")
		}
	case SourceFile:
		if c.Catalog.SourceFile == "" {
			return fmt.Errorf("CATALOG_SOURCE_FILE is required for the file source")
		}
	case SourcePostgres:
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q (want http, file or postgres)", c.Catalog.Source)
	}

	switch c.Session.Store {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("unknown SESSION_STORE %q (want memory or redis)", c.Session.Store)
	}

	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("CATALOG_PAGE_SIZE must be positive, got %d", c.Catalog.PageSize)
	}
	if c.Search.MaxPageSize < c.Search.DefaultPageSize {
		return fmt.Errorf("SEARCH_MAX_PAGE_SIZE (%d) is below SEARCH_DEFAULT_PAGE_SIZE (%d)",
			c.Search.MaxPageSize, c.Search.DefaultPageSize)
	}
	return nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Helper functions

type loader struct {
	warnings []string
}

func (l *loader) warn(key, value string, def any) {
	l.warnings = append(l.warnings, fmt.Sprintf("invalid value %q for %s, using default %v", value, key, def))
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsList(key, defaultValue string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, defaultValue), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (l *loader) getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		l.warn(key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func (l *loader) getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		l.warn(key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func (l *loader) getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		l.warn(key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func (l *loader) getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		l.warn(key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
