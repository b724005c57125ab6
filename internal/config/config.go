package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
)

type Config struct {
	Port          string
	StoreDriver   string
	DBUrl         string
	MongoURI      string
	MongoDatabase string
	JWTSecret     string
	RedisAddr     string
	CookieSecure  bool
	CORSOrigins   string
	AppEnv        string
	EnableDocs    bool
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	jwtSecret, exists := os.LookupEnv("JWT_SECRET")
	if !exists || jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	driver := strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", "")))
	if driver == "" {
		driver = StoreDriverPostgres
	}
	if driver != StoreDriverPostgres && driver != StoreDriverMongo {
		return nil, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreDriverPostgres, StoreDriverMongo, driver)
	}

	return &Config{
		Port:          getEnv("PORT", "3000"),
		StoreDriver:   driver,
		DBUrl:         getEnv("DB_URL", ""),
		MongoURI:      getEnv("MONGODB_URI", ""),
		MongoDatabase: getEnv("MONGODB_DATABASE", "chat-app"),
		JWTSecret:     jwtSecret,
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		CookieSecure:  getEnvBool("COOKIE_SECURE", false),
		CORSOrigins:   getEnv("CORS_ORIGINS", "http://localhost:5173"),
		AppEnv:        normalizeEnv(getEnv("APP_ENV", "production")),
		EnableDocs:    getEnvBool("ENABLE_API_DOCS", false),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}

func (c *Config) DocsEnabled() bool {
	return c != nil && c.EnableDocs && c.AppEnv == "development"
}

// RateLimitEnabled reports whether credential endpoints are throttled.
func (c *Config) RateLimitEnabled() bool {
	return c != nil && c.RedisAddr != ""
}
