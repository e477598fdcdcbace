package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	AI       AIConfig
	JWT      JWTConfig
	Billing  BillingConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Port        string
	Environment string
	BaseURL     string
}

type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type AIConfig struct {
	OpenAIKey     string
	PerplexityKey string
}

type JWTConfig struct {
	Secret     string
	Expiration int
}

// OperatorToken guards operator-only endpoints like refunds. When unset
// those endpoints are disabled entirely.
type BillingConfig struct {
	StripeSecret  string
	SuccessURL    string
	CancelURL     string
	OperatorToken string
}

// StorageConfig selects the persistence backend. "memory" runs without
// Postgres or Redis, for local development and tests.
type StorageConfig struct {
	Backend string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION", "3600"))

	baseURL := getEnv("BASE_URL", "http://localhost:8080")

	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			BaseURL:     baseURL,
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", ""),
			DBName:         getEnv("DB_NAME", "contentscale"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MigrationsPath: getEnv("DB_MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		AI: AIConfig{
			OpenAIKey:     getEnv("OPENAI_API_KEY", ""),
			PerplexityKey: getEnv("PERPLEXITY_API_KEY", ""),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "dev-only-secret-change-me"),
			Expiration: jwtExp,
		},
		Billing: BillingConfig{
			StripeSecret:  getEnv("STRIPE_SECRET_KEY", ""),
			SuccessURL:    getEnv("CHECKOUT_SUCCESS_URL", baseURL+"/checkout/success"),
			CancelURL:     getEnv("CHECKOUT_CANCEL_URL", baseURL+"/pricing"),
			OperatorToken: getEnv("OPERATOR_TOKEN", ""),
		},
		Storage: StorageConfig{
			Backend: getEnv("STORAGE_BACKEND", "postgres"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
