package config

import (
	"errors"
	"os"
	"time"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port         string
	MongoURI     string
	MongoDB      string
	JWTSecret    string
	TokenTTL     time.Duration
	UsersBackend string // "mongo" (default) or "postgres"
	PostgresDSN  string

	RedisAddr     string
	RedisPassword string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

// ErrMissingSecret is returned when JWT_SECRET is unset; the signing secret
// has no safe default.
var ErrMissingSecret = errors.New("config: JWT_SECRET is required")

func Load() (*Config, error) {
	cfg := &Config{
		Port:         getenv("PORT", "5000"),
		MongoURI:     getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getenv("MONGO_DB", "restaurantdb"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		UsersBackend: getenv("USERS_BACKEND", "mongo"),
		PostgresDSN:  getenv("POSTGRES_DSN", ""),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),

		MinioEndpoint:  getenv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "fooditem-images"),
		MinioUseSSL:    getenv("MINIO_USE_SSL", "false") == "true",
	}
	if cfg.JWTSecret == "" {
		return nil, ErrMissingSecret
	}

	ttl, err := time.ParseDuration(getenv("TOKEN_TTL", "1h"))
	if err != nil {
		return nil, err
	}
	cfg.TokenTTL = ttl

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
