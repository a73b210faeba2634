package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort         string
	DatabaseDSN      string
	JWTSecret        string
	CORSOrigins      string
	RedisAddress     string // optional; token blacklist falls back to memory when empty
	ProductImagePath string // directory for uploaded product images
	RefreshTokenDays int
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	cfg := &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:      getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=farmstore port=5432 sslmode=disable"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		CORSOrigins:      getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		RedisAddress:     getEnv("REDIS_ADDRESS", ""),
		ProductImagePath: getEnv("PRODUCT_IMAGE_PATH", "./product-images"),
		RefreshTokenDays: getEnvInt("REFRESH_TOKEN_EXPIRES_IN_DAYS", 7),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET is not set; it is required")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters")
	}
	if cfg.RedisAddress == "" {
		log.Println("[WARN] REDIS_ADDRESS not set, token blacklist will not survive restarts")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
