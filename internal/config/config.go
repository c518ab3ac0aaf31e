// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/harborview-hospitality/service-reservation/internal/platform/database"
)

// Config holds all configuration for the reservation service.
type Config struct {
	Port     string
	AppEnv   string
	DB       database.Config
	Kafka    KafkaConfig
	JWT      JWTConfig
	SeedData bool
	Seed     SeedConfig
}

// SeedConfig holds the development seed account parameters.
type SeedConfig struct {
	AdminUsername string
	AdminPassword string
}

// KafkaConfig holds the Kafka connection parameters.
type KafkaConfig struct {
	Brokers []string
}

// JWTConfig holds the staff-token signing parameters.
type JWTConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// Load reads configuration from the environment, honoring a local .env file
// when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:   ":" + getEnv("RESERVATION_SERVICE_PORT", "8080"),
		AppEnv: getEnv("APP_ENV", "development"),
		DB: database.Config{
			Host:     getEnv("RESERVATION_DB_HOST", "localhost"),
			Port:     getEnv("RESERVATION_DB_PORT", "5432"),
			User:     getEnv("RESERVATION_DB_USER", "postgres"),
			Password: getEnv("RESERVATION_DB_PASSWORD", "postgres"),
			DBName:   getEnv("RESERVATION_DB_NAME", "reservation"),
			SSLMode:  getEnv("RESERVATION_DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(getEnv("RESERVATION_KAFKA_BROKERS", "localhost:9092"), ","),
		},
		JWT: JWTConfig{
			Secret:   os.Getenv("RESERVATION_JWT_SECRET"),
			TokenTTL: 15 * time.Minute,
		},
		SeedData: getEnv("RESERVATION_SEED_DATA", "false") == "true",
		Seed: SeedConfig{
			AdminUsername: getEnv("RESERVATION_SEED_ADMIN_USER", "admin"),
			AdminPassword: getEnv("RESERVATION_SEED_ADMIN_PASSWORD", "admin123!"),
		},
	}

	if cfg.AppEnv != "development" && cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("RESERVATION_JWT_SECRET is required outside development")
	}
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = "dev-only-secret"
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
