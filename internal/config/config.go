package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type PostgresConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Config struct {
	App struct {
		Port          string
		SessionSecret string
	}
	Postgres PostgresConfig
	SMTP     SMTPConfig
}

// Load reads configuration from the environment, optionally seeded from a
// .env file. Required variables produce an error rather than a default.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	cfg := &Config{}
	cfg.App.Port = getEnvOrDefault("APP_PORT", "8080")

	var err error
	if cfg.App.SessionSecret, err = requireEnv("SESSION_SECRET"); err != nil {
		return nil, err
	}
	if cfg.Postgres.Host, err = requireEnv("DB_HOST"); err != nil {
		return nil, err
	}
	cfg.Postgres.Port = getEnvOrDefault("DB_PORT", "5432")
	if cfg.Postgres.User, err = requireEnv("DB_USER"); err != nil {
		return nil, err
	}
	if cfg.Postgres.Password, err = requireEnv("DB_PASSWORD"); err != nil {
		return nil, err
	}
	if cfg.Postgres.DBName, err = requireEnv("DB_NAME"); err != nil {
		return nil, err
	}
	cfg.Postgres.SSLMode = getEnvOrDefault("DB_SSLMODE", "disable")
	cfg.Postgres.MigrationsPath = getEnvOrDefault("MIGRATIONS_PATH", "migrations")

	cfg.SMTP.Host = getEnvOrDefault("MAIL_HOST", "smtp.gmail.com")
	cfg.SMTP.Port = getIntEnv("MAIL_PORT", 587)
	cfg.SMTP.Username = os.Getenv("MAIL_USERNAME")
	cfg.SMTP.Password = os.Getenv("MAIL_PASSWORD")
	cfg.SMTP.From = getEnvOrDefault("MAIL_FROM", cfg.SMTP.Username)

	return cfg, nil
}

func requireEnv(key string) (string, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return value, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}
