package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	defaultJWTExpires        = "60m"
	defaultJWTRefreshExpires = "168h"
	defaultJWTSecret         = "change-me-jwt-secret"
	defaultJWTRefreshSecret  = "change-me-jwt-refresh-secret"
	defaultBcryptCost        = "10"
	defaultUploadImagePath   = "uploads/profiles"
	defaultActivationPath    = "http://localhost:8080/api/v1/auth/:id/activate?activationToken=:activationToken"
)

// Config is the immutable runtime configuration, built once at startup and
// passed to every component that needs it.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	JWTSecret         string
	JWTExpires        time.Duration
	JWTRefreshSecret  string
	JWTRefreshExpires time.Duration
	BcryptCost        int

	ProfileUploadImagePath string
	APIActivationPath      string

	MailHost           string
	MailPort           string
	MailUser           string
	MailPassword       string
	MailFrom           string
	MailSendWelcome    bool
	MailSendActivation bool

	// RedisAddr selects the Redis-backed token blacklist when set; empty
	// keeps the database-backed one.
	RedisAddr string
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = getEnv("API_PORT", "8080")
	cfg.DatabaseURL = getEnv("DATABASE_URL", "userhub.db")

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.JWTRefreshSecret = strings.TrimSpace(getEnv("JWT_SECRET_REFRESH", defaultJWTRefreshSecret))

	var err error
	cfg.JWTExpires, err = parseDurationEnv("JWT_SECRET_EXPIRES", defaultJWTExpires)
	if err != nil {
		return nil, err
	}
	cfg.JWTRefreshExpires, err = parseDurationEnv("JWT_SECRET_REFRESH_EXPIRES", defaultJWTRefreshExpires)
	if err != nil {
		return nil, err
	}

	cfg.BcryptCost, err = parseIntEnv("BCRYPT_COST", defaultBcryptCost)
	if err != nil {
		return nil, err
	}

	cfg.ProfileUploadImagePath = getEnv("PROFILE_UPLOAD_IMAGE_PATH", defaultUploadImagePath)
	cfg.APIActivationPath = getEnv("API_ACTIVATION_PATH", defaultActivationPath)

	cfg.MailHost = getEnv("MAIL_HOST", "")
	cfg.MailPort = getEnv("MAIL_PORT", "587")
	cfg.MailUser = getEnv("MAIL_USER", "")
	cfg.MailPassword = getEnv("MAIL_PASSWORD", "")
	cfg.MailFrom = getEnv("MAIL_FROM", "noreply@localhost")
	cfg.MailSendWelcome = parseBoolEnv("MAIL_SEND_WELCOME", "true")
	cfg.MailSendActivation = parseBoolEnv("MAIL_SEND_ACTIVATION", "true")

	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("config loaded: env=%s port=%s access_ttl=%s refresh_ttl=%s blacklist=%s",
		cfg.AppEnv, cfg.Port, cfg.JWTExpires, cfg.JWTRefreshExpires, blacklistBackend(cfg))

	return cfg, nil
}

func blacklistBackend(cfg *Config) string {
	if cfg.RedisAddr != "" {
		return "redis"
	}
	return "database"
}

func validateConfig(cfg *Config) error {
	if cfg.JWTExpires <= 0 {
		return fmt.Errorf("JWT_SECRET_EXPIRES must be > 0")
	}
	if cfg.JWTRefreshExpires <= 0 {
		return fmt.Errorf("JWT_SECRET_REFRESH_EXPIRES must be > 0")
	}
	if cfg.BcryptCost < bcrypt.DefaultCost || cfg.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.DefaultCost, bcrypt.MaxCost)
	}
	if cfg.JWTSecret == cfg.JWTRefreshSecret {
		return fmt.Errorf("JWT_SECRET and JWT_SECRET_REFRESH must differ")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.JWTRefreshSecret, defaultJWTRefreshSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET_REFRESH must be set and not default")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
