package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr        = ":5000"
	defaultDatabaseURL     = "oficina.db"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultJWTTTL          = "1h"
	defaultJWTIssuer       = "oficina-api"
	defaultJWTAudience     = "oficina-client"
	defaultResetTokenTTL   = "10m"
	defaultFrontendURL     = "http://localhost:3000"
	defaultSMTPPort        = "587"
	defaultCatalogCacheTTL = "60s"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	DatabaseURL string

	JWTSecret     string
	JWTTTL        time.Duration
	JWTIssuer     string
	JWTAudience   string
	ResetTokenTTL time.Duration
	FrontendURL   string

	SMTP     SMTPConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig

	CORSAllowedOrigins []string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func (c SMTPConfig) Enabled() bool { return c.Host != "" }

type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	CatalogCacheTTL time.Duration
}

func (c RedisConfig) Enabled() bool { return c.Addr != "" }

type RabbitMQConfig struct {
	URL   string
	Queue string
}

func (c RabbitMQConfig) Enabled() bool { return c.URL != "" }

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = httpAddr()
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.JWTIssuer = strings.TrimSpace(getEnv("JWT_ISSUER", defaultJWTIssuer))
	cfg.JWTAudience = strings.TrimSpace(getEnv("JWT_AUDIENCE", defaultJWTAudience))
	cfg.FrontendURL = strings.TrimRight(strings.TrimSpace(getEnv("FRONTEND_URL", defaultFrontendURL)), "/")

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}
	cfg.ResetTokenTTL, err = parseDurationEnv("RESET_TOKEN_TTL", defaultResetTokenTTL)
	if err != nil {
		return nil, err
	}

	smtpPort, err := parseIntEnv("SMTP_PORT", defaultSMTPPort)
	if err != nil {
		return nil, err
	}
	cfg.SMTP = SMTPConfig{
		Host:     strings.TrimSpace(os.Getenv("SMTP_HOST")),
		Port:     smtpPort,
		User:     strings.TrimSpace(getEnv("SMTP_USER", os.Getenv("EMAIL_USER"))),
		Password: getEnv("SMTP_PASSWORD", os.Getenv("EMAIL_PASS")),
	}
	cfg.SMTP.From = strings.TrimSpace(getEnv("SMTP_FROM", cfg.SMTP.User))

	redisDB, err := parseIntEnv("REDIS_DB", "0")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDurationEnv("CATALOG_CACHE_TTL", defaultCatalogCacheTTL)
	if err != nil {
		return nil, err
	}
	cfg.Redis = RedisConfig{
		Addr:            strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		Password:        os.Getenv("REDIS_PASSWORD"),
		DB:              redisDB,
		CatalogCacheTTL: cacheTTL,
	}

	cfg.RabbitMQ = RabbitMQConfig{
		URL:   strings.TrimSpace(os.Getenv("RABBITMQ_URL")),
		Queue: strings.TrimSpace(getEnv("RABBITMQ_QUEUE", "booking.status")),
	}

	for _, o := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether the environment is prod-like.
func (c *Config) IsProduction() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.ResetTokenTTL <= 0 {
		return fmt.Errorf("RESET_TOKEN_TTL must be > 0")
	}
	if cfg.Redis.CatalogCacheTTL <= 0 {
		return fmt.Errorf("CATALOG_CACHE_TTL must be > 0")
	}
	if cfg.JWTIssuer == "" || cfg.JWTAudience == "" {
		return fmt.Errorf("JWT_ISSUER and JWT_AUDIENCE must not be empty")
	}
	if cfg.SMTP.Enabled() && cfg.SMTP.From == "" {
		return fmt.Errorf("SMTP_FROM must be set when SMTP_HOST is set")
	}

	if isProdLike(cfg.AppEnv) && isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func httpAddr() string {
	if v := strings.TrimSpace(os.Getenv("HTTP_ADDR")); v != "" {
		return v
	}
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		return ":" + port
	}
	return defaultHTTPAddr
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

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
