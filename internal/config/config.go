package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr string

	DatabaseURL   string
	DBDriver      string
	CatalogSource string

	JWTSecret string

	StripeSecretKey     string
	StripeWebhookSecret string
	Currency            string
	TaxRate             decimal.Decimal
	ShippingFeeCents    int64

	RedisAddr        string
	LoginMaxAttempts int
	LoginLockout     time.Duration

	KafkaBrokers     []string
	OrderEventsTopic string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:                getEnv("STORE_ADDR", ":8080"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		DBDriver:            getEnv("DB_DRIVER", "pgx"),
		CatalogSource:       getEnv("CATALOG_SOURCE", "postgres"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		Currency:            strings.ToLower(getEnv("STORE_CURRENCY", "cad")),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		OrderEventsTopic:    getEnv("ORDER_EVENTS_TOPIC", "orders.paid"),
	}

	if cfg.DBDriver != "pgx" && cfg.DBDriver != "postgres" {
		return Config{}, fmt.Errorf("DB_DRIVER must be pgx or postgres, got %q", cfg.DBDriver)
	}
	if cfg.CatalogSource != "postgres" && cfg.CatalogSource != "memory" {
		return Config{}, fmt.Errorf("CATALOG_SOURCE must be postgres or memory, got %q", cfg.CatalogSource)
	}

	rate, err := decimal.NewFromString(getEnv("TAX_RATE", "0.05"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid TAX_RATE: %w", err)
	}
	if rate.IsNegative() {
		return Config{}, fmt.Errorf("TAX_RATE must not be negative")
	}
	cfg.TaxRate = rate

	fee, err := strconv.ParseInt(getEnv("SHIPPING_FEE_CENTS", "1000"), 10, 64)
	if err != nil || fee < 0 {
		return Config{}, fmt.Errorf("invalid SHIPPING_FEE_CENTS %q", os.Getenv("SHIPPING_FEE_CENTS"))
	}
	cfg.ShippingFeeCents = fee

	attempts, err := strconv.Atoi(getEnv("LOGIN_MAX_ATTEMPTS", "5"))
	if err != nil || attempts <= 0 {
		return Config{}, fmt.Errorf("invalid LOGIN_MAX_ATTEMPTS %q", os.Getenv("LOGIN_MAX_ATTEMPTS"))
	}
	cfg.LoginMaxAttempts = attempts

	lockout, err := time.ParseDuration(getEnv("LOGIN_LOCKOUT", "30m"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid LOGIN_LOCKOUT: %w", err)
	}
	cfg.LoginLockout = lockout

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
