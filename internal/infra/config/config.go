package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"staymarket/internal/domain/pricing"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env                string
	HTTPAddr           string
	StorageMode        string
	MongoURI           string
	MongoDB            string
	KafkaBrokers       []string
	KafkaTopicPrefix   string
	IdempotencyTTL     time.Duration
	OutboxPollInterval time.Duration
	RetryBackoff       []time.Duration
	Fees               pricing.FeeConfig
	DefaultCurrency    string
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		StorageMode:      strings.ToLower(getEnv("STORAGE_MODE", "memory")),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "staymarket"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
		DefaultCurrency:  getEnv("DEFAULT_CURRENCY", "USD"),
	}
	brokers := getEnv("KAFKA_BROKERS", "")
	if brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	idempotencyTTL, err := parseDurationEnv("IDEMP_TTL", 168*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.IdempotencyTTL = idempotencyTTL

	poll, err := parseDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	cfg.OutboxPollInterval = poll

	retryStr := getEnv("RETRY_BACKOFF", "1s,5s,30s")
	for _, raw := range strings.Split(retryStr, ",") {
		val := strings.TrimSpace(raw)
		if val == "" {
			continue
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RETRY_BACKOFF component %q: %w", raw, err)
		}
		cfg.RetryBackoff = append(cfg.RetryBackoff, d)
	}

	fees, err := loadFees()
	if err != nil {
		return Config{}, err
	}
	cfg.Fees = fees

	switch cfg.StorageMode {
	case "memory":
	case "mongo":
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required when STORAGE_MODE=mongo")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_MODE %q", cfg.StorageMode)
	}
	return cfg, nil
}

// loadFees reads the platform fee knobs. Defaults follow the marketplace
// standard rates: 10% service fee, 5% cleaning fee, 8% tax.
func loadFees() (pricing.FeeConfig, error) {
	servicePct, err := parseDecimalEnv("SERVICE_FEE_PERCENT", "10")
	if err != nil {
		return pricing.FeeConfig{}, err
	}
	cleaningPct, err := parseDecimalEnv("CLEANING_FEE_PERCENT", "5")
	if err != nil {
		return pricing.FeeConfig{}, err
	}
	taxRate, err := parseDecimalEnv("TAX_RATE", "0.08")
	if err != nil {
		return pricing.FeeConfig{}, err
	}
	fees := pricing.FeeConfig{
		ServiceFeePercent:  servicePct,
		CleaningFeePercent: cleaningPct,
		TaxRate:            taxRate,
	}
	if raw := os.Getenv("SERVICE_FEE_MIN"); raw != "" {
		min, err := decimal.NewFromString(raw)
		if err != nil {
			return pricing.FeeConfig{}, fmt.Errorf("invalid SERVICE_FEE_MIN: %w", err)
		}
		fees.ServiceFeeMinimum = &min
	}
	if raw := os.Getenv("SERVICE_FEE_MAX"); raw != "" {
		max, err := decimal.NewFromString(raw)
		if err != nil {
			return pricing.FeeConfig{}, fmt.Errorf("invalid SERVICE_FEE_MAX: %w", err)
		}
		fees.ServiceFeeMaximum = &max
	}
	if err := fees.Validate(); err != nil {
		return pricing.FeeConfig{}, fmt.Errorf("invalid fee configuration: %w", err)
	}
	return fees, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseDecimalEnv(key, def string) (decimal.Decimal, error) {
	raw := os.Getenv(key)
	if raw == "" {
		raw = def
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return d, nil
}
