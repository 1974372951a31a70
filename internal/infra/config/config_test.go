package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Env != "dev" || cfg.HTTPAddr != ":8080" {
		t.Errorf("Env/HTTPAddr = %s/%s, want dev/:8080", cfg.Env, cfg.HTTPAddr)
	}
	if cfg.StorageMode != "memory" {
		t.Errorf("StorageMode = %s, want memory", cfg.StorageMode)
	}
	if cfg.IdempotencyTTL != 168*time.Hour {
		t.Errorf("IdempotencyTTL = %s, want 168h", cfg.IdempotencyTTL)
	}
	if len(cfg.RetryBackoff) != 3 || cfg.RetryBackoff[0] != time.Second {
		t.Errorf("RetryBackoff = %v, want [1s 5s 30s]", cfg.RetryBackoff)
	}
	if !cfg.Fees.ServiceFeePercent.Equal(decimal.NewFromInt(10)) {
		t.Errorf("ServiceFeePercent = %s, want 10", cfg.Fees.ServiceFeePercent)
	}
	if !cfg.Fees.TaxRate.Equal(decimal.RequireFromString("0.08")) {
		t.Errorf("TaxRate = %s, want 0.08", cfg.Fees.TaxRate)
	}
	if cfg.Fees.ServiceFeeMinimum != nil || cfg.Fees.ServiceFeeMaximum != nil {
		t.Error("service fee bounds set without env values")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("STORAGE_MODE", "mongo")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092")
	t.Setenv("SERVICE_FEE_PERCENT", "12.5")
	t.Setenv("SERVICE_FEE_MIN", "5")
	t.Setenv("SERVICE_FEE_MAX", "250")
	t.Setenv("OUTBOX_POLL_INTERVAL", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Env != "prod" || cfg.StorageMode != "mongo" {
		t.Errorf("Env/StorageMode = %s/%s, want prod/mongo", cfg.Env, cfg.StorageMode)
	}
	if len(cfg.KafkaBrokers) != 2 {
		t.Errorf("KafkaBrokers = %v, want two brokers", cfg.KafkaBrokers)
	}
	if !cfg.Fees.ServiceFeePercent.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("ServiceFeePercent = %s, want 12.5", cfg.Fees.ServiceFeePercent)
	}
	if cfg.Fees.ServiceFeeMinimum == nil || !cfg.Fees.ServiceFeeMinimum.Equal(decimal.NewFromInt(5)) {
		t.Errorf("ServiceFeeMinimum = %v, want 5", cfg.Fees.ServiceFeeMinimum)
	}
	if cfg.OutboxPollInterval != 2*time.Second {
		t.Errorf("OutboxPollInterval = %s, want 2s", cfg.OutboxPollInterval)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("mongo without uri", func(t *testing.T) {
		t.Setenv("STORAGE_MODE", "mongo")
		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want missing MONGO_URI error")
		}
	})

	t.Run("unknown storage mode", func(t *testing.T) {
		t.Setenv("STORAGE_MODE", "postgres")
		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want unknown mode error")
		}
	})

	t.Run("invalid fee percent", func(t *testing.T) {
		t.Setenv("SERVICE_FEE_PERCENT", "150")
		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want fee validation error")
		}
	})

	t.Run("inverted service fee bounds", func(t *testing.T) {
		t.Setenv("SERVICE_FEE_MIN", "100")
		t.Setenv("SERVICE_FEE_MAX", "10")
		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want bounds error")
		}
	})

	t.Run("invalid retry backoff", func(t *testing.T) {
		t.Setenv("RETRY_BACKOFF", "1s,soon")
		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want duration parse error")
		}
	})
}
