package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORE", "FEED_MODE", "KAFKA_BROKERS", "TOKEN_TTL", "ANALYTICS_REFRESH", "TIMEZONE"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Port)
	}
	if cfg.Store != StoreMongo {
		t.Errorf("Store = %q, want %q", cfg.Store, StoreMongo)
	}
	if cfg.FeedMode != FeedLocal {
		t.Errorf("FeedMode = %q, want %q", cfg.FeedMode, FeedLocal)
	}
	if cfg.KafkaBrokers != nil {
		t.Errorf("KafkaBrokers = %v, want nil", cfg.KafkaBrokers)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %s", cfg.TokenTTL)
	}
	if cfg.AnalyticsRefresh != 15*time.Second {
		t.Errorf("AnalyticsRefresh = %s", cfg.AnalyticsRefresh)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("STORE", "memory")
	t.Setenv("KAFKA_BROKERS", "k1:9092, ,k2:9092")
	t.Setenv("TOKEN_TTL", "90")
	t.Setenv("ANALYTICS_REFRESH", "bogus")
	t.Setenv("TIMEZONE", "UTC")

	cfg := Load()
	if cfg.Port != "9100" || cfg.Store != StoreMemory {
		t.Errorf("got port=%q store=%q", cfg.Port, cfg.Store)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Errorf("KafkaBrokers = %v", cfg.KafkaBrokers)
	}
	if cfg.TokenTTL != 90*time.Second {
		t.Errorf("TokenTTL = %s, want 90s", cfg.TokenTTL)
	}
	if cfg.AnalyticsRefresh != 15*time.Second {
		t.Errorf("AnalyticsRefresh = %s, want default", cfg.AnalyticsRefresh)
	}
	if cfg.Location.String() != "UTC" {
		t.Errorf("Location = %s", cfg.Location)
	}
}
