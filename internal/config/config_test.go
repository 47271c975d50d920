package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.AppEnv != EnvDev {
		t.Fatalf("AppEnv = %q, want %q", cfg.AppEnv, EnvDev)
	}
	if cfg.ServiceName != "rotaplan-api" {
		t.Fatalf("ServiceName = %q", cfg.ServiceName)
	}
	if cfg.StorageDriver != StorageMemory {
		t.Fatalf("StorageDriver = %q, want %q", cfg.StorageDriver, StorageMemory)
	}
	if !cfg.CacheEnabled || cfg.CacheTTL != 60*time.Second {
		t.Fatalf("cache defaults = (%v, %v)", cfg.CacheEnabled, cfg.CacheTTL)
	}
	if cfg.PlanWorkerCount != 4 {
		t.Fatalf("PlanWorkerCount = %d", cfg.PlanWorkerCount)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.TimekeeperEnabled || cfg.NotifyEnabled {
		t.Fatalf("external integrations should be off by default")
	}
	if !cfg.TimekeeperCircuitEnabled || cfg.TimekeeperCircuitFailures != 5 {
		t.Fatalf("timekeeper circuit defaults = (%v, %d)", cfg.TimekeeperCircuitEnabled, cfg.TimekeeperCircuitFailures)
	}
}

func TestLoadInvalidAppEnv(t *testing.T) {
	t.Setenv("APP_ENV", "sandbox")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid APP_ENV")
	}
}

func TestLoadInvalidStorageDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "dynamo")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "STORAGE_DRIVER") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadTimekeeperRequiresBaseURL(t *testing.T) {
	t.Setenv("TIMEKEEPER_ENABLED", "true")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "TIMEKEEPER_BASE_URL") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadNotifyRequiresWebhookURL(t *testing.T) {
	t.Setenv("NOTIFY_ENABLED", "true")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "NOTIFY_WEBHOOK_URL") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadRejectsBadDurations(t *testing.T) {
	t.Setenv("CACHE_TTL", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid CACHE_TTL")
	}
}

func TestLoadRejectsNonPositiveWorkerCount(t *testing.T) {
	t.Setenv("PLAN_WORKER_COUNT", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for PLAN_WORKER_COUNT=0")
	}
}

func TestLoadCircuitOverrides(t *testing.T) {
	t.Setenv("NOTIFY_CIRCUIT_ENABLED", "false")
	t.Setenv("NOTIFY_CIRCUIT_FAILURE_COUNT", "9")
	t.Setenv("NOTIFY_CIRCUIT_OPEN_TIMEOUT", "42s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NotifyCircuitEnabled {
		t.Fatal("NotifyCircuitEnabled = true, want false")
	}
	if cfg.NotifyCircuitFailures != 9 || cfg.NotifyCircuitOpenTimeout != 42*time.Second {
		t.Fatalf("circuit overrides = (%d, %v)", cfg.NotifyCircuitFailures, cfg.NotifyCircuitOpenTimeout)
	}
}
