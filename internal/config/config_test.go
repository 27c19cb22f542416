// File path: internal/config/config_test.go
package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Addr != ":8090" {
		t.Fatalf("expected default addr :8090, got %q", cfg.Addr)
	}
	if cfg.GeneratorTimeout != 60*time.Second {
		t.Fatalf("expected default generator timeout 60s, got %s", cfg.GeneratorTimeout)
	}
	if cfg.Ledger.Enabled() {
		t.Fatal("ledger should be disabled without an endpoint")
	}
	if cfg.Ledger.Timeout != 10*time.Second {
		t.Fatalf("expected default ledger timeout 10s, got %s", cfg.Ledger.Timeout)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LIVEFORGE_ADDR", ":9000")
	t.Setenv("LIVEFORGE_LEDGER_ENDPOINT", "http://localhost:8899")
	t.Setenv("LIVEFORGE_LEDGER_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Addr != ":9000" {
		t.Fatalf("expected addr :9000, got %q", cfg.Addr)
	}
	if !cfg.Ledger.Enabled() {
		t.Fatal("expected ledger to be enabled")
	}
	if cfg.Ledger.Timeout != 3*time.Second {
		t.Fatalf("expected ledger timeout 3s, got %s", cfg.Ledger.Timeout)
	}
}
