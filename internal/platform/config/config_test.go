package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PETS_TICK_INTERVAL", "PETS_NUISANCE_MOOD", "PETS_EXIT_COUNTDOWN",
		"PETS_LOG_FILE", "PETS_JOURNAL_PATH", "PETS_STATUS_ADDR",
	} {
		t.Setenv(k, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.TickInterval != 7500*time.Millisecond {
		t.Fatalf("TickInterval: expected 7.5s got %s", cfg.TickInterval)
	}
	if cfg.NuisanceMood != 25 {
		t.Fatalf("NuisanceMood: expected 25 got %g", cfg.NuisanceMood)
	}
	if cfg.ExitCountdown != 3 {
		t.Fatalf("ExitCountdown: expected 3 got %d", cfg.ExitCountdown)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadMatchesDefaultWithEmptyEnv(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected %+v got %+v", Default(), cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PETS_TICK_INTERVAL", "2s")
	t.Setenv("PETS_NUISANCE_MOOD", "20")
	t.Setenv("PETS_JOURNAL_PATH", "/tmp/pets.db")
	t.Setenv("PETS_STATUS_ADDR", "127.0.0.1:8089")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TickInterval != 2*time.Second {
		t.Errorf("TickInterval: expected 2s got %s", cfg.TickInterval)
	}
	if cfg.NuisanceMood != 20 {
		t.Errorf("NuisanceMood: expected 20 got %g", cfg.NuisanceMood)
	}
	if cfg.JournalPath != "/tmp/pets.db" {
		t.Errorf("JournalPath: got %q", cfg.JournalPath)
	}
	if cfg.StatusAddr != "127.0.0.1:8089" {
		t.Errorf("StatusAddr: got %q", cfg.StatusAddr)
	}
}

func TestLoadRejectsBadInterval(t *testing.T) {
	clearEnv(t)
	t.Setenv("PETS_TICK_INTERVAL", "0s")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero tick interval")
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Config{TickInterval: -1, NuisanceMood: -1, ExitCountdown: -1}
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok || len(joined.Unwrap()) != 3 {
		t.Fatalf("expected 3 joined errors, got %v", err)
	}
}
