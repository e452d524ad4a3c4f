package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Periods != 252 {
		t.Errorf("Periods = %d, want 252", cfg.Periods)
	}
	if cfg.Seed != 0 {
		t.Errorf("Seed = %d, want 0", cfg.Seed)
	}
	if cfg.Instruments != 12 {
		t.Errorf("Instruments = %d, want 12", cfg.Instruments)
	}
	if cfg.Traders != 100 {
		t.Errorf("Traders = %d, want 100", cfg.Traders)
	}
	if cfg.InitialCash != 10000 {
		t.Errorf("InitialCash = %v, want 10000", cfg.InitialCash)
	}
	if cfg.UniverseFile != "" || cfg.HumanTrader != "" {
		t.Errorf("optional fields not empty: %q, %q", cfg.UniverseFile, cfg.HumanTrader)
	}
	if cfg.Serve {
		t.Error("Serve = true, want false")
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PERIODS", "30")
	t.Setenv("SEED", "1234567890123")
	t.Setenv("TRADERS", "7")
	t.Setenv("INITIAL_CASH", "2500.50")
	t.Setenv("UNIVERSE_FILE", "/tmp/universe.yaml")
	t.Setenv("HUMAN_TRADER", "trader-001")
	t.Setenv("SERVE", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Periods != 30 || cfg.Seed != 1234567890123 || cfg.Traders != 7 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.InitialCash != 2500.50 {
		t.Errorf("InitialCash = %v, want 2500.50", cfg.InitialCash)
	}
	if cfg.UniverseFile != "/tmp/universe.yaml" || cfg.HumanTrader != "trader-001" {
		t.Errorf("string overrides not applied: %+v", cfg)
	}
	if !cfg.Serve || cfg.LogLevel != "debug" {
		t.Errorf("Serve/LogLevel overrides not applied: %+v", cfg)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := []struct {
		key, value string
	}{
		{"PERIODS", "abc"},
		{"PERIODS", "0"},
		{"PERIODS", "-3"},
		{"SEED", "not-a-number"},
		{"INSTRUMENTS", "x"},
		{"TRADERS", "1.5"},
		{"INITIAL_CASH", "-100"},
		{"INITIAL_CASH", "lots"},
		{"SERVE", "maybe"},
		{"PORT", "eighty"},
		{"LOG_LEVEL", "verbose"},
	}
	for _, tc := range cases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%q", tc.key, tc.value)
			}
		})
	}
}
