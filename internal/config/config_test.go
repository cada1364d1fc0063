package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8610 {
		t.Errorf("port = %d, want 8610", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8611 {
		t.Errorf("metrics port = %d, want 8611", cfg.Server.MetricsPort)
	}
	if cfg.Events.URL != "nats://localhost:4222" {
		t.Errorf("events url = %s", cfg.Events.URL)
	}
	if cfg.TickInterval() != 5*time.Second {
		t.Errorf("tick interval = %v, want 5s", cfg.TickInterval())
	}
	if cfg.RunDeadline() != 2*time.Minute {
		t.Errorf("run deadline = %v, want 2m", cfg.RunDeadline())
	}
	if cfg.GeoTimeout() != 2*time.Second {
		t.Errorf("geo timeout = %v, want 2s", cfg.GeoTimeout())
	}
	if cfg.Scoring.Weights.CapacityEfficiency != 30 || cfg.Scoring.Weights.RequirementMatch != 25 {
		t.Errorf("unexpected default weights: %+v", cfg.Scoring.Weights)
	}

	opts := cfg.DefaultEngineOptions()
	if !opts.RespectSpecialRequirements || !opts.OptimizeRoutes || !opts.MinimizeCost {
		t.Errorf("unexpected default engine options: %+v", opts)
	}
	if opts.MaximizeComfort {
		t.Error("maximize comfort should default off")
	}
	if opts.StrictValidation {
		t.Error("strict validation should default off")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  port: 9000
  admin_token: secret
database:
  url: postgres://localhost/convoy
engine:
  maximize_comfort: true
  max_travel_time: 45
scoring:
  weights:
    capacity_efficiency: 40
    cost: 20
    comfort: 20
    requirement_match: 20
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Server.AdminToken != "secret" {
		t.Errorf("admin token = %q", cfg.Server.AdminToken)
	}
	if cfg.Database.URL != "postgres://localhost/convoy" {
		t.Errorf("database url = %q", cfg.Database.URL)
	}
	if cfg.Server.MetricsPort != 8611 {
		t.Errorf("unset fields should keep defaults, metrics port = %d", cfg.Server.MetricsPort)
	}
	if cfg.Scoring.Weights.CapacityEfficiency != 40 {
		t.Errorf("capacity weight = %v, want 40", cfg.Scoring.Weights.CapacityEfficiency)
	}

	opts := cfg.DefaultEngineOptions()
	if !opts.MaximizeComfort {
		t.Error("maximize comfort should be on from file")
	}
	if opts.MaxTravelTime != 45 {
		t.Errorf("max travel time = %d, want 45", opts.MaxTravelTime)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CONVOY_PORT", "7000")
	t.Setenv("CONVOY_ADMIN_TOKEN", "env-token")
	t.Setenv("CONVOY_DATABASE_URL", "postgres://db/convoy")
	t.Setenv("CONVOY_EVENTS_URL", "nats://bus:4222")
	t.Setenv("CONVOY_TICK_INTERVAL_MS", "250")
	t.Setenv("CONVOY_STRICT_VALIDATION", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 7000 {
		t.Errorf("port = %d, want 7000", cfg.Server.Port)
	}
	if cfg.Server.AdminToken != "env-token" {
		t.Errorf("admin token = %q", cfg.Server.AdminToken)
	}
	if cfg.Database.URL != "postgres://db/convoy" {
		t.Errorf("database url = %q", cfg.Database.URL)
	}
	if cfg.Events.URL != "nats://bus:4222" {
		t.Errorf("events url = %q", cfg.Events.URL)
	}
	if cfg.TickInterval() != 250*time.Millisecond {
		t.Errorf("tick interval = %v, want 250ms", cfg.TickInterval())
	}
	if !cfg.Engine.StrictValidation {
		t.Error("strict validation should be on from env")
	}
}

func TestEnvIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("CONVOY_PORT", "not-a-number")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Port != 8610 {
		t.Errorf("malformed env override should keep default, got %d", cfg.Server.Port)
	}
}
