package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Eventra-Labs/Convoy/internal/model"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Events   EventsConfig   `yaml:"events"`
	Geo      GeoConfig      `yaml:"geo"`
	Planner  PlannerConfig  `yaml:"planner"`
	Engine   EngineConfig   `yaml:"engine"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type EventsConfig struct {
	URL string `yaml:"url"`
}

type GeoConfig struct {
	URL       string `yaml:"url"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type PlannerConfig struct {
	TickIntervalMs int `yaml:"tick_interval_ms"`
	RunDeadlineMs  int `yaml:"run_deadline_ms"`
}

// EngineConfig carries the default objective knobs applied to plan
// requests that do not specify their own.
type EngineConfig struct {
	PrioritizeCapacity         bool `yaml:"prioritize_capacity"`
	MinimizeVehicles           bool `yaml:"minimize_vehicles"`
	RespectSpecialRequirements bool `yaml:"respect_special_requirements"`
	OptimizeRoutes             bool `yaml:"optimize_routes"`
	MaxTravelTime              int  `yaml:"max_travel_time"`
	AllowPartialFilling        bool `yaml:"allow_partial_filling"`
	PrioritizeGroupPreferences bool `yaml:"prioritize_group_preferences"`
	MinimizeCost               bool `yaml:"minimize_cost"`
	MaximizeComfort            bool `yaml:"maximize_comfort"`
	StrictValidation           bool `yaml:"strict_validation"`
}

type ScoringConfig struct {
	Weights ScoringWeights `yaml:"weights"`
}

type ScoringWeights struct {
	CapacityEfficiency float64 `yaml:"capacity_efficiency"`
	Cost               float64 `yaml:"cost"`
	Comfort            float64 `yaml:"comfort"`
	RequirementMatch   float64 `yaml:"requirement_match"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Planner.TickIntervalMs) * time.Millisecond
}

func (c *Config) RunDeadline() time.Duration {
	return time.Duration(c.Planner.RunDeadlineMs) * time.Millisecond
}

func (c *Config) GeoTimeout() time.Duration {
	return time.Duration(c.Geo.TimeoutMs) * time.Millisecond
}

// DefaultEngineOptions converts the engine section into model.Options.
func (c *Config) DefaultEngineOptions() model.Options {
	e := c.Engine
	return model.Options{
		PrioritizeCapacity:         e.PrioritizeCapacity,
		MinimizeVehicles:           e.MinimizeVehicles,
		RespectSpecialRequirements: e.RespectSpecialRequirements,
		OptimizeRoutes:             e.OptimizeRoutes,
		MaxTravelTime:              e.MaxTravelTime,
		AllowPartialFilling:        e.AllowPartialFilling,
		PrioritizeGroupPreferences: e.PrioritizeGroupPreferences,
		MinimizeCost:               e.MinimizeCost,
		MaximizeComfort:            e.MaximizeComfort,
		StrictValidation:           e.StrictValidation,
	}
}

func Load(path string) (*Config, error) {
	defaults := model.DefaultOptions()
	cfg := &Config{
		Server: ServerConfig{
			Port:        8610,
			MetricsPort: 8611,
		},
		Events: EventsConfig{
			URL: "nats://localhost:4222",
		},
		Geo: GeoConfig{
			TimeoutMs: 2000,
		},
		Planner: PlannerConfig{
			TickIntervalMs: 5000,
			RunDeadlineMs:  120000,
		},
		Engine: EngineConfig{
			PrioritizeCapacity:         defaults.PrioritizeCapacity,
			MinimizeVehicles:           defaults.MinimizeVehicles,
			RespectSpecialRequirements: defaults.RespectSpecialRequirements,
			OptimizeRoutes:             defaults.OptimizeRoutes,
			AllowPartialFilling:        defaults.AllowPartialFilling,
			PrioritizeGroupPreferences: defaults.PrioritizeGroupPreferences,
			MinimizeCost:               defaults.MinimizeCost,
			MaximizeComfort:            defaults.MaximizeComfort,
		},
		Scoring: ScoringConfig{
			Weights: ScoringWeights{
				CapacityEfficiency: 30,
				Cost:               25,
				Comfort:            20,
				RequirementMatch:   25,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CONVOY_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("CONVOY_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("CONVOY_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("CONVOY_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("CONVOY_EVENTS_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("CONVOY_GEO_URL"); v != "" {
		cfg.Geo.URL = v
	}
	if v := os.Getenv("CONVOY_TICK_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Planner.TickIntervalMs = n
		}
	}
	if v := os.Getenv("CONVOY_RUN_DEADLINE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Planner.RunDeadlineMs = n
		}
	}
	if v := os.Getenv("CONVOY_STRICT_VALIDATION"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Engine.StrictValidation = b
		}
	}
	if v := os.Getenv("CONVOY_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
