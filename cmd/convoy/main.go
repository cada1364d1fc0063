package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Eventra-Labs/Convoy/internal/api"
	"github.com/Eventra-Labs/Convoy/internal/config"
	"github.com/Eventra-Labs/Convoy/internal/engine"
	"github.com/Eventra-Labs/Convoy/internal/events"
	"github.com/Eventra-Labs/Convoy/internal/geo"
	"github.com/Eventra-Labs/Convoy/internal/planner"
	"github.com/Eventra-Labs/Convoy/internal/scoring"
	"github.com/Eventra-Labs/Convoy/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Store: postgres when configured, in-memory otherwise
	var db store.Store
	if cfg.Database.URL != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.Database.URL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		db = pg
		logger.Info("connected to database")
	} else {
		db = store.NewMemory()
		logger.Warn("no database configured, using in-memory store")
	}
	defer db.Close()

	// Event bus (optional)
	var bus events.Client
	if cfg.Events.URL != "" {
		nc, err := events.NewNATSClient(ctx, cfg.Events.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to event bus, running without events", "error", err)
		} else {
			bus = nc
			defer nc.Close()
			logger.Info("connected to event bus")
		}
	}

	// Route estimator: external travel-time service when configured
	var est engine.Estimator
	if cfg.Geo.URL != "" {
		est = geo.NewClient(cfg.Geo.URL, cfg.GeoTimeout())
		logger.Info("using geo estimator", "url", cfg.Geo.URL)
	}

	weights := scoring.Weights{
		CapacityEfficiency: cfg.Scoring.Weights.CapacityEfficiency,
		Cost:               cfg.Scoring.Weights.Cost,
		Comfort:            cfg.Scoring.Weights.Comfort,
		RequirementMatch:   cfg.Scoring.Weights.RequirementMatch,
	}
	if err := weights.Validate(); err != nil {
		logger.Error("invalid scoring weights", "error", err)
		os.Exit(1)
	}

	eng := engine.New(est, nil, &weights, logger)

	// Planner
	p := planner.New(db, bus, eng, cfg, logger)
	p.Start(ctx)
	defer p.Stop()
	logger.Info("planner started", "tick_interval", cfg.TickInterval())

	p.SetupSubscriptions()

	// API server
	router := api.NewRouter(db, bus, p, cfg, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}
