package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Eventra-Labs/Convoy/internal/config"
	"github.com/Eventra-Labs/Convoy/internal/events"
	"github.com/Eventra-Labs/Convoy/internal/metrics"
	"github.com/Eventra-Labs/Convoy/internal/planner"
	"github.com/Eventra-Labs/Convoy/internal/store"
)

func NewRouter(s store.Store, bus events.Client, p *planner.Planner, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(120))

	plans := NewPlansHandler(s, bus, cfg)
	explain := NewExplainHandler(s)
	admin := NewAdminHandler(s, p)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ClientIDMiddleware)

		r.Put("/events/{eventID}/roster", plans.SaveRoster)
		r.Post("/events/{eventID}/plans", plans.CreatePlan)
		r.Get("/events/{eventID}/plans", plans.ListPlans)
		r.Get("/plans/{planID}", plans.GetPlan)
		r.Get("/plans/{planID}/groups", plans.GetGroups)
		r.Get("/plans/{planID}/groups/{groupID}/explain", explain.Explain)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.Server.AdminToken))
			r.Get("/stats", admin.Stats)
			r.Post("/vehicles/{vehicleID}/withhold", admin.Withhold)
			r.Delete("/vehicles/{vehicleID}/withhold", admin.Release)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	metrics.RegisterDefault()
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	return r
}
