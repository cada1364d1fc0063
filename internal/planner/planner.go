// Package planner orchestrates optimization runs: it watches for pending
// plan requests, feeds them through the engine, persists the resulting
// groups, and publishes lifecycle events.
package planner

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/Eventra-Labs/Convoy/internal/config"
	"github.com/Eventra-Labs/Convoy/internal/engine"
	"github.com/Eventra-Labs/Convoy/internal/events"
	"github.com/Eventra-Labs/Convoy/internal/metrics"
	"github.com/Eventra-Labs/Convoy/internal/model"
	"github.com/Eventra-Labs/Convoy/internal/store"
)

type Planner struct {
	store  store.Store
	bus    events.Client
	engine *engine.Engine
	cfg    *config.Config
	logger *slog.Logger

	withheldMu sync.RWMutex
	withheld   map[string]bool // vehicle id -> excluded from future runs

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func New(s store.Store, bus events.Client, e *engine.Engine, cfg *config.Config, logger *slog.Logger) *Planner {
	return &Planner{
		store:    s,
		bus:      bus,
		engine:   e,
		cfg:      cfg,
		logger:   logger,
		withheld: make(map[string]bool),
		stopCh:   make(chan struct{}),
	}
}

func (p *Planner) Start(ctx context.Context) {
	p.wg.Add(2)
	go p.runLoop(ctx)
	go p.timeoutLoop(ctx)
}

func (p *Planner) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
	p.wg.Wait()
}

// WithholdVehicle excludes a vehicle from future runs, for fleet
// maintenance windows. It does not touch already-finalized groups.
func (p *Planner) WithholdVehicle(vehicleID string) {
	p.withheldMu.Lock()
	p.withheld[vehicleID] = true
	p.withheldMu.Unlock()
}

func (p *Planner) ReleaseVehicle(vehicleID string) {
	p.withheldMu.Lock()
	delete(p.withheld, vehicleID)
	p.withheldMu.Unlock()
}

func (p *Planner) IsWithheld(vehicleID string) bool {
	p.withheldMu.RLock()
	defer p.withheldMu.RUnlock()
	return p.withheld[vehicleID]
}

func (p *Planner) runLoop(ctx context.Context) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.cfg.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.processPending(ctx)
		}
	}
}

func (p *Planner) processPending(ctx context.Context) {
	pending, err := p.store.GetPendingPlanRequests(ctx)
	if err != nil {
		p.logger.Error("failed to get pending plan requests", "error", err)
		return
	}
	for _, req := range pending {
		if err := p.Run(ctx, req); err != nil {
			p.logger.Warn("plan run failed", "plan_id", req.ID, "error", err)
		}
	}
}

// Run executes one plan request end to end: load inputs, optimize,
// persist groups, publish events, record metrics. Engine-level
// configuration errors mark the request failed rather than propagating.
func (p *Planner) Run(ctx context.Context, req *store.PlanRequest) error {
	started := time.Now()
	req.Status = store.PlanRunning
	req.StartedAt = &started
	if err := p.store.UpdatePlanRequest(ctx, req); err != nil {
		return err
	}
	p.emit(ctx, events.PlanStartedEvent{PlanID: req.ID.String(), EventID: req.EventID})

	passengers, err := p.store.LoadCandidatePassengers(ctx, req.EventID)
	if err != nil {
		return p.fail(ctx, req, "load passengers: "+err.Error())
	}
	vehicles, err := p.store.LoadAvailableVehicles(ctx, req.EventID)
	if err != nil {
		return p.fail(ctx, req, "load vehicles: "+err.Error())
	}
	vehicles = p.excludeWithheld(vehicles)

	result, err := p.engine.Optimize(ctx, passengers, vehicles, req.Options)
	if err != nil {
		return p.fail(ctx, req, err.Error())
	}

	if err := p.store.PersistGroups(ctx, req.ID, req.EventID, result.Groups); err != nil {
		return p.fail(ctx, req, "persist groups: "+err.Error())
	}

	completed := time.Now()
	req.Status = store.PlanCompleted
	req.CompletedAt = &completed
	req.Metrics = &result.Metrics
	req.Warnings = result.Warnings
	req.Recommendations = result.Recommendations
	req.UnassignedCount = len(result.Unassigned)
	if err := p.store.UpdatePlanRequest(ctx, req); err != nil {
		return err
	}

	for _, g := range result.Groups {
		p.emit(ctx, events.GroupCreatedEvent{
			GroupID:     g.ID,
			PlanID:      req.ID.String(),
			EventID:     req.EventID,
			VehicleID:   g.VehicleID,
			Passengers:  len(g.Passengers),
			Utilization: g.Utilization,
		})
	}
	if len(result.Unassigned) > 0 {
		ids := make([]string, 0, len(result.Unassigned))
		for _, u := range result.Unassigned {
			ids = append(ids, u.GuestID)
		}
		p.emit(ctx, events.UnassignedEvent{
			PlanID: req.ID.String(), EventID: req.EventID, GuestIDs: ids,
		})
	}
	p.emit(ctx, events.PlanCompletedEvent{
		PlanID:            req.ID.String(),
		EventID:           req.EventID,
		Groups:            len(result.Groups),
		Unassigned:        len(result.Unassigned),
		OptimizationScore: result.Metrics.OptimizationScore,
		DurationMs:        time.Since(started).Milliseconds(),
	})

	metrics.PlanRuns.WithLabelValues("completed").Inc()
	metrics.PlanDuration.Observe(time.Since(started).Seconds())
	metrics.UnassignedPassengers.Add(float64(len(result.Unassigned)))
	metrics.OptimizationScore.Set(result.Metrics.OptimizationScore)

	p.logger.Info("plan completed",
		"plan_id", req.ID,
		"event_id", req.EventID,
		"groups", len(result.Groups),
		"unassigned", len(result.Unassigned),
		"score", result.Metrics.OptimizationScore,
	)
	return nil
}

func (p *Planner) fail(ctx context.Context, req *store.PlanRequest, reason string) error {
	now := time.Now()
	req.Status = store.PlanFailed
	req.Error = reason
	req.CompletedAt = &now
	if err := p.store.UpdatePlanRequest(ctx, req); err != nil {
		return err
	}
	p.emit(ctx, events.PlanFailedEvent{
		PlanID: req.ID.String(), EventID: req.EventID, Error: reason,
	})
	metrics.PlanRuns.WithLabelValues("failed").Inc()
	p.logger.Warn("plan failed", "plan_id", req.ID, "event_id", req.EventID, "reason", reason)
	return nil
}

func (p *Planner) excludeWithheld(vehicles []model.Vehicle) []model.Vehicle {
	p.withheldMu.RLock()
	defer p.withheldMu.RUnlock()
	if len(p.withheld) == 0 {
		return vehicles
	}
	out := vehicles[:0]
	for _, v := range vehicles {
		if !p.withheld[v.ID] {
			out = append(out, v)
		}
	}
	return out
}

// SetupSubscriptions registers the NATS surface: plan requests submitted
// on the bus become pending plan requests, picked up by the run loop.
func (p *Planner) SetupSubscriptions() {
	if p.bus == nil {
		return
	}
	_ = p.bus.Subscribe(events.SubjectPlanRequest, func(_ string, data []byte) {
		var evt events.PlanRequestEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			p.logger.Warn("invalid plan request event", "error", err)
			return
		}
		if evt.EventID == "" {
			p.logger.Warn("plan request event missing event id")
			return
		}
		req := &store.PlanRequest{
			EventID:     evt.EventID,
			Status:      store.PlanPending,
			Options:     p.cfg.DefaultEngineOptions(),
			RequestedBy: evt.RequestedBy,
		}
		ctx := context.Background()
		if err := p.store.CreatePlanRequest(ctx, req); err != nil {
			p.logger.Error("failed to create plan request from bus", "error", err)
			return
		}
		p.emit(ctx, events.PlanRequestedEvent{
			PlanID:      req.ID.String(),
			EventID:     req.EventID,
			RequestedBy: req.RequestedBy,
		})
		p.logger.Info("plan request created from bus", "plan_id", req.ID, "event_id", req.EventID)
	})
}

// emit publishes a lifecycle event, logging rather than failing the run
// when the bus rejects it. A nil bus is a no-op.
func (p *Planner) emit(ctx context.Context, evt events.Event) {
	if err := events.Emit(ctx, p.bus, evt); err != nil {
		p.logger.Warn("event publish failed", "subject", evt.Subject(), "error", err)
	}
}
