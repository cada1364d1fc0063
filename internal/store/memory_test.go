package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Eventra-Labs/Convoy/internal/model"
)

func TestMemoryRosterRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	passengers := []model.Passenger{
		{GuestID: "a", Name: "A", Pickup: "hotel", Dropoff: "venue", Priority: 5},
	}
	vehicles := []model.Vehicle{
		{ID: "v1", Name: "Van 1", Type: model.TypeVan, Capacity: 6, Operational: true},
	}

	if err := m.SaveRoster(ctx, "evt-1", passengers, vehicles); err != nil {
		t.Fatalf("save roster: %v", err)
	}

	gotP, err := m.LoadCandidatePassengers(ctx, "evt-1")
	if err != nil {
		t.Fatalf("load passengers: %v", err)
	}
	if len(gotP) != 1 || gotP[0].GuestID != "a" {
		t.Errorf("passengers = %+v", gotP)
	}

	gotV, err := m.LoadAvailableVehicles(ctx, "evt-1")
	if err != nil {
		t.Fatalf("load vehicles: %v", err)
	}
	if len(gotV) != 1 || gotV[0].ID != "v1" {
		t.Errorf("vehicles = %+v", gotV)
	}

	// Unknown event yields empty, not an error.
	gotP, err = m.LoadCandidatePassengers(ctx, "missing")
	if err != nil || len(gotP) != 0 {
		t.Errorf("missing event: %v %v", gotP, err)
	}
}

func TestMemoryPlanLifecycle(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	req := &PlanRequest{EventID: "evt-1", Status: PlanPending, RequestedBy: "client-1"}
	if err := m.CreatePlanRequest(ctx, req); err != nil {
		t.Fatalf("create: %v", err)
	}
	if req.ID == uuid.Nil {
		t.Fatal("create should assign an id")
	}
	if req.CreatedAt.IsZero() {
		t.Fatal("create should stamp created_at")
	}

	got, err := m.GetPlanRequest(ctx, req.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Status != PlanPending || got.EventID != "evt-1" {
		t.Fatalf("get = %+v", got)
	}

	pending, err := m.GetPendingPlanRequests(ctx)
	if err != nil || len(pending) != 1 {
		t.Fatalf("pending = %v, %v", pending, err)
	}

	now := time.Now()
	got.Status = PlanRunning
	got.StartedAt = &now
	if err := m.UpdatePlanRequest(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}

	running, err := m.GetRunningPlanRequests(ctx)
	if err != nil || len(running) != 1 {
		t.Fatalf("running = %v, %v", running, err)
	}
	if pending, _ = m.GetPendingPlanRequests(ctx); len(pending) != 0 {
		t.Errorf("plan still pending after update: %v", pending)
	}

	done := now.Add(250 * time.Millisecond)
	got.Status = PlanCompleted
	got.CompletedAt = &done
	got.Metrics = &model.Metrics{OptimizationScore: 90}
	if err := m.UpdatePlanRequest(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}

	final, _ := m.GetPlanRequest(ctx, got.ID)
	if final.Status != PlanCompleted || final.Metrics == nil || final.Metrics.OptimizationScore != 90 {
		t.Errorf("final = %+v", final)
	}

	stats, err := m.GetStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalCompleted != 1 || stats.TotalPending != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.AvgRunMs != 250 {
		t.Errorf("avg run ms = %v, want 250", stats.AvgRunMs)
	}
}

func TestMemoryGetPlanRequestUnknown(t *testing.T) {
	m := NewMemory()
	got, err := m.GetPlanRequest(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown plan, got %+v", got)
	}
}

func TestMemoryListPlanRequests(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		req := &PlanRequest{EventID: "evt-1", Status: PlanPending}
		if err := m.CreatePlanRequest(ctx, req); err != nil {
			t.Fatal(err)
		}
		time.Sleep(time.Millisecond)
	}
	if err := m.CreatePlanRequest(ctx, &PlanRequest{EventID: "evt-other", Status: PlanPending}); err != nil {
		t.Fatal(err)
	}

	plans, err := m.ListPlanRequests(ctx, "evt-1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(plans) != 3 {
		t.Fatalf("expected 3 plans for evt-1, got %d", len(plans))
	}
	for i := 1; i < len(plans); i++ {
		if plans[i].CreatedAt.After(plans[i-1].CreatedAt) {
			t.Error("plans should be listed newest first")
		}
	}

	limited, _ := m.ListPlanRequests(ctx, "evt-1", 2)
	if len(limited) != 2 {
		t.Errorf("limit 2 returned %d", len(limited))
	}
}

func TestMemoryGroups(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	planID := uuid.New()

	groups := []model.Group{
		{ID: "g1", VehicleID: "v1", Utilization: 75},
		{ID: "g2", VehicleID: "v2", Utilization: 50},
	}
	if err := m.PersistGroups(ctx, planID, "evt-1", groups); err != nil {
		t.Fatalf("persist: %v", err)
	}

	got, err := m.GetGroupsForPlan(ctx, planID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 || got[0].ID != "g1" || got[1].VehicleID != "v2" {
		t.Errorf("groups = %+v", got)
	}

	// Re-persist replaces, not appends.
	if err := m.PersistGroups(ctx, planID, "evt-1", groups[:1]); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if got, _ = m.GetGroupsForPlan(ctx, planID); len(got) != 1 {
		t.Errorf("expected replacement, got %d groups", len(got))
	}
}
