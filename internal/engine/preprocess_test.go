package engine

import (
	"testing"
	"time"

	"github.com/Eventra-Labs/Convoy/internal/model"
)

func newTestRun(opts model.Options) *run {
	return &run{e: testEngine(), opts: opts}
}

func TestNormalizePassengers(t *testing.T) {
	r := newTestRun(model.DefaultOptions())
	raw := []model.Passenger{
		{GuestID: "a", Priority: -3},
		{GuestID: "b", Priority: 99},
		{GuestID: "c", Priority: 5},
		{Name: "anonymous", Priority: 5},
	}

	if err := r.normalizePassengers(raw); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}

	if len(r.passengers) != 3 {
		t.Fatalf("expected 3 kept passengers, got %d", len(r.passengers))
	}
	wantPriorities := map[string]int{"a": 1, "b": 10, "c": 5}
	for _, p := range r.passengers {
		if p.Priority != wantPriorities[p.GuestID] {
			t.Errorf("passenger %s priority = %d, want %d", p.GuestID, p.Priority, wantPriorities[p.GuestID])
		}
		if p.Requirements == nil || p.Preferred == nil || p.Avoid == nil {
			t.Errorf("passenger %s has nil list after normalization", p.GuestID)
		}
	}
	if len(r.result.Warnings) != 1 {
		t.Errorf("expected 1 skip warning, got %v", r.result.Warnings)
	}
}

func TestNormalizePassengersStrict(t *testing.T) {
	opts := model.DefaultOptions()
	opts.StrictValidation = true
	r := newTestRun(opts)

	err := r.normalizePassengers([]model.Passenger{{Name: "anonymous"}})
	if err == nil {
		t.Fatal("expected validation error for missing guest id")
	}
}

func TestFilterVehiclesOrdering(t *testing.T) {
	r := newTestRun(model.DefaultOptions())
	vehicles := []model.Vehicle{
		testVehicle("small", model.TypeCar, 2, nil, false, 1.0),
		testVehicle("big-pricey", model.TypeBus, 8, nil, false, 3.0),
		testVehicle("big-cheap", model.TypeBus, 8, nil, false, 1.0),
		testVehicle("mid", model.TypeVan, 5, nil, false, 2.0),
	}

	if err := r.filterVehicles(vehicles, time.Now()); err != nil {
		t.Fatalf("filter failed: %v", err)
	}

	want := []string{"big-cheap", "big-pricey", "mid", "small"}
	for i, id := range want {
		if r.vehicles[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, r.vehicles[i].ID, id)
		}
	}
}

func TestFilterVehiclesExclusions(t *testing.T) {
	now := time.Now()

	down := testVehicle("down", model.TypeVan, 4, nil, false, 1.0)
	down.Operational = false
	empty := testVehicle("empty", model.TypeVan, 0, nil, false, 1.0)
	future := testVehicle("future", model.TypeVan, 4, nil, false, 1.0)
	future.AvailableFrom = now.Add(2 * time.Hour)
	past := testVehicle("past", model.TypeVan, 4, nil, false, 1.0)
	past.AvailableUntil = now.Add(-2 * time.Hour)
	ok := testVehicle("ok", model.TypeVan, 4, nil, false, 1.0)

	r := newTestRun(model.DefaultOptions())
	err := r.filterVehicles([]model.Vehicle{down, empty, future, past, ok}, now)
	if err != nil {
		t.Fatalf("filter failed: %v", err)
	}
	if len(r.vehicles) != 1 || r.vehicles[0].ID != "ok" {
		t.Errorf("expected only the available vehicle, got %+v", r.vehicles)
	}

	r = newTestRun(model.DefaultOptions())
	err = r.filterVehicles([]model.Vehicle{down, empty, past}, now)
	if !IsConfigurationError(err) {
		t.Errorf("expected ConfigurationError for fully filtered pool, got %v", err)
	}
}
