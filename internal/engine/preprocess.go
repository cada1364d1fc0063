package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/Eventra-Labs/Convoy/internal/model"
)

// normalizePassengers copies and cleans the caller's passenger records.
// Priority is clamped into [MinPriority, MaxPriority]; nil requirement and
// preference lists become empty. Malformed records (no guest id) are
// skipped with a warning, or returned as an error in strict mode.
func (r *run) normalizePassengers(raw []model.Passenger) error {
	r.passengers = make([]model.Passenger, 0, len(raw))
	for i, p := range raw {
		if p.GuestID == "" {
			verr := &ValidationError{Kind: "passenger", ID: fmt.Sprintf("#%d", i), Reason: "missing guest id"}
			if r.opts.StrictValidation {
				return verr
			}
			r.warn("skipping " + verr.Error())
			continue
		}
		cp := p
		cp.Priority = clampPriority(p.Priority)
		cp.Requirements = copyList(p.Requirements)
		cp.Preferred = copyList(p.Preferred)
		cp.Avoid = copyList(p.Avoid)
		r.passengers = append(r.passengers, cp)
	}
	return nil
}

// filterVehicles copies the pool down to operational, time-available,
// positive-capacity vehicles and orders it capacity descending, then cost
// ascending. An empty surviving pool is a ConfigurationError.
func (r *run) filterVehicles(raw []model.Vehicle, now time.Time) error {
	r.vehicles = make([]model.Vehicle, 0, len(raw))
	for i, v := range raw {
		if v.ID == "" {
			verr := &ValidationError{Kind: "vehicle", ID: fmt.Sprintf("#%d", i), Reason: "missing vehicle id"}
			if r.opts.StrictValidation {
				return verr
			}
			r.warn("skipping " + verr.Error())
			continue
		}
		if !v.Operational || v.Capacity <= 0 {
			continue
		}
		if now.Before(v.AvailableFrom) || now.After(v.AvailableUntil) {
			continue
		}
		cp := v
		cp.Features = copyList(v.Features)
		r.vehicles = append(r.vehicles, cp)
	}

	if len(r.vehicles) == 0 {
		return &ConfigurationError{Reason: "no usable vehicles after availability filtering"}
	}

	sort.SliceStable(r.vehicles, func(i, j int) bool {
		if r.vehicles[i].Capacity != r.vehicles[j].Capacity {
			return r.vehicles[i].Capacity > r.vehicles[j].Capacity
		}
		return r.vehicles[i].CostPerUnit < r.vehicles[j].CostPerUnit
	})
	return nil
}

func clampPriority(p int) int {
	if p < model.MinPriority {
		return model.MinPriority
	}
	if p > model.MaxPriority {
		return model.MaxPriority
	}
	return p
}

func copyList(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
