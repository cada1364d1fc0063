package scoring

import "github.com/Eventra-Labs/Convoy/internal/model"

// ParetoCandidate is a vehicle projected onto the three selection
// dimensions. Higher is better on all of them (cost is already inverted
// by CostScore).
type ParetoCandidate struct {
	VehicleID string  `json:"vehicle_id"`
	Capacity  float64 `json:"capacity"`
	Cost      float64 `json:"cost"`
	Comfort   float64 `json:"comfort"`
}

// Project maps a vehicle onto its Pareto dimensions.
func Project(v *model.Vehicle) ParetoCandidate {
	return ParetoCandidate{
		VehicleID: v.ID,
		Capacity:  CapacityEfficiency(v.Capacity),
		Cost:      CostScore(v.CostPerUnit),
		Comfort:   ComfortRank(v.Type),
	}
}

// ComputeFrontier returns the Pareto-optimal candidates from the input
// set. O(n^2) dominance check — fine for per-event pool sizes.
func ComputeFrontier(candidates []ParetoCandidate) []ParetoCandidate {
	if len(candidates) <= 1 {
		return candidates
	}

	var frontier []ParetoCandidate
	for i := range candidates {
		dominated := false
		for j := range candidates {
			if i == j {
				continue
			}
			if dominates(candidates[j], candidates[i]) {
				dominated = true
				break
			}
		}
		if !dominated {
			frontier = append(frontier, candidates[i])
		}
	}
	return frontier
}

// dominates returns true if a is >= b on every dimension and strictly
// better on at least one.
func dominates(a, b ParetoCandidate) bool {
	if a.Capacity < b.Capacity || a.Cost < b.Cost || a.Comfort < b.Comfort {
		return false
	}
	return a.Capacity > b.Capacity || a.Cost > b.Cost || a.Comfort > b.Comfort
}
