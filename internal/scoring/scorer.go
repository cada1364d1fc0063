package scoring

import (
	"strings"

	"github.com/Eventra-Labs/Convoy/internal/model"
)

// idealSeats is the seat count a vehicle should offer before capacity
// efficiency tops out: it favours vehicles that can seat at least four
// without rewarding large excess.
const idealSeats = 4.0

// VehicleScore captures the complete scoring output for one
// passenger–vehicle pair.
type VehicleScore struct {
	VehicleID string              `json:"vehicle_id"`
	PoolIndex int                 `json:"pool_index"`
	Total     float64             `json:"total"`
	Factors   []model.ScoreFactor `json:"factors"`
}

// ScoreVehicle computes the weighted additive score for placing the seed
// passenger on the candidate vehicle under the run's options. Optional
// factors contribute zero when their option is off.
func ScoreVehicle(seed *model.Passenger, v *model.Vehicle, poolIndex int, opts model.Options, w Weights) VehicleScore {
	capWeight := w.CapacityEfficiency
	if !opts.PrioritizeCapacity {
		capWeight /= 2
	}

	factors := []model.ScoreFactor{
		{
			Name:    "capacity_efficiency",
			Score:   CapacityEfficiency(v.Capacity),
			Weight:  capWeight,
			Applied: true,
		},
		{
			Name:    "cost",
			Score:   CostScore(v.CostPerUnit),
			Weight:  w.Cost,
			Applied: opts.MinimizeCost,
		},
		{
			Name:    "comfort",
			Score:   ComfortRank(v.Type),
			Weight:  w.Comfort,
			Applied: opts.MaximizeComfort,
		},
		{
			Name:    "requirement_match",
			Score:   requirementMatch(seed, v),
			Weight:  w.RequirementMatch,
			Applied: opts.RespectSpecialRequirements,
		},
	}

	var total float64
	for i := range factors {
		if !factors[i].Applied {
			continue
		}
		factors[i].Weighted = factors[i].Score * factors[i].Weight
		total += factors[i].Weighted
	}

	return VehicleScore{
		VehicleID: v.ID,
		PoolIndex: poolIndex,
		Total:     total,
		Factors:   factors,
	}
}

// CapacityEfficiency is min(capacity/4, 1).
func CapacityEfficiency(capacity int) float64 {
	eff := float64(capacity) / idealSeats
	if eff > 1 {
		return 1
	}
	return eff
}

// CostScore is 1/(1+costPerUnit): strictly increasing as cost drops.
func CostScore(costPerUnit float64) float64 {
	return 1 / (1 + costPerUnit)
}

// ComfortRank is a fixed ordinal over vehicle types normalized to [0,1].
func ComfortRank(t model.VehicleType) float64 {
	switch t {
	case model.TypeLimousine:
		return 1.0
	case model.TypeCar:
		return 0.8
	case model.TypeShuttle:
		return 0.6
	case model.TypeVan:
		return 0.4
	case model.TypeBus:
		return 0.2
	default:
		return 0
	}
}

// requirementMatch is 1 when any of the seed's requirement tags textually
// matches a vehicle feature, else 0.
func requirementMatch(seed *model.Passenger, v *model.Vehicle) float64 {
	for _, req := range seed.Requirements {
		rl := strings.ToLower(req)
		for _, f := range v.Features {
			fl := strings.ToLower(f)
			if strings.Contains(fl, rl) || strings.Contains(rl, fl) {
				return 1
			}
		}
	}
	return 0
}
