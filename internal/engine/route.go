package engine

import (
	"context"
	"sort"

	"github.com/Eventra-Labs/Convoy/internal/model"
)

// Placeholder estimation constants used by StaticEstimator. A production
// deployment substitutes a mapping-backed Estimator instead of tuning
// these.
const (
	baseMinutes         = 15
	perPassengerMinutes = 3
	perStopMinutes      = 5
	legDistanceUnits    = 2.0
)

// Estimator supplies coarse duration and distance figures for a finalized
// stop list. Implementations may call out to a travel-time service.
type Estimator interface {
	Estimate(ctx context.Context, stops []model.Stop, passengerCount int) (minutes int, distanceUnits float64, err error)
}

// StaticEstimator is the built-in placeholder: fixed per-stop and
// per-passenger figures, fixed inter-stop distance.
type StaticEstimator struct{}

func (StaticEstimator) Estimate(_ context.Context, stops []model.Stop, passengerCount int) (int, float64, error) {
	minutes := baseMinutes + perPassengerMinutes*passengerCount + perStopMinutes*len(stops)
	legs := len(stops) - 1
	if legs < 0 {
		legs = 0
	}
	return minutes, float64(legs) * legDistanceUnits, nil
}

// synthesizeRoute derives the ordered stop list for a group: distinct
// pickups first, then distinct dropoffs, each in first-seen order. With
// route optimization on, stops shared by more passengers come earlier
// within their section. This is a documented simplification, not true
// route optimization.
func (r *run) synthesizeRoute(members []*model.Passenger) []model.Stop {
	pickups := distinctStops(members, model.StopPickup)
	dropoffs := distinctStops(members, model.StopDropoff)

	if r.opts.OptimizeRoutes {
		orderByShared(pickups, members, model.StopPickup)
		orderByShared(dropoffs, members, model.StopDropoff)
	}

	return append(pickups, dropoffs...)
}

func distinctStops(members []*model.Passenger, kind model.StopKind) []model.Stop {
	seen := make(map[string]bool, len(members))
	var stops []model.Stop
	for _, m := range members {
		loc := m.Pickup
		if kind == model.StopDropoff {
			loc = m.Dropoff
		}
		if loc == "" || seen[loc] {
			continue
		}
		seen[loc] = true
		stops = append(stops, model.Stop{Location: loc, Kind: kind})
	}
	return stops
}

// orderByShared sorts stops by how many group members share them,
// descending, keeping first-seen order on ties.
func orderByShared(stops []model.Stop, members []*model.Passenger, kind model.StopKind) {
	counts := make(map[string]int, len(stops))
	for _, m := range members {
		loc := m.Pickup
		if kind == model.StopDropoff {
			loc = m.Dropoff
		}
		counts[loc]++
	}
	sort.SliceStable(stops, func(i, j int) bool {
		return counts[stops[i].Location] > counts[stops[j].Location]
	})
}

// estimateRoute runs the configured estimator, falling back to the static
// one if an external provider fails mid-run.
func (r *run) estimateRoute(ctx context.Context, stops []model.Stop, passengerCount int, costPerUnit float64) (int, float64) {
	minutes, distance, err := r.e.est.Estimate(ctx, stops, passengerCount)
	if err != nil {
		r.e.logger.Warn("route estimator failed, using static estimate", "error", err)
		minutes, distance, _ = StaticEstimator{}.Estimate(ctx, stops, passengerCount)
	}
	return minutes, distance * costPerUnit
}
