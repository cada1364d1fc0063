package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/Eventra-Labs/Convoy/internal/model"
	"github.com/Eventra-Labs/Convoy/internal/scoring"
)

// minAcceptableFill is the utilization floor applied when partial filling
// is disallowed: a group below it is re-fitted onto a tighter vehicle
// before being emitted.
const minAcceptableFill = 50.0

// buildGroups runs the greedy seed-and-grow assignment bucket by bucket.
// The used sets are run-local index slices, so concurrent runs over
// independent inputs never share state.
func (r *run) buildGroups(ctx context.Context, buckets map[Category][]int) error {
	sorted := make(map[Category][]int, len(buckets))
	for cat, indexes := range buckets {
		sorted[cat] = r.sortBucket(indexes)
	}

	for _, cat := range bucketOrder {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Growth draws from the bucket's own remainder plus the regular
		// pool: spare seats on a high-need vehicle go to unconstrained
		// riders, while other special buckets keep seeding their own
		// groups where vehicle choice is widest.
		growth := sorted[cat]
		if cat != CategoryRegular {
			growth = append(append([]int{}, sorted[cat]...), sorted[CategoryRegular]...)
		}

		r.buildBucket(ctx, cat, sorted[cat], growth)
	}
	return nil
}

func (r *run) buildBucket(ctx context.Context, cat Category, ordered, growth []int) {
	for _, seedIdx := range ordered {
		if r.assigned[seedIdx] {
			continue
		}
		seed := &r.passengers[seedIdx]

		candidates := r.candidateVehicles(cat)
		vehicleIdx, score := r.selectVehicle(seed, candidates)
		if vehicleIdx < 0 {
			r.assigned[seedIdx] = true
			r.unassigned = append(r.unassigned, *seed)
			r.warn(fmt.Sprintf("passenger %s could not be assigned: no suitable vehicle for %s needs", seed.GuestID, cat))
			continue
		}

		memberIdxs := r.growGroup(seedIdx, vehicleIdx, growth)
		r.finalizeGroup(ctx, vehicleIdx, memberIdxs, score)
	}
}

// sortBucket orders passenger indexes by priority desc, requirement count
// desc, preference count desc. All comparisons are stable for determinism.
func (r *run) sortBucket(indexes []int) []int {
	ordered := make([]int, len(indexes))
	copy(ordered, indexes)
	sort.SliceStable(ordered, func(a, b int) bool {
		pa, pb := &r.passengers[ordered[a]], &r.passengers[ordered[b]]
		if pa.Priority != pb.Priority {
			return pa.Priority > pb.Priority
		}
		if len(pa.Requirements) != len(pb.Requirements) {
			return len(pa.Requirements) > len(pb.Requirements)
		}
		return len(pa.Preferred) > len(pb.Preferred)
	})
	return ordered
}

// selectVehicle scores every unused candidate for the seed and returns the
// winner's pool index. Ties keep the earlier pool position.
func (r *run) selectVehicle(seed *model.Passenger, candidates []int) (int, scoring.VehicleScore) {
	best := -1
	var bestScore scoring.VehicleScore
	for _, vi := range candidates {
		if !vehicleSatisfies(&r.vehicles[vi], seed.Requirements) {
			continue
		}
		s := scoring.ScoreVehicle(seed, &r.vehicles[vi], vi, r.opts, r.e.weights)
		if best < 0 || s.Total > bestScore.Total {
			best = vi
			bestScore = s
		}
	}
	return best, bestScore
}

// growGroup admits further bucket passengers onto the seed's vehicle while
// capacity remains and the prospective group's aggregate compatibility
// stays at or above the admission threshold.
func (r *run) growGroup(seedIdx, vehicleIdx int, candidates []int) []int {
	v := &r.vehicles[vehicleIdx]
	members := []int{seedIdx}

	for _, ci := range r.growthOrder(seedIdx, candidates) {
		if len(members) >= v.Capacity {
			break
		}
		if r.assigned[ci] || ci == seedIdx {
			continue
		}
		cand := &r.passengers[ci]
		if !vehicleSatisfies(v, cand.Requirements) {
			continue
		}
		// Hard gate first: an avoidance or exclusion conflict with any
		// current member can never be averaged away by bonuses.
		prospective := make([]*model.Passenger, 0, len(members)+1)
		conflict := false
		for _, mi := range members {
			m := &r.passengers[mi]
			if !Compatible(m, cand) {
				conflict = true
				break
			}
			prospective = append(prospective, m)
		}
		if conflict {
			continue
		}
		prospective = append(prospective, cand)
		if GroupScore(prospective) < GroupAdmissionThreshold {
			continue
		}
		members = append(members, ci)
	}
	return members
}

// growthOrder returns candidate indexes in admission order. With group
// preferences prioritized, passengers the seed names come first, keeping
// the bucket sort within each part.
func (r *run) growthOrder(seedIdx int, candidates []int) []int {
	if !r.opts.PrioritizeGroupPreferences {
		return candidates
	}
	seed := &r.passengers[seedIdx]
	preferred := make([]int, 0, len(seed.Preferred))
	var rest []int
	for _, ci := range candidates {
		if ci == seedIdx {
			continue
		}
		if containsID(seed.Preferred, r.passengers[ci].GuestID) {
			preferred = append(preferred, ci)
		} else {
			rest = append(rest, ci)
		}
	}
	return append(preferred, rest...)
}

// finalizeGroup marks the vehicle and members used, optionally re-fits an
// under-filled group onto a tighter vehicle, synthesizes the route, and
// emits the group.
func (r *run) finalizeGroup(ctx context.Context, vehicleIdx int, memberIdxs []int, score scoring.VehicleScore) {
	if !r.opts.AllowPartialFilling {
		vehicleIdx, score = r.refitVehicle(vehicleIdx, memberIdxs, score)
	}

	v := &r.vehicles[vehicleIdx]
	r.usedVehicle[vehicleIdx] = true

	members := make([]*model.Passenger, 0, len(memberIdxs))
	passengers := make([]model.Passenger, 0, len(memberIdxs))
	for _, mi := range memberIdxs {
		r.assigned[mi] = true
		members = append(members, &r.passengers[mi])
		passengers = append(passengers, r.passengers[mi])
	}

	route := r.synthesizeRoute(members)
	minutes, cost := r.estimateRoute(ctx, route, len(members), v.CostPerUnit)

	group := model.Group{
		ID:                  r.e.newID(),
		VehicleID:           v.ID,
		VehicleName:         v.Name,
		Passengers:          passengers,
		Route:               route,
		EstimatedMinutes:    minutes,
		EstimatedCost:       cost,
		Utilization:         float64(len(members)) / float64(v.Capacity) * 100,
		CoveredRequirements: r.coveredRequirements(v, members),
		ScoringFactors:      score.Factors,
	}

	if r.opts.MaxTravelTime > 0 && minutes > r.opts.MaxTravelTime {
		r.warn(fmt.Sprintf("group %s estimated travel time %dm exceeds limit %dm", group.ID, minutes, r.opts.MaxTravelTime))
	}

	r.groups = append(r.groups, group)
}

// refitVehicle looks for an unused vehicle whose capacity hugs the formed
// group more tightly than the original pick. Used when partial filling is
// disallowed and the group came out under the fill floor.
func (r *run) refitVehicle(vehicleIdx int, memberIdxs []int, score scoring.VehicleScore) (int, scoring.VehicleScore) {
	size := len(memberIdxs)
	current := &r.vehicles[vehicleIdx]
	if float64(size)/float64(current.Capacity)*100 >= minAcceptableFill {
		return vehicleIdx, score
	}

	seed := &r.passengers[memberIdxs[0]]
	best := vehicleIdx
	bestScore := score
	bestCap := current.Capacity
	for vi := range r.vehicles {
		if r.usedVehicle[vi] || vi == vehicleIdx {
			continue
		}
		v := &r.vehicles[vi]
		if v.Capacity < size || v.Capacity >= bestCap {
			continue
		}
		fits := true
		for _, mi := range memberIdxs {
			if !vehicleSatisfies(v, r.passengers[mi].Requirements) {
				fits = false
				break
			}
		}
		if !fits {
			continue
		}
		best = vi
		bestCap = v.Capacity
		bestScore = scoring.ScoreVehicle(seed, v, vi, r.opts, r.e.weights)
	}
	return best, bestScore
}

// coveredRequirements lists the members' requirement tags the vehicle
// actually provides, deduplicated in first-seen order.
func (r *run) coveredRequirements(v *model.Vehicle, members []*model.Passenger) []string {
	seen := make(map[string]bool)
	var covered []string
	for _, m := range members {
		for _, req := range m.Requirements {
			if seen[req] || !requirementCovered(v, req) {
				continue
			}
			seen[req] = true
			covered = append(covered, req)
		}
	}
	return covered
}
