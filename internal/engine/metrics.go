package engine

import (
	"fmt"

	"github.com/Eventra-Labs/Convoy/internal/model"
)

// Composite optimization-score weights and the thresholds that trigger
// warnings and recommendations.
const (
	assignmentWeight  = 40.0
	utilizationWeight = 30.0
	coverageWeight    = 20.0
	efficiencyWeight  = 10.0

	lowUtilizationWarn   = 50.0
	lowCoverageWarn      = 80.0
	lowGroupFillWarn     = 30.0
	consolidateBelowUtil = 60.0
	reviewBelowCoverage  = 90.0
	reviewBelowScore     = 70.0
	costlyGroupThreshold = 100.0

	// Vehicle efficiency counts each group against an ideal of four
	// riders per vehicle.
	ridersPerVehicleTarget = 4.0
)

// aggregate computes run metrics, threshold warnings, and recommendations
// from the finalized groups.
func (r *run) aggregate(totalPassengers int) {
	m := &r.result.Metrics
	m.TotalPassengers = totalPassengers
	m.VehiclesUsed = len(r.groups)
	for _, g := range r.groups {
		m.AssignedPassengers += len(g.Passengers)
	}

	m.AssignmentRate = 1.0
	if totalPassengers > 0 {
		m.AssignmentRate = float64(m.AssignedPassengers) / float64(totalPassengers)
	}

	if len(r.groups) > 0 {
		var sum float64
		for _, g := range r.groups {
			sum += g.Utilization
		}
		m.AverageUtilization = sum / float64(len(r.groups))
	}

	m.RequirementCoverage = r.coverageScore()
	m.SatisfactionScore = r.satisfactionScore()

	efficiency := 1.0
	if r.opts.MinimizeVehicles && len(r.groups) > 0 {
		efficiency = float64(totalPassengers) / (float64(len(r.groups)) * ridersPerVehicleTarget)
		if efficiency > 1 {
			efficiency = 1
		}
	}

	m.OptimizationScore = m.AssignmentRate*assignmentWeight +
		m.AverageUtilization/100*utilizationWeight +
		m.RequirementCoverage/100*coverageWeight +
		efficiency*efficiencyWeight

	r.thresholdWarnings(m)
	r.recommendations(m)
}

// coverageScore is the share of distinct requested requirement tags that
// some assigned vehicle actually provides, as a percentage. No requests
// means full coverage.
func (r *run) coverageScore() float64 {
	requested := make(map[string]bool)
	for i := range r.passengers {
		for _, req := range r.passengers[i].Requirements {
			requested[req] = true
		}
	}
	if len(requested) == 0 {
		return 100
	}

	satisfied := make(map[string]bool)
	for _, g := range r.groups {
		for _, req := range g.CoveredRequirements {
			satisfied[req] = true
		}
	}

	var met int
	for req := range requested {
		if satisfied[req] {
			met++
		}
	}
	return float64(met) / float64(len(requested)) * 100
}

// satisfactionScore is the share of declared co-rider preferences that
// ended up in the same group, as a percentage. Preferences naming unknown
// guests are ignored; no declared preferences means full satisfaction.
func (r *run) satisfactionScore() float64 {
	known := make(map[string]bool, len(r.passengers))
	for i := range r.passengers {
		known[r.passengers[i].GuestID] = true
	}

	groupOf := make(map[string]int)
	for gi, g := range r.groups {
		for _, p := range g.Passengers {
			groupOf[p.GuestID] = gi
		}
	}

	var declared, met int
	for i := range r.passengers {
		p := &r.passengers[i]
		for _, want := range p.Preferred {
			if !known[want] {
				continue
			}
			declared++
			gp, okP := groupOf[p.GuestID]
			gw, okW := groupOf[want]
			if okP && okW && gp == gw {
				met++
			}
		}
	}
	if declared == 0 {
		return 100
	}
	return float64(met) / float64(declared) * 100
}

func (r *run) thresholdWarnings(m *model.Metrics) {
	if len(r.unassigned) > 0 {
		r.warn(fmt.Sprintf("%d passengers could not be assigned to any vehicle", len(r.unassigned)))
	}
	// With zero groups there is no utilization to warn about; the
	// unassigned warning above already covers that outcome.
	if len(r.groups) > 0 && m.AverageUtilization < lowUtilizationWarn {
		r.warn(fmt.Sprintf("average vehicle utilization is low: %.1f%%", m.AverageUtilization))
	}
	if m.RequirementCoverage < lowCoverageWarn {
		r.warn(fmt.Sprintf("special requirement coverage is low: %.1f%%", m.RequirementCoverage))
	}
	for _, g := range r.groups {
		if g.Utilization < lowGroupFillWarn {
			r.warn(fmt.Sprintf("group %s uses only %.1f%% of vehicle %s capacity", g.ID, g.Utilization, g.VehicleID))
		}
	}
}

func (r *run) recommendations(m *model.Metrics) {
	rec := func(s string) { r.result.Recommendations = append(r.result.Recommendations, s) }

	if len(r.groups) > 0 && m.AverageUtilization < consolidateBelowUtil {
		rec("consider consolidating passengers into fewer vehicles to raise utilization")
	}
	if m.RequirementCoverage < reviewBelowCoverage {
		rec("review the vehicle pool's features against requested special requirements")
	}
	if m.OptimizationScore < reviewBelowScore {
		rec("adjust optimization weights or add vehicles to improve the overall score")
	}
	for _, g := range r.groups {
		if g.EstimatedCost > costlyGroupThreshold {
			rec(fmt.Sprintf("group %s has a high estimated cost (%.2f); enable route optimization", g.ID, g.EstimatedCost))
			break
		}
	}
	if !r.opts.OptimizeRoutes {
		rec("route optimization is disabled; enabling it can shorten stop sequences")
	}
}
