package model

import "time"

// VehicleType is the closed set of vehicle classes the fleet supports.
type VehicleType string

const (
	TypeBus       VehicleType = "bus"
	TypeVan       VehicleType = "van"
	TypeCar       VehicleType = "car"
	TypeLimousine VehicleType = "limousine"
	TypeShuttle   VehicleType = "shuttle"
)

// Priority bounds for passengers. Values outside are clamped, never rejected.
const (
	MinPriority = 1
	MaxPriority = 10
)

// Passenger is an event attendee needing ground transport for one
// pickup→dropoff leg.
type Passenger struct {
	GuestID      string     `json:"guest_id"`
	Name         string     `json:"name"`
	Pickup       string     `json:"pickup"`
	Dropoff      string     `json:"dropoff"`
	ArriveBy     *time.Time `json:"arrive_by,omitempty"`
	DepartAfter  *time.Time `json:"depart_after,omitempty"`
	Requirements []string   `json:"requirements,omitempty"`
	Priority     int        `json:"priority"`

	// Guest ids this passenger wants to ride with / must not ride with.
	Preferred []string `json:"preferred,omitempty"`
	Avoid     []string `json:"avoid,omitempty"`
}

// Vehicle is one member of the event's transport pool.
type Vehicle struct {
	ID             string      `json:"vehicle_id"`
	Name           string      `json:"name"`
	Type           VehicleType `json:"type"`
	Capacity       int         `json:"capacity"`
	Features       []string    `json:"features,omitempty"`
	Accessible     bool        `json:"accessible"`
	CostPerUnit    float64     `json:"cost_per_unit"`
	AvailableFrom  time.Time   `json:"available_from"`
	AvailableUntil time.Time   `json:"available_until"`
	Operational    bool        `json:"operational"`
}

type StopKind string

const (
	StopPickup  StopKind = "pickup"
	StopDropoff StopKind = "dropoff"
)

// Stop is one entry in a group's coarse route: all pickups precede all
// dropoffs.
type Stop struct {
	Location string   `json:"location"`
	Kind     StopKind `json:"kind"`
}

// ScoreFactor is one component of a vehicle-selection score, kept on the
// group so the choice can be explained after the fact.
type ScoreFactor struct {
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
	Applied  bool    `json:"applied"`
	Reason   string  `json:"reason,omitempty"`
}

// Group is one finalized ride group: a vehicle plus the passengers
// assigned to it for this run.
type Group struct {
	ID                  string        `json:"group_id"`
	VehicleID           string        `json:"vehicle_id"`
	VehicleName         string        `json:"vehicle_name,omitempty"`
	Passengers          []Passenger   `json:"passengers"`
	Route               []Stop        `json:"route"`
	EstimatedMinutes    int           `json:"estimated_minutes"`
	EstimatedCost       float64       `json:"estimated_cost"`
	Utilization         float64       `json:"utilization"` // percent of seats filled
	CoveredRequirements []string      `json:"covered_requirements,omitempty"`
	ScoringFactors      []ScoreFactor `json:"scoring_factors,omitempty"`
}

// Options are the objective-weighting knobs for a single optimization run.
type Options struct {
	PrioritizeCapacity         bool `json:"prioritize_capacity"`
	MinimizeVehicles           bool `json:"minimize_vehicles"`
	RespectSpecialRequirements bool `json:"respect_special_requirements"`
	OptimizeRoutes             bool `json:"optimize_routes"`
	MaxTravelTime              int  `json:"max_travel_time"` // minutes, 0 = unlimited
	AllowPartialFilling        bool `json:"allow_partial_filling"`
	PrioritizeGroupPreferences bool `json:"prioritize_group_preferences"`
	MinimizeCost               bool `json:"minimize_cost"`
	MaximizeComfort            bool `json:"maximize_comfort"`

	// StrictValidation propagates malformed input records as errors instead
	// of skipping them with a warning.
	StrictValidation bool `json:"strict_validation"`
}

// DefaultOptions returns the option set used when a plan request does not
// carry its own.
func DefaultOptions() Options {
	return Options{
		PrioritizeCapacity:         true,
		MinimizeVehicles:           true,
		RespectSpecialRequirements: true,
		OptimizeRoutes:             true,
		AllowPartialFilling:        true,
		PrioritizeGroupPreferences: true,
		MinimizeCost:               true,
		MaximizeComfort:            false,
	}
}

// Metrics summarizes the quality of one optimization run.
type Metrics struct {
	TotalPassengers     int     `json:"total_passengers"`
	AssignedPassengers  int     `json:"assigned_passengers"`
	VehiclesUsed        int     `json:"vehicles_used"`
	AssignmentRate      float64 `json:"assignment_rate"`      // 0..1
	AverageUtilization  float64 `json:"average_utilization"`  // percent
	RequirementCoverage float64 `json:"requirement_coverage"` // percent
	SatisfactionScore   float64 `json:"satisfaction_score"`   // percent
	OptimizationScore   float64 `json:"optimization_score"`   // 0..100
}

// Result is the full output of one optimization run.
type Result struct {
	Groups          []Group     `json:"groups"`
	Unassigned      []Passenger `json:"unassigned"`
	Metrics         Metrics     `json:"metrics"`
	Warnings        []string    `json:"warnings,omitempty"`
	Recommendations []string    `json:"recommendations,omitempty"`
}
