package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Eventra-Labs/Convoy/internal/model"
)

type PlanStatus string

const (
	PlanPending   PlanStatus = "pending"
	PlanRunning   PlanStatus = "running"
	PlanCompleted PlanStatus = "completed"
	PlanFailed    PlanStatus = "failed"
)

// PlanRequest is one requested optimization run for an event's transport.
type PlanRequest struct {
	ID          uuid.UUID     `json:"plan_id"`
	EventID     string        `json:"event_id"`
	Status      PlanStatus    `json:"status"`
	Options     model.Options `json:"options"`
	RequestedBy string        `json:"requested_by,omitempty"`
	Error       string        `json:"error,omitempty"`

	Metrics         *model.Metrics `json:"metrics,omitempty"`
	Warnings        []string       `json:"warnings,omitempty"`
	Recommendations []string       `json:"recommendations,omitempty"`
	UnassignedCount int            `json:"unassigned_count"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type PlanStats struct {
	TotalPending   int     `json:"total_pending"`
	TotalRunning   int     `json:"total_running"`
	TotalCompleted int     `json:"total_completed"`
	TotalFailed    int     `json:"total_failed"`
	AvgRunMs       float64 `json:"avg_run_ms"`
}

// Store is the persistence boundary: event rosters in, plan requests and
// finalized groups out.
type Store interface {
	// Roster
	SaveRoster(ctx context.Context, eventID string, passengers []model.Passenger, vehicles []model.Vehicle) error
	LoadCandidatePassengers(ctx context.Context, eventID string) ([]model.Passenger, error)
	LoadAvailableVehicles(ctx context.Context, eventID string) ([]model.Vehicle, error)

	// Plan requests
	CreatePlanRequest(ctx context.Context, req *PlanRequest) error
	GetPlanRequest(ctx context.Context, id uuid.UUID) (*PlanRequest, error)
	ListPlanRequests(ctx context.Context, eventID string, limit int) ([]*PlanRequest, error)
	UpdatePlanRequest(ctx context.Context, req *PlanRequest) error
	GetPendingPlanRequests(ctx context.Context) ([]*PlanRequest, error)
	GetRunningPlanRequests(ctx context.Context) ([]*PlanRequest, error)

	// Groups
	PersistGroups(ctx context.Context, planID uuid.UUID, eventID string, groups []model.Group) error
	GetGroupsForPlan(ctx context.Context, planID uuid.UUID) ([]model.Group, error)

	GetStats(ctx context.Context) (*PlanStats, error)

	Close() error
}
