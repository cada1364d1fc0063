package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Eventra-Labs/Convoy/internal/model"
)

// Memory is a mutex-guarded in-memory store used when no database URL is
// configured, and by tests.
type Memory struct {
	mu      sync.Mutex
	rosters map[string]roster            // event id -> roster
	plans   map[uuid.UUID]*PlanRequest   // plan id -> request
	groups  map[uuid.UUID][]model.Group  // plan id -> groups
}

type roster struct {
	passengers []model.Passenger
	vehicles   []model.Vehicle
}

func NewMemory() *Memory {
	return &Memory{
		rosters: map[string]roster{},
		plans:   map[uuid.UUID]*PlanRequest{},
		groups:  map[uuid.UUID][]model.Group{},
	}
}

func (m *Memory) Close() error { return nil }

func (m *Memory) SaveRoster(_ context.Context, eventID string, passengers []model.Passenger, vehicles []model.Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rosters[eventID] = roster{
		passengers: append([]model.Passenger(nil), passengers...),
		vehicles:   append([]model.Vehicle(nil), vehicles...),
	}
	return nil
}

func (m *Memory) LoadCandidatePassengers(_ context.Context, eventID string) ([]model.Passenger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.rosters[eventID]
	return append([]model.Passenger(nil), r.passengers...), nil
}

func (m *Memory) LoadAvailableVehicles(_ context.Context, eventID string) ([]model.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.rosters[eventID]
	return append([]model.Vehicle(nil), r.vehicles...), nil
}

func (m *Memory) CreatePlanRequest(_ context.Context, req *PlanRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	req.ID = uuid.New()
	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now
	cp := *req
	m.plans[req.ID] = &cp
	return nil
}

func (m *Memory) GetPlanRequest(_ context.Context, id uuid.UUID) (*PlanRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *Memory) ListPlanRequests(_ context.Context, eventID string, limit int) ([]*PlanRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 {
		limit = 50
	}
	var out []*PlanRequest
	for _, p := range m.plans {
		if p.EventID == eventID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) UpdatePlanRequest(_ context.Context, req *PlanRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	req.UpdatedAt = time.Now()
	cp := *req
	m.plans[req.ID] = &cp
	return nil
}

func (m *Memory) GetPendingPlanRequests(ctx context.Context) ([]*PlanRequest, error) {
	return m.plansByStatus(PlanPending), nil
}

func (m *Memory) GetRunningPlanRequests(ctx context.Context) ([]*PlanRequest, error) {
	return m.plansByStatus(PlanRunning), nil
}

func (m *Memory) plansByStatus(status PlanStatus) []*PlanRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*PlanRequest
	for _, p := range m.plans {
		if p.Status == status {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (m *Memory) PersistGroups(_ context.Context, planID uuid.UUID, _ string, groups []model.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[planID] = append([]model.Group(nil), groups...)
	return nil
}

func (m *Memory) GetGroupsForPlan(_ context.Context, planID uuid.UUID) ([]model.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Group(nil), m.groups[planID]...), nil
}

func (m *Memory) GetStats(_ context.Context) (*PlanStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &PlanStats{}
	var totalMs float64
	var runs int
	for _, p := range m.plans {
		switch p.Status {
		case PlanPending:
			stats.TotalPending++
		case PlanRunning:
			stats.TotalRunning++
		case PlanCompleted:
			stats.TotalCompleted++
		case PlanFailed:
			stats.TotalFailed++
		}
		if p.StartedAt != nil && p.CompletedAt != nil {
			totalMs += float64(p.CompletedAt.Sub(*p.StartedAt).Milliseconds())
			runs++
		}
	}
	if runs > 0 {
		stats.AvgRunMs = totalMs / float64(runs)
	}
	return stats, nil
}
