package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Eventra-Labs/Convoy/internal/model"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveRoster(ctx context.Context, eventID string, passengers []model.Passenger, vehicles []model.Vehicle) error {
	passengersJSON, err := json.Marshal(passengers)
	if err != nil {
		return fmt.Errorf("marshal passengers: %w", err)
	}
	vehiclesJSON, err := json.Marshal(vehicles)
	if err != nil {
		return fmt.Errorf("marshal vehicles: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO event_rosters (event_id, passengers, vehicles)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id) DO UPDATE
		SET passengers = EXCLUDED.passengers,
		    vehicles = EXCLUDED.vehicles,
		    updated_at = now()`,
		eventID, passengersJSON, vehiclesJSON,
	)
	return err
}

func (s *PostgresStore) LoadCandidatePassengers(ctx context.Context, eventID string) ([]model.Passenger, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT passengers FROM event_rosters WHERE event_id = $1`, eventID,
	).Scan(&raw)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var passengers []model.Passenger
	if err := json.Unmarshal(raw, &passengers); err != nil {
		return nil, fmt.Errorf("unmarshal passengers: %w", err)
	}
	return passengers, nil
}

func (s *PostgresStore) LoadAvailableVehicles(ctx context.Context, eventID string) ([]model.Vehicle, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT vehicles FROM event_rosters WHERE event_id = $1`, eventID,
	).Scan(&raw)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var vehicles []model.Vehicle
	if err := json.Unmarshal(raw, &vehicles); err != nil {
		return nil, fmt.Errorf("unmarshal vehicles: %w", err)
	}
	return vehicles, nil
}

const planColumns = `plan_id, event_id, status, options, requested_by, error,
	metrics, warnings, recommendations, unassigned_count,
	created_at, started_at, completed_at, updated_at`

func (s *PostgresStore) CreatePlanRequest(ctx context.Context, req *PlanRequest) error {
	optionsJSON, _ := json.Marshal(req.Options)
	return s.pool.QueryRow(ctx, `
		INSERT INTO transport_plans (event_id, status, options, requested_by)
		VALUES ($1, $2, $3, $4)
		RETURNING plan_id, created_at, updated_at`,
		req.EventID, req.Status, optionsJSON, req.RequestedBy,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
}

func (s *PostgresStore) GetPlanRequest(ctx context.Context, id uuid.UUID) (*PlanRequest, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+planColumns+` FROM transport_plans WHERE plan_id = $1`, id)
	return scanPlan(row)
}

func (s *PostgresStore) ListPlanRequests(ctx context.Context, eventID string, limit int) ([]*PlanRequest, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT `+planColumns+` FROM transport_plans
		WHERE event_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, eventID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlans(rows)
}

func (s *PostgresStore) UpdatePlanRequest(ctx context.Context, req *PlanRequest) error {
	metricsJSON, _ := json.Marshal(req.Metrics)
	warningsJSON, _ := json.Marshal(req.Warnings)
	recsJSON, _ := json.Marshal(req.Recommendations)
	_, err := s.pool.Exec(ctx, `
		UPDATE transport_plans
		SET status = $2, error = $3, metrics = $4, warnings = $5,
		    recommendations = $6, unassigned_count = $7,
		    started_at = $8, completed_at = $9, updated_at = now()
		WHERE plan_id = $1`,
		req.ID, req.Status, req.Error, metricsJSON, warningsJSON,
		recsJSON, req.UnassignedCount, req.StartedAt, req.CompletedAt,
	)
	return err
}

func (s *PostgresStore) GetPendingPlanRequests(ctx context.Context) ([]*PlanRequest, error) {
	return s.plansByStatus(ctx, PlanPending)
}

func (s *PostgresStore) GetRunningPlanRequests(ctx context.Context) ([]*PlanRequest, error) {
	return s.plansByStatus(ctx, PlanRunning)
}

func (s *PostgresStore) plansByStatus(ctx context.Context, status PlanStatus) ([]*PlanRequest, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+planColumns+` FROM transport_plans
		WHERE status = $1
		ORDER BY created_at ASC`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlans(rows)
}

func (s *PostgresStore) PersistGroups(ctx context.Context, planID uuid.UUID, eventID string, groups []model.Group) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM transport_groups WHERE plan_id = $1`, planID); err != nil {
		return err
	}
	for _, g := range groups {
		payload, err := json.Marshal(g)
		if err != nil {
			return fmt.Errorf("marshal group %s: %w", g.ID, err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO transport_groups (group_id, plan_id, event_id, vehicle_id, payload)
			VALUES ($1, $2, $3, $4, $5)`,
			g.ID, planID, eventID, g.VehicleID, payload,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) GetGroupsForPlan(ctx context.Context, planID uuid.UUID) ([]model.Group, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT payload FROM transport_groups
		WHERE plan_id = $1
		ORDER BY created_at ASC`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []model.Group
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var g model.Group
		if err := json.Unmarshal(payload, &g); err != nil {
			return nil, fmt.Errorf("unmarshal group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (s *PostgresStore) GetStats(ctx context.Context) (*PlanStats, error) {
	stats := &PlanStats{}
	err := s.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'running'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'failed'),
			COALESCE(AVG(EXTRACT(EPOCH FROM (completed_at - started_at)) * 1000)
				FILTER (WHERE completed_at IS NOT NULL AND started_at IS NOT NULL), 0)
		FROM transport_plans`,
	).Scan(&stats.TotalPending, &stats.TotalRunning, &stats.TotalCompleted,
		&stats.TotalFailed, &stats.AvgRunMs)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func scanPlans(rows pgx.Rows) ([]*PlanRequest, error) {
	var plans []*PlanRequest
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func scanPlan(row pgx.Row) (*PlanRequest, error) {
	p := &PlanRequest{}
	var optionsJSON, metricsJSON, warningsJSON, recsJSON []byte
	err := row.Scan(
		&p.ID, &p.EventID, &p.Status, &optionsJSON, &p.RequestedBy, &p.Error,
		&metricsJSON, &warningsJSON, &recsJSON, &p.UnassignedCount,
		&p.CreatedAt, &p.StartedAt, &p.CompletedAt, &p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if optionsJSON != nil {
		_ = json.Unmarshal(optionsJSON, &p.Options)
	}
	if metricsJSON != nil && string(metricsJSON) != "null" {
		p.Metrics = &model.Metrics{}
		_ = json.Unmarshal(metricsJSON, p.Metrics)
	}
	if warningsJSON != nil {
		_ = json.Unmarshal(warningsJSON, &p.Warnings)
	}
	if recsJSON != nil {
		_ = json.Unmarshal(recsJSON, &p.Recommendations)
	}
	return p, nil
}
