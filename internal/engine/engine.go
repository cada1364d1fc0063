// Package engine implements the transport group optimization core: a
// greedy, constraint-aware assignment of event passengers to a bounded
// vehicle pool. The engine is a pure function of its inputs — it holds no
// state across runs and never mutates caller-owned records.
package engine

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Eventra-Labs/Convoy/internal/model"
	"github.com/Eventra-Labs/Convoy/internal/scoring"
)

// Engine holds the run-independent collaborators: route estimator, group
// id generator, scorer weights, and logger. A single Engine is safe for
// concurrent runs because all per-run state lives on the run struct.
type Engine struct {
	est     Estimator
	newID   func() string
	weights scoring.Weights
	now     func() time.Time
	logger  *slog.Logger
}

// New creates an Engine. Nil collaborators fall back to the static
// estimator, uuid generation, default weights, and a discarded logger.
func New(est Estimator, newID func() string, weights *scoring.Weights, logger *slog.Logger) *Engine {
	e := &Engine{
		est:     est,
		newID:   newID,
		weights: scoring.DefaultWeights(),
		now:     time.Now,
		logger:  logger,
	}
	if e.est == nil {
		e.est = StaticEstimator{}
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}
	if weights != nil {
		e.weights = *weights
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e
}

// run carries all mutable state for one optimization invocation. Used
// sets are index-based over the run's own copies of the inputs.
type run struct {
	e    *Engine
	opts model.Options

	passengers []model.Passenger // normalized copies
	vehicles   []model.Vehicle   // filtered, sorted copies

	usedVehicle []bool
	assigned    []bool

	groups     []model.Group
	unassigned []model.Passenger
	result     model.Result
}

func (r *run) warn(msg string) {
	r.result.Warnings = append(r.result.Warnings, msg)
}

// Optimize assigns passengers to vehicles and returns the complete result:
// groups, unassigned passengers, metrics, warnings, and recommendations.
// It returns a ConfigurationError when the filtered vehicle pool is empty
// and, in strict mode, a ValidationError for the first malformed record.
// Identical inputs always produce identical results.
func (e *Engine) Optimize(ctx context.Context, passengers []model.Passenger, vehicles []model.Vehicle, opts model.Options) (*model.Result, error) {
	r := &run{e: e, opts: opts}

	if err := r.normalizePassengers(passengers); err != nil {
		return nil, err
	}
	if err := r.filterVehicles(vehicles, e.now()); err != nil {
		return nil, err
	}

	r.usedVehicle = make([]bool, len(r.vehicles))
	r.assigned = make([]bool, len(r.passengers))

	buckets := r.classify()
	if err := r.buildGroups(ctx, buckets); err != nil {
		return nil, err
	}

	r.aggregate(len(r.passengers))

	r.result.Groups = r.groups
	if r.result.Groups == nil {
		r.result.Groups = []model.Group{}
	}
	r.result.Unassigned = r.unassigned
	if r.result.Unassigned == nil {
		r.result.Unassigned = []model.Passenger{}
	}

	e.logger.Info("optimization run complete",
		"passengers", len(r.passengers),
		"vehicles", len(r.vehicles),
		"groups", len(r.result.Groups),
		"unassigned", len(r.result.Unassigned),
		"score", r.result.Metrics.OptimizationScore,
	)
	return &r.result, nil
}
