package events

// Event is a bus message that knows the subject it belongs on. All
// lifecycle events the service emits implement it, so publishing is
// always subject-correct by construction.
type Event interface {
	Subject() string
}

// PlanRequestEvent asks the planner to run an optimization for an event.
// Published by upstream services on SubjectPlanRequest; inbound only, so
// it carries no plan id yet.
type PlanRequestEvent struct {
	EventID     string `json:"event_id"`
	RequestedBy string `json:"requested_by,omitempty"`
}

// PlanRequestedEvent acknowledges that a plan request was accepted and
// queued, whether it arrived over HTTP or the bus.
type PlanRequestedEvent struct {
	PlanID      string `json:"plan_id"`
	EventID     string `json:"event_id"`
	RequestedBy string `json:"requested_by,omitempty"`
}

func (e PlanRequestedEvent) Subject() string { return SubjectPlanRequested(e.PlanID) }

type PlanStartedEvent struct {
	PlanID  string `json:"plan_id"`
	EventID string `json:"event_id"`
}

func (e PlanStartedEvent) Subject() string { return SubjectPlanStarted(e.PlanID) }

type PlanCompletedEvent struct {
	PlanID            string  `json:"plan_id"`
	EventID           string  `json:"event_id"`
	Groups            int     `json:"groups"`
	Unassigned        int     `json:"unassigned"`
	OptimizationScore float64 `json:"optimization_score"`
	DurationMs        int64   `json:"duration_ms"`
}

func (e PlanCompletedEvent) Subject() string { return SubjectPlanCompleted(e.PlanID) }

type PlanFailedEvent struct {
	PlanID  string `json:"plan_id"`
	EventID string `json:"event_id"`
	Error   string `json:"error"`
}

func (e PlanFailedEvent) Subject() string { return SubjectPlanFailed(e.PlanID) }

// PlanTimeoutEvent marks a run stuck past its deadline and failed by the
// timeout sweep rather than by the run itself.
type PlanTimeoutEvent struct {
	PlanID  string `json:"plan_id"`
	EventID string `json:"event_id"`
}

func (e PlanTimeoutEvent) Subject() string { return SubjectPlanTimeout(e.PlanID) }

type GroupCreatedEvent struct {
	GroupID     string  `json:"group_id"`
	PlanID      string  `json:"plan_id"`
	EventID     string  `json:"event_id"`
	VehicleID   string  `json:"vehicle_id"`
	Passengers  int     `json:"passengers"`
	Utilization float64 `json:"utilization"`
}

func (e GroupCreatedEvent) Subject() string { return SubjectGroupCreated(e.GroupID) }

type UnassignedEvent struct {
	PlanID   string   `json:"plan_id"`
	EventID  string   `json:"event_id"`
	GuestIDs []string `json:"guest_ids"`
}

func (e UnassignedEvent) Subject() string { return SubjectPlanUnassigned(e.PlanID) }
