package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Eventra-Labs/Convoy/internal/config"
	"github.com/Eventra-Labs/Convoy/internal/events"
	"github.com/Eventra-Labs/Convoy/internal/model"
	"github.com/Eventra-Labs/Convoy/internal/store"
)

type PlansHandler struct {
	store store.Store
	bus   events.Client
	cfg   *config.Config
}

func NewPlansHandler(s store.Store, bus events.Client, cfg *config.Config) *PlansHandler {
	return &PlansHandler{store: s, bus: bus, cfg: cfg}
}

type rosterRequest struct {
	Passengers []model.Passenger `json:"passengers"`
	Vehicles   []model.Vehicle   `json:"vehicles"`
}

// SaveRoster stores the passenger and vehicle inputs for an event,
// replacing any previous roster.
func (h *PlansHandler) SaveRoster(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	var req rosterRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid roster payload: "+err.Error())
		return
	}
	if err := h.store.SaveRoster(r.Context(), eventID, req.Passengers, req.Vehicles); err != nil {
		writeError(w, http.StatusInternalServerError, "save roster: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"event_id":   eventID,
		"passengers": len(req.Passengers),
		"vehicles":   len(req.Vehicles),
	})
}

type createPlanRequest struct {
	Options *model.Options `json:"options,omitempty"`
}

// CreatePlan queues an optimization run for the event. The planner picks
// it up on its next tick; callers poll the plan resource for the outcome.
func (h *PlansHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	// An empty body means "use the configured defaults".
	var body createPlanRequest
	if err := readJSON(r, &body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid plan payload: "+err.Error())
		return
	}

	opts := h.cfg.DefaultEngineOptions()
	if body.Options != nil {
		opts = *body.Options
	}

	req := &store.PlanRequest{
		EventID:     eventID,
		Status:      store.PlanPending,
		Options:     opts,
		RequestedBy: r.Header.Get("X-Client-ID"),
	}
	if err := h.store.CreatePlanRequest(r.Context(), req); err != nil {
		writeError(w, http.StatusInternalServerError, "create plan request: "+err.Error())
		return
	}
	_ = events.Emit(r.Context(), h.bus, events.PlanRequestedEvent{
		PlanID:      req.ID.String(),
		EventID:     eventID,
		RequestedBy: req.RequestedBy,
	})
	writeJSON(w, http.StatusAccepted, req)
}

func (h *PlansHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "planID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid plan id")
		return
	}
	plan, err := h.store.GetPlanRequest(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if plan == nil {
		writeError(w, http.StatusNotFound, "plan not found")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *PlansHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	plans, err := h.store.ListPlanRequests(r.Context(), eventID, 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if plans == nil {
		plans = []*store.PlanRequest{}
	}
	writeJSON(w, http.StatusOK, plans)
}

func (h *PlansHandler) GetGroups(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "planID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid plan id")
		return
	}
	groups, err := h.store.GetGroupsForPlan(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if groups == nil {
		groups = []model.Group{}
	}
	writeJSON(w, http.StatusOK, groups)
}
