package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Eventra-Labs/Convoy/internal/model"
	"github.com/Eventra-Labs/Convoy/internal/scoring"
	"github.com/Eventra-Labs/Convoy/internal/store"
)

type ExplainHandler struct {
	store store.Store
}

func NewExplainHandler(s store.Store) *ExplainHandler {
	return &ExplainHandler{store: s}
}

type explainResponse struct {
	GroupID        string                    `json:"group_id"`
	VehicleID      string                    `json:"vehicle_id"`
	ScoringFactors []model.ScoreFactor       `json:"scoring_factors"`
	Frontier       []scoring.ParetoCandidate `json:"pareto_frontier"`
}

// Explain returns why a group's vehicle was chosen: the stored factor
// breakdown plus the Pareto frontier of the event's current pool across
// capacity, cost, and comfort.
func (h *ExplainHandler) Explain(w http.ResponseWriter, r *http.Request) {
	planID, err := uuid.Parse(chi.URLParam(r, "planID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid plan id")
		return
	}
	groupID := chi.URLParam(r, "groupID")

	plan, err := h.store.GetPlanRequest(r.Context(), planID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if plan == nil {
		writeError(w, http.StatusNotFound, "plan not found")
		return
	}

	groups, err := h.store.GetGroupsForPlan(r.Context(), planID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	var group *model.Group
	for i := range groups {
		if groups[i].ID == groupID {
			group = &groups[i]
			break
		}
	}
	if group == nil {
		writeError(w, http.StatusNotFound, "group not found")
		return
	}

	vehicles, err := h.store.LoadAvailableVehicles(r.Context(), plan.EventID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	candidates := make([]scoring.ParetoCandidate, 0, len(vehicles))
	for i := range vehicles {
		candidates = append(candidates, scoring.Project(&vehicles[i]))
	}

	writeJSON(w, http.StatusOK, explainResponse{
		GroupID:        group.ID,
		VehicleID:      group.VehicleID,
		ScoringFactors: group.ScoringFactors,
		Frontier:       scoring.ComputeFrontier(candidates),
	})
}
