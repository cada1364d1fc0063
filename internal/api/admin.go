package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Eventra-Labs/Convoy/internal/planner"
	"github.com/Eventra-Labs/Convoy/internal/store"
)

type AdminHandler struct {
	store   store.Store
	planner *planner.Planner
}

func NewAdminHandler(s store.Store, p *planner.Planner) *AdminHandler {
	return &AdminHandler{store: s, planner: p}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Withhold removes a vehicle from future optimization runs.
func (h *AdminHandler) Withhold(w http.ResponseWriter, r *http.Request) {
	vehicleID := chi.URLParam(r, "vehicleID")
	h.planner.WithholdVehicle(vehicleID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"vehicle_id": vehicleID,
		"withheld":   true,
	})
}

func (h *AdminHandler) Release(w http.ResponseWriter, r *http.Request) {
	vehicleID := chi.URLParam(r, "vehicleID")
	h.planner.ReleaseVehicle(vehicleID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"vehicle_id": vehicleID,
		"withheld":   false,
	})
}
