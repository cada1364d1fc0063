package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eventra-Labs/Convoy/internal/config"
	"github.com/Eventra-Labs/Convoy/internal/engine"
	"github.com/Eventra-Labs/Convoy/internal/model"
	"github.com/Eventra-Labs/Convoy/internal/planner"
	"github.com/Eventra-Labs/Convoy/internal/store"
)

type testServer struct {
	store   *store.Memory
	planner *planner.Planner
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		Server:  config.ServerConfig{AdminToken: "test-token"},
		Planner: config.PlannerConfig{TickIntervalMs: 60000, RunDeadlineMs: 60000},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := store.NewMemory()
	p := planner.New(s, nil, engine.New(nil, nil, nil, logger), cfg, logger)
	return &testServer{
		store:   s,
		planner: p,
		handler: NewRouter(s, nil, p, cfg, logger),
	}
}

func (ts *testServer) do(method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-Client-ID", "test-client")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func rosterBody() map[string]interface{} {
	now := time.Now()
	return map[string]interface{}{
		"passengers": []model.Passenger{
			{GuestID: "a", Name: "A", Pickup: "hotel", Dropoff: "venue", Priority: 5},
			{GuestID: "b", Name: "B", Pickup: "hotel", Dropoff: "venue", Priority: 7},
		},
		"vehicles": []model.Vehicle{
			{
				ID: "v1", Name: "Van 1", Type: model.TypeVan, Capacity: 6,
				CostPerUnit: 1.0, Operational: true,
				AvailableFrom: now.Add(-time.Hour), AvailableUntil: now.Add(12 * time.Hour),
			},
		},
	}
}

func TestSaveRoster(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPut, "/api/v1/events/evt-1/roster", rosterBody(), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "evt-1", resp["event_id"])
	assert.Equal(t, float64(2), resp["passengers"])
	assert.Equal(t, float64(1), resp["vehicles"])

	passengers, err := ts.store.LoadCandidatePassengers(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.Len(t, passengers, 2)
}

func TestSaveRosterRejectsBadPayload(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/events/evt-1/roster", bytes.NewReader([]byte("{not json")))
	req.Header.Set("X-Client-ID", "test-client")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClientIDRequired(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/evt-1/plans", nil)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateAndGetPlan(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusOK, ts.do(http.MethodPut, "/api/v1/events/evt-1/roster", rosterBody(), nil).Code)

	rec := ts.do(http.MethodPost, "/api/v1/events/evt-1/plans", nil, nil)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var plan store.PlanRequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, "evt-1", plan.EventID)
	assert.Equal(t, store.PlanPending, plan.Status)
	assert.Equal(t, "test-client", plan.RequestedBy)

	rec = ts.do(http.MethodGet, "/api/v1/plans/"+plan.ID.String(), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodGet, "/api/v1/events/evt-1/plans", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var plans []store.PlanRequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plans))
	assert.Len(t, plans, 1)
}

func TestCreatePlanWithOptions(t *testing.T) {
	ts := newTestServer(t)

	opts := model.DefaultOptions()
	opts.MaximizeComfort = true
	rec := ts.do(http.MethodPost, "/api/v1/events/evt-1/plans", map[string]interface{}{"options": opts}, nil)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var plan store.PlanRequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.True(t, plan.Options.MaximizeComfort)
}

func TestCreatePlanBodyHandling(t *testing.T) {
	ts := newTestServer(t)

	// No body at all falls back to the configured defaults.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/evt-1/plans", nil)
	req.Header.Set("X-Client-ID", "test-client")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	// A present-but-broken body is still a client error.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/events/evt-1/plans", bytes.NewReader([]byte("{not json")))
	req.Header.Set("X-Client-ID", "test-client")
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPlanErrors(t *testing.T) {
	ts := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodGet, "/api/v1/plans/not-a-uuid", nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, "/api/v1/plans/00000000-0000-0000-0000-000000000001", nil, nil).Code)
}

func TestGroupsAndExplain(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	require.Equal(t, http.StatusOK, ts.do(http.MethodPut, "/api/v1/events/evt-1/roster", rosterBody(), nil).Code)

	rec := ts.do(http.MethodPost, "/api/v1/events/evt-1/plans", nil, nil)
	require.Equal(t, http.StatusAccepted, rec.Code)
	var plan store.PlanRequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))

	// Run the queued plan the way the planner loop would.
	pending, err := ts.store.GetPendingPlanRequests(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.NoError(t, ts.planner.Run(ctx, pending[0]))

	rec = ts.do(http.MethodGet, "/api/v1/plans/"+plan.ID.String()+"/groups", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var groups []model.Group
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, "v1", groups[0].VehicleID)

	rec = ts.do(http.MethodGet, "/api/v1/plans/"+plan.ID.String()+"/groups/"+groups[0].ID+"/explain", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var explain struct {
		GroupID   string                   `json:"group_id"`
		VehicleID string                   `json:"vehicle_id"`
		Frontier  []map[string]interface{} `json:"pareto_frontier"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &explain))
	assert.Equal(t, groups[0].ID, explain.GroupID)
	assert.Equal(t, "v1", explain.VehicleID)
	assert.NotEmpty(t, explain.Frontier)

	rec = ts.do(http.MethodGet, "/api/v1/plans/"+plan.ID.String()+"/groups/unknown/explain", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminAuth(t *testing.T) {
	ts := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, ts.do(http.MethodGet, "/api/v1/stats", nil, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, ts.do(http.MethodGet, "/api/v1/stats", nil, map[string]string{
		"Authorization": "Bearer wrong",
	}).Code)

	rec := ts.do(http.MethodGet, "/api/v1/stats", nil, map[string]string{
		"Authorization": "Bearer test-token",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var stats store.PlanStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
}

func TestWithholdAndRelease(t *testing.T) {
	ts := newTestServer(t)
	auth := map[string]string{"Authorization": "Bearer test-token"}

	rec := ts.do(http.MethodPost, "/api/v1/vehicles/v1/withhold", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ts.planner.IsWithheld("v1"))

	rec = ts.do(http.MethodDelete, "/api/v1/vehicles/v1/withhold", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, ts.planner.IsWithheld("v1"))
}

func TestMetricsRouter(t *testing.T) {
	handler := NewMetricsRouter()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
