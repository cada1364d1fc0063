// Package geo adapts an external travel-time service to the engine's
// route Estimator interface. When the service is unreachable the caller
// falls back to the engine's static estimate.
package geo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Eventra-Labs/Convoy/internal/model"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type estimateRequest struct {
	Stops      []model.Stop `json:"stops"`
	Passengers int          `json:"passengers"`
}

type estimateResponse struct {
	Minutes       int     `json:"minutes"`
	DistanceUnits float64 `json:"distance_units"`
}

// Estimate implements engine.Estimator against the travel-time service.
func (c *Client) Estimate(ctx context.Context, stops []model.Stop, passengerCount int) (int, float64, error) {
	body, err := json.Marshal(estimateRequest{Stops: stops, Passengers: passengerCount})
	if err != nil {
		return 0, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/estimate", bytes.NewReader(body))
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geo estimate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geo estimate: unexpected status %d", resp.StatusCode)
	}

	var out estimateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, 0, fmt.Errorf("geo estimate: decode: %w", err)
	}
	return out.Minutes, out.DistanceUnits, nil
}
