// seed_roster.go — standalone script to load passenger and vehicle CSVs and
// seed an event roster via the Convoy API.
//
// Usage:
//
//	go run scripts/seed_roster.go -event evt-2026-gala \
//	    -passengers passengers.csv -vehicles vehicles.csv \
//	    -api http://localhost:8610 -client seed -plan
//
// Passenger CSV columns: guest_id,name,pickup,dropoff,priority,requirements
// Vehicle CSV columns:   vehicle_id,name,type,capacity,features,accessible,cost_per_unit
// The requirements and features columns are ;-separated lists.
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

type passenger struct {
	GuestID      string   `json:"guest_id"`
	Name         string   `json:"name"`
	Pickup       string   `json:"pickup"`
	Dropoff      string   `json:"dropoff"`
	Priority     int      `json:"priority"`
	Requirements []string `json:"requirements,omitempty"`
}

type vehicle struct {
	ID             string    `json:"vehicle_id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	Capacity       int       `json:"capacity"`
	Features       []string  `json:"features,omitempty"`
	Accessible     bool      `json:"accessible"`
	CostPerUnit    float64   `json:"cost_per_unit"`
	AvailableFrom  time.Time `json:"available_from"`
	AvailableUntil time.Time `json:"available_until"`
	Operational    bool      `json:"operational"`
}

func main() {
	eventID := flag.String("event", "", "event id to seed")
	passengersPath := flag.String("passengers", "passengers.csv", "path to passenger CSV")
	vehiclesPath := flag.String("vehicles", "vehicles.csv", "path to vehicle CSV")
	apiURL := flag.String("api", "http://localhost:8610", "Convoy API base URL")
	clientID := flag.String("client", "seed", "X-Client-ID header value")
	window := flag.Duration("window", 24*time.Hour, "vehicle availability window from now")
	queuePlan := flag.Bool("plan", false, "queue an optimization run after seeding")
	dryRun := flag.Bool("dry-run", false, "print the roster without posting")
	flag.Parse()

	if *eventID == "" {
		log.Fatal("-event is required")
	}

	passengers, err := loadPassengers(*passengersPath)
	if err != nil {
		log.Fatalf("load passengers: %v", err)
	}
	vehicles, err := loadVehicles(*vehiclesPath, *window)
	if err != nil {
		log.Fatalf("load vehicles: %v", err)
	}
	log.Printf("parsed %d passengers, %d vehicles", len(passengers), len(vehicles))

	if *dryRun {
		for i, p := range passengers {
			fmt.Printf("[p%d] %s %s→%s prio=%d reqs=%v\n", i+1, p.GuestID, p.Pickup, p.Dropoff, p.Priority, p.Requirements)
		}
		for i, v := range vehicles {
			fmt.Printf("[v%d] %s type=%s cap=%d accessible=%v features=%v\n", i+1, v.ID, v.Type, v.Capacity, v.Accessible, v.Features)
		}
		return
	}

	client := &http.Client{Timeout: 10 * time.Second}

	roster := map[string]interface{}{"passengers": passengers, "vehicles": vehicles}
	if err := send(client, http.MethodPut, *apiURL+"/api/v1/events/"+*eventID+"/roster", *clientID, roster); err != nil {
		log.Fatalf("save roster: %v", err)
	}
	log.Printf("roster saved for event %s", *eventID)

	if *queuePlan {
		if err := send(client, http.MethodPost, *apiURL+"/api/v1/events/"+*eventID+"/plans", *clientID, nil); err != nil {
			log.Fatalf("queue plan: %v", err)
		}
		log.Printf("plan queued for event %s", *eventID)
	}
}

func loadPassengers(path string) ([]passenger, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	var out []passenger
	for _, row := range rows {
		if len(row) < 5 {
			return nil, fmt.Errorf("passenger row needs 5+ columns, got %d", len(row))
		}
		priority, err := strconv.Atoi(strings.TrimSpace(row[4]))
		if err != nil {
			return nil, fmt.Errorf("passenger %s: bad priority %q", row[0], row[4])
		}
		p := passenger{
			GuestID:  strings.TrimSpace(row[0]),
			Name:     strings.TrimSpace(row[1]),
			Pickup:   strings.TrimSpace(row[2]),
			Dropoff:  strings.TrimSpace(row[3]),
			Priority: priority,
		}
		if len(row) > 5 {
			p.Requirements = splitList(row[5])
		}
		out = append(out, p)
	}
	return out, nil
}

func loadVehicles(path string, window time.Duration) ([]vehicle, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	var out []vehicle
	for _, row := range rows {
		if len(row) < 7 {
			return nil, fmt.Errorf("vehicle row needs 7 columns, got %d", len(row))
		}
		capacity, err := strconv.Atoi(strings.TrimSpace(row[3]))
		if err != nil {
			return nil, fmt.Errorf("vehicle %s: bad capacity %q", row[0], row[3])
		}
		accessible, _ := strconv.ParseBool(strings.TrimSpace(row[5]))
		cost, err := strconv.ParseFloat(strings.TrimSpace(row[6]), 64)
		if err != nil {
			return nil, fmt.Errorf("vehicle %s: bad cost %q", row[0], row[6])
		}
		out = append(out, vehicle{
			ID:             strings.TrimSpace(row[0]),
			Name:           strings.TrimSpace(row[1]),
			Type:           strings.TrimSpace(row[2]),
			Capacity:       capacity,
			Features:       splitList(row[4]),
			Accessible:     accessible,
			CostPerUnit:    cost,
			AvailableFrom:  now,
			AvailableUntil: now.Add(window),
			Operational:    true,
		})
	}
	return out, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	// Skip a header row if present.
	if len(rows) > 0 && strings.EqualFold(strings.TrimSpace(rows[0][0]), "guest_id") {
		rows = rows[1:]
	}
	if len(rows) > 0 && strings.EqualFold(strings.TrimSpace(rows[0][0]), "vehicle_id") {
		rows = rows[1:]
	}
	return rows, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func send(client *http.Client, method, url, clientID string, payload interface{}) error {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-ID", clientID)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("status %d from %s %s", resp.StatusCode, method, url)
	}
	return nil
}
