package refdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// ErrNotFound is returned when a neighborhood id has no reference entry.
	ErrNotFound = errors.New("neighborhood not found")
)

// Neighborhood is one entry of the static reference set served by /map-data.
type Neighborhood struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Lat                float64 `json:"lat"`
	Lng                float64 `json:"lng"`
	VulnerabilityScore float64 `json:"vulnerability_score"`
	InfrastructureAge  float64 `json:"infrastructure_age"`
}

// WeatherConditions holds the weather observed during a historical outage
// window. Field names match the live forecast payload so the two can be
// compared dimension by dimension.
type WeatherConditions struct {
	Temp          float64 `json:"temp"`
	WindSpeed     float64 `json:"wind_speed"`
	Precipitation float64 `json:"precipitation"`
}

// OutageRecord is a single historical observation: the weather at the time
// and whether an outage actually occurred.
type OutageRecord struct {
	NeighborhoodID    string            `json:"neighborhood_id"`
	WeatherConditions WeatherConditions `json:"weather_conditions"`
	OutageOccurred    bool              `json:"outage_occurred"`
}

// Store holds the immutable reference tables. Both tables are loaded once at
// process start and never mutated afterwards, so concurrent readers need no
// locking. Records referencing an unknown neighborhood are kept; lookups on
// the other side simply come back empty.
type Store struct {
	neighborhoods []Neighborhood
	byID          map[string]Neighborhood
	outages       map[string][]OutageRecord
}

// New builds a Store from already-decoded reference data.
func New(neighborhoods []Neighborhood, records []OutageRecord) *Store {
	s := &Store{
		neighborhoods: neighborhoods,
		byID:          make(map[string]Neighborhood, len(neighborhoods)),
		outages:       make(map[string][]OutageRecord),
	}
	for _, n := range neighborhoods {
		s.byID[n.ID] = n
	}
	for _, r := range records {
		s.outages[r.NeighborhoodID] = append(s.outages[r.NeighborhoodID], r)
	}
	return s
}

// Load reads neighborhoods.json and historical_outages.json from dir.
// Any failure here is fatal to startup; the service cannot score without
// its reference tables.
func Load(dir string) (*Store, error) {
	var neighborhoods []Neighborhood
	if err := loadJSON(filepath.Join(dir, "neighborhoods.json"), &neighborhoods); err != nil {
		return nil, fmt.Errorf("load neighborhoods: %w", err)
	}

	var records []OutageRecord
	if err := loadJSON(filepath.Join(dir, "historical_outages.json"), &records); err != nil {
		return nil, fmt.Errorf("load historical outages: %w", err)
	}

	return New(neighborhoods, records), nil
}

func loadJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Neighborhood looks up a single neighborhood by id.
func (s *Store) Neighborhood(id string) (Neighborhood, error) {
	n, ok := s.byID[id]
	if !ok {
		return Neighborhood{}, ErrNotFound
	}
	return n, nil
}

// Neighborhoods returns all neighborhoods in their original load order.
func (s *Store) Neighborhoods() []Neighborhood {
	return s.neighborhoods
}

// OutagesFor returns the historical records for one neighborhood. The result
// is nil for neighborhoods with no history, including unknown ids.
func (s *Store) OutagesFor(id string) []OutageRecord {
	return s.outages[id]
}
