// Package explain turns a scored risk assessment into plain-language text
// for people who depend on continuous power for medical or daily needs.
package explain

import (
	"context"

	"github.com/jcarrasco96/outage-risk-service/internal/weather"
)

// Input carries everything needed to explain one risk assessment.
// NeighborhoodName may be empty when the id has no reference entry;
// generators then fall back to a generic display name.
type Input struct {
	NeighborhoodID   string
	NeighborhoodName string
	RiskScore        int
	RiskLevel        string
	Weather          weather.Forecast
	AnomalyFactors   []string
}

// Generator produces explanatory text for end users.
type Generator interface {
	Generate(ctx context.Context, in Input) (string, error)
}
