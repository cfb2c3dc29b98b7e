package risk

import (
	"math"

	"github.com/jcarrasco96/outage-risk-service/internal/refdata"
	"github.com/jcarrasco96/outage-risk-service/internal/weather"
)

// Risk level labels, bucketed at scores of 40 and 70.
const (
	LevelLow      = "Low"
	LevelModerate = "Moderate"
	LevelHigh     = "High"
)

// LevelFor maps a risk score to its display level.
func LevelFor(score int) string {
	switch {
	case score < 40:
		return LevelLow
	case score < 70:
		return LevelModerate
	default:
		return LevelHigh
	}
}

// Scorer computes outage risk from the live forecast plus the immutable
// reference tables.
type Scorer struct {
	ref *refdata.Store
}

func NewScorer(ref *refdata.Store) *Scorer {
	return &Scorer{ref: ref}
}

// Score returns the bounded [5, 95] risk score for a neighborhood together
// with the anomaly factors that contributed to it. Neighborhoods with no
// historical records short-circuit to a fixed low-confidence score.
func (s *Scorer) Score(neighborhoodID string, current weather.Forecast) (int, []string) {
	history := s.ref.OutagesFor(neighborhoodID)
	if len(history) == 0 {
		return 30, []string{"Limited historical data for this area"}
	}

	anomalyScore, factors := DetectAnomaly(current, history)

	// Anomaly detection carries 40% of the weight.
	score := float64(anomalyScore) * 0.4

	// Similarity-weighted historical outage probability. Only records whose
	// weather is strictly more than 0.6 similar to the current forecast count
	// as comparable.
	var totalWeight, outageWeight float64
	var qualifying int
	for _, h := range history {
		sim := similarity(h.WeatherConditions, current)
		if sim > 0.6 {
			qualifying++
			totalWeight += sim
			if h.OutageOccurred {
				outageWeight += sim
			}
		}
	}

	if qualifying > 0 {
		probability := 0.5
		if totalWeight > 0 {
			probability = outageWeight / totalWeight
		}
		score += probability * 40
	} else {
		// No comparable conditions on record: moderate uncertainty default.
		score += 20
	}

	score += environmentalRisk(current) * 0.2

	// Infrastructure vulnerability, skipped silently when the neighborhood
	// has records but no reference entry.
	if n, err := s.ref.Neighborhood(neighborhoodID); err == nil {
		score += (n.VulnerabilityScore / 10) * 10
		score += (n.InfrastructureAge / 50) * 10
	}

	// Clamp to [5, 95] and truncate: consumers expect truncation, not rounding.
	return int(math.Min(95, math.Max(5, score))), factors
}

// similarity is a weighted [0, 1] closeness measure between a historical
// weather tuple and the current forecast. Wind is weighted heaviest because
// it is the dominant cause of line damage.
func similarity(wc refdata.WeatherConditions, current weather.Forecast) float64 {
	tempDiff := math.Abs(wc.Temp - current.Temp)
	windDiff := math.Abs(wc.WindSpeed - current.WindSpeed)
	precipDiff := math.Abs(wc.Precipitation - current.Precipitation)

	return (1-math.Min(tempDiff/50, 1))*0.3 +
		(1-math.Min(windDiff/100, 1))*0.4 +
		(1-math.Min(precipDiff/10, 1))*0.3
}

// environmentalRisk applies banded threshold adjustments. Each chain is
// ordered first-match-wins, so a -6°C reading earns only the deep-cold band.
func environmentalRisk(f weather.Forecast) float64 {
	var env float64

	if f.Temp < -5 {
		env += 15
	} else if f.Temp < 0 || f.Temp > 35 {
		env += 10
	} else if f.Temp > 30 {
		env += 5
	}

	if f.WindSpeed > 60 {
		env += 20
	} else if f.WindSpeed > 50 {
		env += 15
	} else if f.WindSpeed > 35 {
		env += 10
	}

	if f.Precipitation > 4 {
		env += 15
	} else if f.Precipitation > 3 {
		env += 10
	} else if f.Precipitation > 2 {
		env += 5
	}

	return env
}
