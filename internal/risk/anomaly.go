package risk

import (
	"fmt"
	"math"

	"github.com/jcarrasco96/outage-risk-service/internal/refdata"
	"github.com/jcarrasco96/outage-risk-service/internal/weather"
)

// Fixed spread priors used when a single historical record leaves the
// standard deviation undefined. Keeps z-scores from blowing up on division.
const (
	tempStdPrior   = 10.0
	windStdPrior   = 15.0
	precipStdPrior = 1.0
)

// DetectAnomaly scores how unusual the current forecast is relative to a
// neighborhood's historical weather distribution. The score is in [0, 100];
// the factor list is never empty and keeps temperature, wind, precipitation
// order. With no history at all it returns a neutral 50.
func DetectAnomaly(current weather.Forecast, history []refdata.OutageRecord) (int, []string) {
	if len(history) == 0 {
		return 50, []string{"Limited historical data available"}
	}

	temps := make([]float64, 0, len(history))
	winds := make([]float64, 0, len(history))
	precips := make([]float64, 0, len(history))
	for _, h := range history {
		temps = append(temps, h.WeatherConditions.Temp)
		winds = append(winds, h.WeatherConditions.WindSpeed)
		precips = append(precips, h.WeatherConditions.Precipitation)
	}

	tempMean := Mean(temps)
	windMean := Mean(winds)
	precipMean := Mean(precips)

	tempZ := zScore(current.Temp, tempMean, stdOrPrior(temps, tempStdPrior))
	windZ := zScore(current.WindSpeed, windMean, stdOrPrior(winds, windStdPrior))
	precipZ := zScore(current.Precipitation, precipMean, stdOrPrior(precips, precipStdPrior))

	var factors []string
	score := 0

	if tempZ > 2 {
		score += 30
		if current.Temp < tempMean {
			factors = append(factors, fmt.Sprintf("Unusually cold temperature (%.1f°C vs avg %.1f°C)", current.Temp, tempMean))
		} else {
			factors = append(factors, fmt.Sprintf("Unusually hot temperature (%.1f°C vs avg %.1f°C)", current.Temp, tempMean))
		}
	} else if tempZ > 1 {
		score += 15
	}

	if windZ > 2 {
		score += 35
		factors = append(factors, fmt.Sprintf("Unusually high winds (%.1f km/h vs avg %.1f km/h)", current.WindSpeed, windMean))
	} else if windZ > 1 {
		score += 20
	}

	if precipZ > 2 {
		score += 25
		factors = append(factors, fmt.Sprintf("Unusually heavy precipitation (%.1f mm vs avg %.1f mm)", current.Precipitation, precipMean))
	} else if precipZ > 1 {
		score += 15
	}

	if score > 100 {
		score = 100
	}

	if len(factors) == 0 {
		factors = append(factors, "Weather conditions within normal range")
	}

	return score, factors
}

// stdOrPrior falls back to a fixed prior when fewer than two samples exist.
func stdOrPrior(values []float64, prior float64) float64 {
	if len(values) > 1 {
		return StdDev(values)
	}
	return prior
}

// zScore is the absolute z-score, defined as 0 when the spread is 0.
func zScore(value, mean, std float64) float64 {
	if std <= 0 {
		return 0
	}
	return math.Abs((value - mean) / std)
}
