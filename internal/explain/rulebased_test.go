package explain

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcarrasco96/outage-risk-service/internal/weather"
)

func TestRuleBased_Generate(t *testing.T) {
	ctx := context.Background()
	gen := RuleBased{}

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		in := Input{
			NeighborhoodName: "Riverside",
			RiskScore:        55,
			Weather:          weather.Forecast{Temp: -3, WindSpeed: 45, Precipitation: 3},
		}
		first, err := gen.Generate(ctx, in)
		require.NoError(t, err)
		second, err := gen.Generate(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("low band", func(t *testing.T) {
		text, err := gen.Generate(ctx, Input{
			NeighborhoodName: "Riverside",
			RiskScore:        20,
			Weather:          weather.Forecast{Temp: 15, WindSpeed: 25, Precipitation: 1.5},
		})
		require.NoError(t, err)
		assert.Equal(t, "Low risk of power outage in Riverside. Weather conditions are within normal range with 15.0°C and 25.0 km/h winds. No immediate preparation needed, but it's always good to have flashlights and charged devices ready.", text)
	})

	t.Run("moderate band picks wind concern first", func(t *testing.T) {
		// Wind, freezing temperature, and precipitation thresholds are all
		// crossed; wind has priority.
		text, err := gen.Generate(ctx, Input{
			NeighborhoodName: "Riverside",
			RiskScore:        55,
			Weather:          weather.Forecast{Temp: -3, WindSpeed: 45, Precipitation: 3},
		})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(text, "Moderate risk of power outage in Riverside."))
		assert.Contains(t, text, "high winds of 45.0 km/h")
	})

	t.Run("moderate band freezing concern", func(t *testing.T) {
		text, err := gen.Generate(ctx, Input{
			NeighborhoodName: "Riverside",
			RiskScore:        50,
			Weather:          weather.Forecast{Temp: -3, WindSpeed: 20, Precipitation: 1},
		})
		require.NoError(t, err)
		assert.Contains(t, text, "freezing temperatures of -3.0°C")
	})

	t.Run("moderate band generic concern", func(t *testing.T) {
		text, err := gen.Generate(ctx, Input{
			NeighborhoodName: "Riverside",
			RiskScore:        45,
			Weather:          weather.Forecast{Temp: 10, WindSpeed: 20, Precipitation: 1},
		})
		require.NoError(t, err)
		assert.Contains(t, text, "concerning weather patterns")
	})

	t.Run("high band wind concern and action", func(t *testing.T) {
		text, err := gen.Generate(ctx, Input{
			NeighborhoodName: "Cedar Heights",
			RiskScore:        80,
			Weather:          weather.Forecast{Temp: 5, WindSpeed: 55, Precipitation: 1},
		})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(text, "High risk of power outage in Cedar Heights."))
		assert.Contains(t, text, "dangerous wind speeds of 55.0 km/h")
		assert.Contains(t, text, "Secure loose outdoor items and stay indoors")
		assert.Contains(t, text, "Charge all essential medical devices immediately")
	})

	t.Run("high band extreme cold", func(t *testing.T) {
		text, err := gen.Generate(ctx, Input{
			NeighborhoodName: "Cedar Heights",
			RiskScore:        75,
			Weather:          weather.Forecast{Temp: -8, WindSpeed: 30, Precipitation: 1},
		})
		require.NoError(t, err)
		assert.Contains(t, text, "extreme cold of -8.0°C")
		assert.Contains(t, text, "Prepare extra blankets and heating alternatives")
	})

	t.Run("high band severe precipitation", func(t *testing.T) {
		text, err := gen.Generate(ctx, Input{
			NeighborhoodName: "Cedar Heights",
			RiskScore:        72,
			Weather:          weather.Forecast{Temp: 5, WindSpeed: 30, Precipitation: 5},
		})
		require.NoError(t, err)
		assert.Contains(t, text, "severe precipitation of 5.0 mm")
		assert.Contains(t, text, "Prepare for possible flooding and power disruptions")
	})

	t.Run("high band generic", func(t *testing.T) {
		text, err := gen.Generate(ctx, Input{
			NeighborhoodName: "Cedar Heights",
			RiskScore:        90,
			Weather:          weather.Forecast{Temp: 5, WindSpeed: 30, Precipitation: 1},
		})
		require.NoError(t, err)
		assert.Contains(t, text, "severe weather conditions")
		assert.Contains(t, text, "Take immediate preparatory measures")
	})

	t.Run("unknown neighborhood renders your area", func(t *testing.T) {
		text, err := gen.Generate(ctx, Input{
			RiskScore: 20,
			Weather:   weather.Forecast{Temp: 15, WindSpeed: 25, Precipitation: 1.5},
		})
		require.NoError(t, err)
		assert.Contains(t, text, "Low risk of power outage in your area.")
	})

	t.Run("bands align with risk level thresholds", func(t *testing.T) {
		in := Input{NeighborhoodName: "X", Weather: weather.Forecast{Temp: 10, WindSpeed: 20, Precipitation: 1}}

		for score, prefix := range map[int]string{
			39: "Low risk",
			40: "Moderate risk",
			69: "Moderate risk",
			70: "High risk",
		} {
			in.RiskScore = score
			text, err := gen.Generate(ctx, in)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(text, prefix), "score %d should render %q", score, prefix)
		}
	})
}
