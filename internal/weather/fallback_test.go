package weather

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcarrasco96/outage-risk-service/internal/observability"
)

type stubProvider struct {
	forecast Forecast
	err      error
}

func (s stubProvider) Fetch(context.Context, float64, float64) (Forecast, error) {
	return s.forecast, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWithFallback_Fetch(t *testing.T) {
	t.Run("passes through live data", func(t *testing.T) {
		inner := stubProvider{forecast: Forecast{Temp: 7.5, WindSpeed: 33.0, Precipitation: 0.4}}
		p := NewWithFallback(inner, discardLogger(), observability.NewMetricsForTesting())

		forecast, err := p.Fetch(context.Background(), 43.65, -79.38)
		require.NoError(t, err)
		assert.Equal(t, inner.forecast, forecast)
	})

	t.Run("provider failure degrades to the fixed forecast", func(t *testing.T) {
		inner := stubProvider{err: errors.New("connection refused")}
		p := NewWithFallback(inner, discardLogger(), observability.NewMetricsForTesting())

		forecast, err := p.Fetch(context.Background(), 43.65, -79.38)
		require.NoError(t, err)
		assert.Equal(t, DefaultForecast, forecast)
		assert.Equal(t, 15.0, forecast.Temp)
		assert.Equal(t, 25.0, forecast.WindSpeed)
		assert.Equal(t, 1.5, forecast.Precipitation)
	})
}
