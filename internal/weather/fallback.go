package weather

import (
	"context"
	"log/slog"
	"time"

	"github.com/jcarrasco96/outage-risk-service/internal/observability"
)

// WithFallback wraps a Provider so that any upstream failure degrades to
// DefaultForecast instead of an error. The risk pipeline must never be
// blocked by provider unavailability.
type WithFallback struct {
	inner   Provider
	logger  *slog.Logger
	metrics *observability.Metrics
}

func NewWithFallback(inner Provider, logger *slog.Logger, metrics *observability.Metrics) *WithFallback {
	return &WithFallback{
		inner:   inner,
		logger:  logger,
		metrics: metrics,
	}
}

// Fetch never returns an error: failures are logged, counted, and replaced
// by the fixed fallback forecast.
func (w *WithFallback) Fetch(ctx context.Context, lat, lng float64) (Forecast, error) {
	start := time.Now()
	forecast, err := w.inner.Fetch(ctx, lat, lng)
	w.metrics.WeatherFetchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		w.logger.Warn("weather provider failed, using fallback forecast",
			"lat", lat, "lng", lng, "error", err)
		w.metrics.WeatherFetches.WithLabelValues("fallback").Inc()
		return DefaultForecast, nil
	}

	w.metrics.WeatherFetches.WithLabelValues("live").Inc()
	return forecast, nil
}
