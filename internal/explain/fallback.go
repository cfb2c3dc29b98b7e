package explain

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jcarrasco96/outage-risk-service/internal/observability"
)

// WithFallback tries the primary generator and degrades to the rule-based
// templates on any failure. Callers never see an error.
type WithFallback struct {
	primary  Generator
	fallback RuleBased
	logger   *slog.Logger
	metrics  *observability.Metrics
}

func NewWithFallback(primary Generator, logger *slog.Logger, metrics *observability.Metrics) *WithFallback {
	return &WithFallback{
		primary: primary,
		logger:  logger,
		metrics: metrics,
	}
}

func (w *WithFallback) Generate(ctx context.Context, in Input) (string, error) {
	text, err := w.primary.Generate(ctx, in)
	if err == nil {
		w.metrics.Explanations.WithLabelValues("model").Inc()
		return text, nil
	}

	// An unconfigured token is expected in local setups; anything else is
	// worth an operator-visible warning.
	if errors.Is(err, ErrNoCredential) {
		w.logger.Debug("text generation skipped", "reason", err)
	} else {
		w.logger.Warn("text generation failed, using rule-based explanation",
			"neighborhood_id", in.NeighborhoodID, "error", err)
	}

	w.metrics.Explanations.WithLabelValues("fallback").Inc()
	return w.fallback.Generate(ctx, in)
}
