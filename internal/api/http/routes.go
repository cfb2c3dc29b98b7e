package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jcarrasco96/outage-risk-service/internal/explain"
	"github.com/jcarrasco96/outage-risk-service/internal/observability"
	"github.com/jcarrasco96/outage-risk-service/internal/refdata"
	"github.com/jcarrasco96/outage-risk-service/internal/risk"
	"github.com/jcarrasco96/outage-risk-service/internal/weather"
)

var validate = validator.New()

// Fixed service inventories surfaced in API responses. The /risk list
// carries provider suffixes; /health uses the short names.
var (
	healthServices = []string{
		"Statistical Anomaly Detection",
		"Machine Learning Pattern Recognition",
		"Predictive Risk Modeling",
		"Natural Language Generation",
	}
	riskServices = []string{
		"Statistical Anomaly Detection (Custom ML)",
		"Machine Learning Pattern Recognition",
		"Predictive Risk Modeling",
		"Natural Language Generation (GitHub Models - Microsoft Azure OpenAI)",
	}
)

// Deps bundles the collaborators the HTTP layer needs.
type Deps struct {
	Ref       *refdata.Store
	Weather   weather.Provider
	Scorer    *risk.Scorer
	Explainer explain.Generator
	Logger    *slog.Logger
	Metrics   *observability.Metrics

	WeatherTimeout time.Duration
	ExplainTimeout time.Duration
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "healthy",
			"timestamp":   time.Now().Format(time.RFC3339),
			"ai_services": healthServices,
		})
	})

	app.Get("/map-data", func(c *fiber.Ctx) error {
		return c.JSON(d.Ref.Neighborhoods())
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/risk", func(c *fiber.Ctx) error {
		q := riskQuery{NeighborhoodID: c.Query("neighborhood_id")}
		if err := validate.Struct(q); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "neighborhood_id required",
			})
		}

		neighborhood, err := d.Ref.Neighborhood(q.NeighborhoodID)
		if err != nil {
			if errors.Is(err, refdata.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Neighborhood not found",
				})
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to look up neighborhood")
		}

		// The provider is wrapped in a fallback decorator and cannot fail,
		// but degrade defensively if a bare provider is ever wired in.
		forecastCtx, cancel := context.WithTimeout(c.Context(), d.WeatherTimeout)
		defer cancel()
		forecast, err := d.Weather.Fetch(forecastCtx, neighborhood.Lat, neighborhood.Lng)
		if err != nil {
			d.Logger.Warn("weather fetch error reached handler", "error", err)
			forecast = weather.DefaultForecast
		}

		score, factors := d.Scorer.Score(neighborhood.ID, forecast)
		level := risk.LevelFor(score)

		explainCtx, cancel := context.WithTimeout(c.Context(), d.ExplainTimeout)
		defer cancel()
		explanation, err := d.Explainer.Generate(explainCtx, explain.Input{
			NeighborhoodID:   neighborhood.ID,
			NeighborhoodName: neighborhood.Name,
			RiskScore:        score,
			RiskLevel:        level,
			Weather:          forecast,
			AnomalyFactors:   factors,
		})
		if err != nil {
			// Generator stacks end in the deterministic rule-based templates.
			explanation, _ = explain.RuleBased{}.Generate(explainCtx, explain.Input{
				NeighborhoodName: neighborhood.Name,
				RiskScore:        score,
				Weather:          forecast,
			})
		}

		d.Metrics.Assessments.WithLabelValues(level).Inc()

		return c.JSON(riskResponse{
			NeighborhoodID:   neighborhood.ID,
			NeighborhoodName: neighborhood.Name,
			RiskScore:        score,
			RiskLevel:        level,
			Explanation:      explanation,
			Weather:          forecast,
			AnomalyFactors:   factors,
			ServicesUsed:     riskServices,
			Timestamp:        time.Now().Format(time.RFC3339),
		})
	})
}

// riskQuery holds the /risk query parameters.
type riskQuery struct {
	NeighborhoodID string `validate:"required"`
}

// riskResponse is the /risk success payload.
type riskResponse struct {
	NeighborhoodID   string           `json:"neighborhood_id"`
	NeighborhoodName string           `json:"neighborhood_name"`
	RiskScore        int              `json:"risk_score"`
	RiskLevel        string           `json:"risk_level"`
	Explanation      string           `json:"explanation"`
	Weather          weather.Forecast `json:"weather"`
	AnomalyFactors   []string         `json:"anomaly_factors"`
	ServicesUsed     []string         `json:"microsoft_ai_services_used"`
	Timestamp        string           `json:"timestamp"`
}
