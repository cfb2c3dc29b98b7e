package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	httpapi "github.com/jcarrasco96/outage-risk-service/internal/api/http"
	"github.com/jcarrasco96/outage-risk-service/internal/config"
	"github.com/jcarrasco96/outage-risk-service/internal/explain"
	"github.com/jcarrasco96/outage-risk-service/internal/observability"
	"github.com/jcarrasco96/outage-risk-service/internal/refdata"
	"github.com/jcarrasco96/outage-risk-service/internal/risk"
	"github.com/jcarrasco96/outage-risk-service/internal/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Reference tables: loaded once, immutable for the process lifetime.
	// Load failure is fatal; the service cannot score without them.
	ref, err := refdata.Load(cfg.DataDir)
	if err != nil {
		logger.Error("failed to load reference data", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}
	logger.Info("reference data loaded",
		"neighborhoods", len(ref.Neighborhoods()), "dir", cfg.DataDir)

	// Outbound collaborators, each behind its own fallback decorator.
	weatherClient := &http.Client{Timeout: cfg.WeatherTimeout}
	var provider weather.Provider = weather.NewOpenWeatherProvider(weatherClient, cfg.WeatherAPIKey)
	provider = weather.NewWithFallback(provider, logger, metrics)

	explainClient := &http.Client{Timeout: cfg.ExplainTimeout}
	model := explain.NewModelClient(explainClient, cfg.GitHubToken)
	explainer := explain.NewWithFallback(model, logger, metrics)

	scorer := risk.NewScorer(ref)

	app := fiber.New(fiber.Config{
		AppName:               "outage-risk-service",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Global middleware.
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Ref:            ref,
		Weather:        provider,
		Scorer:         scorer,
		Explainer:      explainer,
		Logger:         logger,
		Metrics:        metrics,
		WeatherTimeout: cfg.WeatherTimeout,
		ExplainTimeout: cfg.ExplainTimeout,
	})

	go func() {
		logger.Info("http server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}

	logger.Info("shutdown complete")
}
