package routes

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"scanmatch-utils/internal/api/handlers"
	"scanmatch-utils/internal/api/middleware"
	"scanmatch-utils/internal/config"
	"scanmatch-utils/internal/scanner"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, svc *scanner.Service, engine handlers.HealthChecker) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.TimeoutConfig(cfg.Server.ReadTimeout))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(engine))
		health.GET("/live", handlers.LivenessHandler)
	}

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		v1.POST("/analyze", handlers.AnalyzeResumeHandler(svc))
		v1.GET("/status/:jobId", handlers.JobStatusHandler(svc))
		v1.DELETE("/status/:jobId", handlers.DeleteJobHandler(svc))
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"service": "ScanMatch Resume Analyzer",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
