package main

import (
	"github.com/naluwan/bttdb-schedule/internal/handler"
	mid "github.com/naluwan/bttdb-schedule/internal/middleware"
	"github.com/naluwan/bttdb-schedule/pkg/config"
	"github.com/naluwan/bttdb-schedule/pkg/database"
	"github.com/naluwan/bttdb-schedule/pkg/jwtutil"
	"github.com/naluwan/bttdb-schedule/pkg/logger"
	"github.com/naluwan/bttdb-schedule/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting bttdb-schedule",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Wire scheduling components
	if err := handler.Init(appConfig); err != nil {
		log.Fatal("Failed to initialize handlers", zap.Error(err))
	}
	log.Info("Scheduling components initialized",
		zap.String("timezone", appConfig.Schedule.Timezone),
		zap.Int("batch_size", appConfig.Schedule.BatchSize))

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.Health)

	// Company-scoped API - the :company slug resolves to a tenant before
	// anything else runs
	api := e.Group("/api/:company", mid.TenantMiddleware)
	api.POST("/auth/login", handler.Login)

	secured := api.Group("", mid.AuthMiddleware)
	secured.GET("/auth/verify", handler.Verify)
	secured.PATCH("/auth/password", handler.ChangePassword)

	secured.GET("/employees", handler.ListEmployees)
	secured.POST("/employees", handler.RegisterEmployee)

	secured.GET("/shifts", handler.ListShifts)
	secured.POST("/shifts", handler.CreateShift)
	secured.PATCH("/shifts/completion", handler.ToggleCompletion)
	secured.PATCH("/shifts/:id", handler.UpdateShift)
	secured.DELETE("/shifts/:id", handler.DeleteShift)

	secured.POST("/schedule/auto", handler.AutoSchedule)
	secured.DELETE("/schedule/auto", handler.TeardownSchedule)
	secured.GET("/schedule/progress", handler.Progress)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
