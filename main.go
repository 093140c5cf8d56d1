package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"arm-control/broadcast"
	"arm-control/config"
	"arm-control/handlers"
	"arm-control/kinematics"
	"arm-control/logging"
	"arm-control/motion"
	"arm-control/mqtt"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	logger := logging.NewLogger(cfg.LogLevel)

	// Load the kinematic chain description. A malformed chain is fatal.
	chain, err := kinematics.Load(cfg.ChainPath)
	if err != nil {
		log.Fatalf("Failed to load kinematic chain: %v", err)
	}
	logger.Info("Kinematic chain loaded", "joints", len(chain.Joints()), "path", cfg.ChainPath)

	// Motion engine: shared state, executor and fixed-rate broadcaster.
	state := motion.NewState(chain)
	executor := motion.NewExecutor(chain, state, cfg.ExecutorTick, logger)
	broadcaster := broadcast.New(state.Snapshot, cfg.BroadcastInterval, cfg.SubscriberBuffer, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go broadcaster.Run(ctx)

	// Optional MQTT bridge: command intake and state telemetry.
	if cfg.MQTTEnabled {
		mqttClient, err := mqtt.NewClient(cfg, executor, broadcaster, logger)
		if err != nil {
			log.Fatalf("Failed to initialize MQTT client: %v", err)
		}
		defer mqttClient.Disconnect()
	}

	// Initialize handlers
	apiHandler := handlers.NewAPIHandler(chain, executor)
	wsHandler := handlers.NewWSHandler(broadcaster, logger)
	handlers.SetErrorLogger(logger)

	// Setup HTTP server
	e := setupRouter(apiHandler, wsHandler)

	go func() {
		logger.Info("Starting HTTP server", "addr", cfg.HTTPAddr)
		if err := e.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}

func setupRouter(apiHandler *handlers.APIHandler, wsHandler *handlers.WSHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.CustomHTTPErrorHandler

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	api := e.Group("/api/v1")

	// Health check
	api.GET("/health", apiHandler.HealthCheck)

	// Arm state and description
	api.GET("/arm/state", apiHandler.GetState)
	api.GET("/arm/chain", apiHandler.GetChain)
	api.GET("/arm/joints/:name", apiHandler.GetJoint)

	// Arm control
	api.POST("/arm/joints", apiHandler.SetJoints)
	api.POST("/arm/move", apiHandler.StartMove)

	// Live state stream
	e.GET("/ws", wsHandler.Stream)

	return e
}
