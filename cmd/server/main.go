package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"chatbot-evaluation/backend/internal/models"
	"chatbot-evaluation/backend/pkg/config"
	"chatbot-evaluation/backend/pkg/di"
	"chatbot-evaluation/backend/pkg/logger"
	"chatbot-evaluation/backend/pkg/observability"
	"chatbot-evaluation/backend/pkg/router"
)

func main() {
	// Load configuration (.env is read once here)
	cfg := config.New()

	// Initialize structured logger
	logConfig := logger.DefaultConfig()
	logConfig.Level = cfg.Logging.Level
	logConfig.JSON = cfg.Logging.Format != "text"

	log := logger.New(logConfig)
	logger.SetGlobal(log)

	log.Info("Starting application", "version", os.Getenv("APP_VERSION"), "env", cfg.Server.Env)

	shutdownTracing, err := observability.SetupTracing(cfg.Observability.ServiceName, cfg.Observability.TracingEnabled, os.Stdout)
	if err != nil {
		log.LogError(err, "Failed to initialize tracing")
		os.Exit(1)
	}

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics, err = observability.SetupMetrics(cfg.Observability.ServiceName)
		if err != nil {
			log.LogError(err, "Failed to initialize metrics")
			os.Exit(1)
		}
	}

	// Initialize database
	db, err := config.NewDB(cfg, log)
	if err != nil {
		log.LogError(err, "Failed to initialize database")
		os.Exit(1)
	}

	// Auto-migrate the schema
	if err := models.AutoMigrate(db); err != nil {
		log.LogError(err, "Failed to migrate database")
		os.Exit(1)
	}

	// Initialize dependency injection container
	container, err := di.New(db, cfg, log)
	if err != nil {
		log.LogError(err, "Failed to initialize dependency container")
		os.Exit(1)
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container.Health.Start(ctx)

	// Initialize and setup router
	r := router.New(container, metrics)
	r.SetupRoutes()

	// SIGHUP re-reads the OpenAPI schema without a restart
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	defer signal.Stop(reload)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-reload:
				if err := r.ReloadOpenAPISchema(); err != nil {
					log.LogError(err, "Failed to reload OpenAPI schema")
				}
			}
		}
	}()

	// Create HTTP server. The write timeout leaves room for a full inference call.
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r.Engine,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: max(cfg.Server.Timeout, cfg.Inference.Timeout+cfg.Server.ShutdownTimeout),
	}

	// Start the server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until we receive a signal or the listener fails
	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-serverErr:
		log.LogError(err, "Server failed to start")
	}

	// Create a deadline to wait for
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Shutdown the server
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.LogError(err, "Server forced to shutdown")
	}
	r.Stop()

	shutdowns := []observability.ShutdownFunc{shutdownTracing}
	if metrics != nil {
		shutdowns = append(shutdowns, metrics.Shutdown)
	}
	if err := observability.Shutdown(shutdownCtx, shutdowns...); err != nil {
		log.LogError(err, "Failed to flush telemetry")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info("Server exited gracefully")
}
