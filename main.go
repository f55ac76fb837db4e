package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/err0rre/Task-management/internal/api"
	"github.com/err0rre/Task-management/internal/auth"
	"github.com/err0rre/Task-management/internal/config"
	"github.com/err0rre/Task-management/internal/database"
	"github.com/err0rre/Task-management/internal/logger"
	"github.com/err0rre/Task-management/internal/monitoring"
	"github.com/err0rre/Task-management/internal/services"
	"github.com/err0rre/Task-management/internal/websocket"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet; write plain text.
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: !cfg.IsProduction()})

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize token service")
	}

	// Set up WebSocket Hub
	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := websocket.NewHub()
	go hub.Run(hubCtx)

	// Set up services
	userService := services.NewUserService(db)
	eventService := services.NewEventService(db)
	taskService := services.NewTaskService(db, eventService, hub)
	authService, err := services.NewAuthService(userService, tokens, eventService, cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize auth service")
	}

	// Set up and run the event retention scheduler
	scheduler, err := monitoring.NewScheduler(eventService, cfg.EventRetention, cfg.EventPruneSchedule)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize scheduler")
	}
	scheduler.Start()

	// Set up router
	router := api.NewRouter(api.Dependencies{
		Logger:         log.Logger,
		AllowedOrigins: cfg.AllowedOrigins,
		DB:             db,
		Verifier:       tokens,
		Auth:           authService,
		Users:          userService,
		Tasks:          taskService,
		Events:         eventService,
		Hub:            hub,
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("env", cfg.Env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server...")
	case err := <-serverErr:
		log.Error().Err(err).Msg("Server failed")
	}

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	stopHub()
	<-hub.Done()

	log.Info().Msg("Server exiting")
}
