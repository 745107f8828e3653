package main

//go:generate swag init -g cmd/main.go -o docs --parseDependency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/hackathon-hub/applog"
	"github.com/Dosada05/hackathon-hub/config"
	"github.com/Dosada05/hackathon-hub/db"
	_ "github.com/Dosada05/hackathon-hub/docs"
	"github.com/Dosada05/hackathon-hub/handlers"
	"github.com/Dosada05/hackathon-hub/middleware"
	"github.com/Dosada05/hackathon-hub/migrations"
	"github.com/Dosada05/hackathon-hub/realtime"
	"github.com/Dosada05/hackathon-hub/repositories"
	"github.com/Dosada05/hackathon-hub/routes"
	"github.com/Dosada05/hackathon-hub/services"
	"github.com/Dosada05/hackathon-hub/storage"
	"github.com/go-chi/chi/v5"
)

const (
	shutdownTimeout       = 15 * time.Second
	rateLimiterSweep      = time.Minute
	rateLimiterIdleExpiry = 10 * time.Minute
)

// @title Hackathon Hub API
// @version 1.0
// @description Events, teams, judges, organisers, sponsors and team proposals.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if !cfg.IsProduction() {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
		slog.SetDefault(logger)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("env", cfg.Environment))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	if err := migrations.Apply(appCtx, dbConn); err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied")

	uploader := storage.Disabled()
	if cfg.StorageConfigured() {
		uploader, err = storage.NewCloudflareR2Uploader(appCtx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("object storage not configured, uploads are disabled")
	}

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	teamRepo := repositories.NewPostgresEventTeamRepository(dbConn)
	participantRepo := repositories.NewPostgresEventParticipantRepository(dbConn)
	judgeRepo := repositories.NewPostgresEventJudgeRepository(dbConn)
	organiserRepo := repositories.NewPostgresEventOrganiserRepository(dbConn)
	sponsorRepo := repositories.NewPostgresSponsorRepository(dbConn)
	proposalRepo := repositories.NewPostgresProposalRepository(dbConn)
	logRepo := repositories.NewPostgresLogRepository(dbConn)
	transactor := repositories.NewTransactor(dbConn, logger)

	appLog := applog.NewService(logRepo, logger, cfg.IsProduction(), cfg.LogBufferSize)
	go appLog.Run(appCtx)

	hub := realtime.NewHub(logger)
	go hub.Run(appCtx)
	logger.Info("WebSocket hub started")

	eventService := services.NewEventService(services.EventRepositories{
		Events:       eventRepo,
		Users:        userRepo,
		Teams:        teamRepo,
		Participants: participantRepo,
		Judges:       judgeRepo,
		Organisers:   organiserRepo,
		Sponsors:     sponsorRepo,
	}, transactor, uploader, hub, appLog)
	userService := services.NewUserService(userRepo, appLog)
	organiserService := services.NewOrganiserService(eventRepo, organiserRepo, participantRepo, uploader)
	proposalService := services.NewProposalService(proposalRepo, transactor, uploader, appLog)
	analyticsService := services.NewAnalyticsService(userRepo, eventRepo, proposalRepo)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger)
	go rateLimiter.Run(appCtx, rateLimiterSweep, rateLimiterIdleExpiry)

	router := chi.NewRouter()
	routes.SetupRoutes(router, routes.Handlers{
		Event:     handlers.NewEventHandler(eventService, cfg.MaxUploadBytes),
		User:      handlers.NewUserHandler(organiserService),
		Proposal:  handlers.NewProposalHandler(proposalService, cfg.MaxUploadBytes),
		Admin:     handlers.NewAdminHandler(userService, analyticsService),
		Log:       handlers.NewLogHandler(appLog),
		WebSocket: handlers.NewWebSocketHandler(hub, eventService, cfg.CORSAllowedOrigins, logger),
		Health:    handlers.NewHealthHandler(dbConn),
	}, routes.Middleware{
		Authenticator:  middleware.NewAuthenticator(cfg.JWTSecretKey, userService, logger),
		EventGuards:    middleware.NewEventGuards(organiserService, logger),
		RateLimiter:    rateLimiter,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			exitCode = 1
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			exitCode = 1
		} else {
			logger.Info("server shutdown complete")
		}
	}

	drainCtx, cancelDrain := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelDrain()
	if err := appLog.Close(drainCtx); err != nil {
		logger.Error("application log not fully flushed", slog.Any("error", err))
	}
	stopApp()

	logger.Info("application exited")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
