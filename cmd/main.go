package main

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

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/suryaKurella/badminton-tournament-software-sub001/brackets"
	"github.com/suryaKurella/badminton-tournament-software-sub001/config"
	"github.com/suryaKurella/badminton-tournament-software-sub001/db"
	"github.com/suryaKurella/badminton-tournament-software-sub001/handlers"
	"github.com/suryaKurella/badminton-tournament-software-sub001/repositories"
	api "github.com/suryaKurella/badminton-tournament-software-sub001/routes"
	"github.com/suryaKurella/badminton-tournament-software-sub001/services"
	"github.com/suryaKurella/badminton-tournament-software-sub001/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

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

	// Snapshot archiving is optional; without R2 credentials finished
	// tournaments simply are not archived.
	var uploader storage.FileUploader
	if cfg.SnapshotArchivingEnabled() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
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
		logger.Info("bracket snapshot archiving disabled")
	}

	wsHub := brackets.NewHub(logger)
	go wsHub.Run()
	logger.Info("WebSocket hub started")

	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	nodeRepo := repositories.NewPostgresBracketNodeRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	eventRepo := repositories.NewPostgresMatchEventRepository(dbConn)
	ratingRepo := repositories.NewPostgresPlayerRatingRepository(dbConn)
	logger.Info("repositories initialized")

	statsService := services.NewStatsService(ratingRepo)
	bracketService := services.NewBracketService(
		dbConn,
		tournamentRepo,
		teamRepo,
		nodeRepo,
		matchRepo,
		statsService,
		wsHub,
		logger,
	)
	advancementService := services.NewAdvancementService(
		dbConn,
		tournamentRepo,
		nodeRepo,
		matchRepo,
		bracketService,
		uploader,
		wsHub,
		logger,
	)
	scoringService := services.NewScoringService(
		dbConn,
		matchRepo,
		eventRepo,
		advancementService,
		wsHub,
		logger,
	)
	standingsService := services.NewStandingsService(tournamentRepo, teamRepo, matchRepo)
	logger.Info("services initialized")

	bracketHandler := handlers.NewBracketHandler(bracketService, standingsService)
	matchHandler := handlers.NewMatchHandler(scoringService, advancementService, matchRepo)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, logger)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.CORSOrigins,
		bracketHandler,
		matchHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
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

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
