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

	"github.com/kartia-app/kartia-server/config"
	"github.com/kartia-app/kartia-server/db"
	"github.com/kartia-app/kartia-server/handlers"
	"github.com/kartia-app/kartia-server/repositories"
	api "github.com/kartia-app/kartia-server/routes"
	"github.com/kartia-app/kartia-server/services"
	"github.com/kartia-app/kartia-server/storage"
)

// How often expired password reset tokens are purged.
const tokenCleanupInterval = 15 * time.Minute

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

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

	redisClient, err := db.ConnectRedis(cfg.RedisURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("failed to close redis connection", slog.Any("error", err))
		}
	}()
	logger.Info("redis connection established")

	cloudflareUploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
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

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	champRepo := repositories.NewPostgresChampionshipRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	garageRepo := repositories.NewRedisGarageRepository(redisClient)
	logger.Info("repositories initialized")

	authService := services.NewAuthService(userRepo)
	emailService := services.NewEmailService(cfg)
	userService := services.NewUserService(userRepo, garageRepo, cloudflareUploader, logger)
	championshipService := services.NewChampionshipService(champRepo, userRepo)
	raceService := services.NewRaceService(champRepo, userRepo, logger)
	teamService := services.NewTeamService(teamRepo, userRepo, cloudflareUploader, logger)
	garageService := services.NewGarageService(garageRepo, cloudflareUploader, logger)
	logger.Info("services initialized")

	go func() {
		ticker := time.NewTicker(tokenCleanupInterval)
		defer ticker.Stop()
		logger.Info("reset token cleanup scheduler started", slog.Duration("interval", tokenCleanupInterval))

		for range ticker.C {
			removed, err := userRepo.ClearExpiredResetTokens(context.Background())
			if err != nil {
				logger.Error("reset token cleanup failed", slog.Any("error", err))
				continue
			}
			if removed > 0 {
				logger.Info("expired reset tokens cleared", slog.Int64("count", removed))
			}
		}
	}()

	authHandler := handlers.NewAuthHandler(authService, emailService, cfg.JWTSecretKey)
	userHandler := handlers.NewUserHandler(userService)
	championshipHandler := handlers.NewChampionshipHandler(championshipService, raceService)
	teamHandler := handlers.NewTeamHandler(teamService)
	garageHandler := handlers.NewGarageHandler(garageService)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		authHandler,
		userHandler,
		championshipHandler,
		teamHandler,
		garageHandler,
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
		} else {
			logger.Info("server stopped gracefully")
		}
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
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
