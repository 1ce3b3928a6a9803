package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitcoach/coaching-app/internal/api"
	"fitcoach/coaching-app/internal/config"
	"fitcoach/coaching-app/internal/mailer"
	"fitcoach/coaching-app/internal/repository/postgres"
	"fitcoach/coaching-app/internal/service"
	"fitcoach/coaching-app/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// @title Coaching App API
// @version 1.0
// @description API for trainers authoring workout programs and clients logging their training.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.Info("starting coaching app server")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logrus.WithError(err).Fatal("could not load config")
	}
	logrus.Info("configuration loaded")

	// --- Database Connection ---
	db, err := postgres.ConnectDB(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("could not connect to database")
	}
	defer func() {
		logrus.Info("closing database connection")
		if err := postgres.CloseDB(db); err != nil {
			logrus.WithError(err).Error("failed to close database")
		}
	}()

	if err := postgres.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("database migration failed")
	}
	logrus.Info("database ready")

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize object storage")
	}

	// --- Initialize Store and Services ---
	store := postgres.NewStore(db)
	mail := mailer.NewSMTPMailer(cfg.SMTP)

	authService := service.NewAuthService(store, cfg.JWT.Secret, cfg.JWT.Expiration)
	catalogService := service.NewCatalogService(store)
	clientService := service.NewClientService(store, mail, fileStorage)
	programService := service.NewProgramService(store, catalogService)
	workoutService := service.NewWorkoutService(store, catalogService)

	// --- Initialize Gin Engine ---
	router := gin.Default()

	api.SetupRoutes(router, cfg.JWT.Secret, authService, clientService, programService, workoutService, catalogService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logrus.WithField("address", cfg.Server.Address).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("listen and serve error")
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logrus.WithError(err).Fatal("server forced to shutdown")
	}

	logrus.Info("server exiting")
}
