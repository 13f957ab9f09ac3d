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

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"budgetex/internal/budget"
	"budgetex/internal/config"
	"budgetex/internal/database"
	"budgetex/internal/logger"
	"budgetex/internal/server"
	"budgetex/internal/services"
	"budgetex/internal/validator"
)

// @title       budgetex API
// @version     1.0
// @description Personal budgeting: scenarios, period snapshots, carry-forward and spending analytics.

// @host     localhost:8080
// @BasePath /api/v1

const shutdownTimeout = 10 * time.Second

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logger.SetLevel(appConfig.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()

	prefs := services.NewPreferencesService(appConfig.PreferencesFile)

	dbConfig, err := database.NewConfig(appConfig)
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	app, err := server.New(server.Options{
		DB:             dbManager.DB(),
		Catalog:        budget.BuiltinCatalog(),
		Prefs:          prefs,
		SummaryPeriods: appConfig.SnapshotListLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	srv := &http.Server{
		Addr:              appConfig.Addr(),
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infow("starting budgetex server", "addr", srv.Addr)
		log.Infof("Swagger documentation available at http://%s/swagger/index.html", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr := srv.Shutdown(shutdownCtx)

		// Pending auto-saves are written before the database closes.
		if err := app.Session.Close(); err != nil {
			log.Errorw("failed to flush pending auto-save", "error", err)
		}
		return shutdownErr
	})

	return g.Wait()
}
