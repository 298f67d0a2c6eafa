// Package server initializes and runs the application server. It opens the
// document store, applies migrations, wires the services with their
// in-memory fallbacks, and serves the JSON API until a shutdown signal.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/api"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/logging"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/config"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/repositories/drafts"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/repositories/repomanager"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/repositories/resources"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/repositories/surveys"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/services"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/storage"
)

const shutdownGrace = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	router *api.Router
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	manager := repomanager.NewPostgresRepositoryManager()
	if err := manager.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	objects := storage.NewS3ObjectStore(cfg)

	// Fallback datasets start empty; reads degrade to them only while the
	// store is unreachable.
	resourceSvc := services.NewResourceService(db, manager,
		resources.NewInMemoryRepository(nil), objects, logger, cfg)
	surveySvc := services.NewSurveyService(db, manager, logger, cfg)
	analyticsSvc := services.NewAnalyticsService(db, manager,
		surveys.NewInMemoryRepository(nil), drafts.NewInMemoryRepository(nil),
		logger, cfg, time.Now().UnixNano())

	router := api.NewRouter(resourceSvc, surveySvc, analyticsSvc, logger, cfg)

	return &App{config: cfg, logger: logger, db: db, router: router}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddrHTTP)

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.router.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return app.db.Close()
}
