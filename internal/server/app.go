// Package server wires storage, the change bus, services and the gRPC
// endpoint together and runs them until the context ends.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/mymoment/internal/logging"
	"github.com/dmitrijs2005/mymoment/internal/server/config"
	"github.com/dmitrijs2005/mymoment/internal/server/events"
	"github.com/dmitrijs2005/mymoment/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/mymoment/internal/server/services"

	gs "github.com/dmitrijs2005/mymoment/internal/server/grpc"
)

const tokenPurgeInterval = time.Hour

type tokenPurger interface {
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	bus    *events.Bus
	server runner
	purger tokenPurger
}

// NewApp opens and migrates the database and builds the services. Export
// stays disabled when object storage cannot be configured.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	db, err := repomanager.OpenDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	bus := events.NewBus(logger)

	us := services.NewUserService(db, rm, c)
	es := services.NewEntryService(db, rm, bus, logger)

	var exports gs.ExportService
	ex, err := services.NewExportService(ctx, es, c)
	if err != nil {
		logger.Warn(ctx, "export disabled", "error", err)
	} else {
		exports = ex
	}

	s := gs.NewGRPCServer(c.EndpointAddrGRPC, logger, us, es, exports, bus, c.SecretKey)

	return &App{config: c, logger: logger, db: db, bus: bus, server: s, purger: us}, nil
}

// purgeTokens drops expired refresh tokens every interval until ctx ends.
func (app *App) purgeTokens(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.purger.PurgeExpiredTokens(ctx)
			if err != nil {
				app.logger.Error(ctx, "purge expired tokens", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "purged expired tokens", "count", n)
			}
		}
	}
}

// Run serves until ctx is cancelled or the endpoint fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "address", app.config.EndpointAddrGRPC)

	var wg sync.WaitGroup
	var runErr error

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, "grpc server stopped", "error", err)
			runErr = err
		}
		cancelFunc()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.purgeTokens(ctx, tokenPurgeInterval)
	}()

	wg.Wait()
	app.logger.Info(context.Background(), "app stopped")
	return runErr
}

func (app *App) Close() {
	if app.bus != nil {
		if err := app.bus.Close(); err != nil {
			app.logger.Warn(context.Background(), "close bus", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Warn(context.Background(), "close db", "error", err)
		}
	}
}
