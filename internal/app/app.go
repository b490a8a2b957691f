package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhonatanGuingo/API-BatePapo-UOL/internal/chat"
	"github.com/jhonatanGuingo/API-BatePapo-UOL/internal/config"
	"github.com/jhonatanGuingo/API-BatePapo-UOL/internal/store"
	"github.com/jhonatanGuingo/API-BatePapo-UOL/internal/store/sqlite"
	transporthttp "github.com/jhonatanGuingo/API-BatePapo-UOL/internal/transport/http"
)

// App wires together the store, chat service, reaper, and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	reaper          *chat.Reaper
	store           store.Store
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	logger.Info().Str("db_path", cfg.DatabasePath).Msg("database initialized")

	svc := chat.NewService(st, logger)
	reaper := chat.NewReaper(st, logger, cfg.ReapInterval, cfg.InactivityThreshold)
	server := transporthttp.NewServer(svc, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		reaper:          reaper,
		store:           st,
		log:             logger,
	}, nil
}

// Run starts the reaper and HTTP server and blocks until context
// cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.reaper.Run(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
