// Command portal is the HTTP backend-for-frontend of one LogiPro app
// instance. LOGIPRO_APP picks which routes it serves.
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

	"golang.org/x/sync/errgroup"

	"github.com/ItsCharrs/logipro/internal/api"
	"github.com/ItsCharrs/logipro/internal/bootstrap"
	"github.com/ItsCharrs/logipro/internal/infrastructure/config"
	"github.com/ItsCharrs/logipro/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "portal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
		App:    string(cfg.App),
	})

	app, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("failed to release resources")
		}
	}()

	if snap, err := app.Session.Rehydrate(ctx); err != nil {
		log.Warn().Err(err).Msg("session not restored")
	} else {
		log.Info().Str("state", string(snap.State)).Msg("session restored")
	}

	deps := api.Deps{
		Log:           log,
		Session:       app.Session,
		Ready:         app.Ready,
		SecureCookies: cfg.Env != "development",
	}
	if app.Google != nil {
		deps.Google = app.Google
	}
	switch cfg.App {
	case config.AppAdmin:
		deps.Portal = app.Portal
	case config.AppCustomer:
		deps.Portal = app.Portal
		deps.Booking = app.Booking
	case config.AppDriver:
		deps.Driver = app.Driver
		deps.Theme = app.Theme
	}

	e, err := api.NewRouter(deps)
	if err != nil {
		return err
	}

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("backend", cfg.Backend.BaseURL).Msg("starting portal server")

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
