// Package bootstrap builds the object graph shared by the portal server and
// the driver CLI from configuration.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ItsCharrs/logipro/internal/api/metrics"
	"github.com/ItsCharrs/logipro/internal/core/ports"
	"github.com/ItsCharrs/logipro/internal/core/service"
	"github.com/ItsCharrs/logipro/internal/infrastructure/backend"
	"github.com/ItsCharrs/logipro/internal/infrastructure/config"
	mongodb "github.com/ItsCharrs/logipro/internal/infrastructure/db/mongo"
	redisdb "github.com/ItsCharrs/logipro/internal/infrastructure/db/redis"
	"github.com/ItsCharrs/logipro/internal/infrastructure/identity"
	"github.com/ItsCharrs/logipro/internal/infrastructure/queue"
	"github.com/ItsCharrs/logipro/internal/infrastructure/store/file"
)

// ReasonTokenNotValid is recorded when the backend rejects the session token.
const ReasonTokenNotValid = "token_not_valid"

// App is one wired app instance.
type App struct {
	Config  *config.Config
	Log     zerolog.Logger
	Backend *backend.Client
	Fetcher *service.Fetcher
	Session *service.SessionService
	Booking ports.BookingService
	Driver  ports.DriverService
	Theme   ports.ThemeService
	Portal  ports.PortalService
	// Google is nil unless the OAuth client is configured.
	Google *identity.GoogleFlow
	// Ready are the dependencies /health/ready pings.
	Ready map[string]ports.Pinger

	closers []func(context.Context) error
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// New connects the configured store and builds the services. On error
// everything opened so far is closed again.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (app *App, err error) {
	a := &App{Config: cfg, Log: log, Ready: make(map[string]ports.Pinger)}
	defer func() {
		if err != nil {
			_ = a.Close(context.WithoutCancel(ctx))
		}
	}()

	hc := &http.Client{Timeout: cfg.Backend.Timeout}

	a.Backend, err = backend.New(backend.Config{
		BaseURL:    cfg.Backend.BaseURL,
		HTTPClient: hc,
		Observe:    metrics.ObserveBackend,
	}, log)
	if err != nil {
		return nil, err
	}

	store, auditor, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	a.Fetcher = service.NewFetcher(a.Backend, log)
	a.Fetcher.OnLookup = metrics.ObserveFetch

	idp := identity.NewFirebase(identity.FirebaseConfig{
		APIKey:     cfg.Identity.APIKey,
		Endpoint:   cfg.Identity.Endpoint,
		RequestURI: cfg.Identity.GoogleRedirectURL,
		HTTPClient: hc,
	}, log)
	if cfg.Identity.APIKey == "" {
		log.Warn().Msg("FIREBASE_API_KEY is empty, sign-in will be refused")
	}

	var verifier ports.TokenVerifier
	if cfg.Identity.VerifyTokens && cfg.Identity.ProjectID != "" {
		verifier = identity.NewFirebaseVerifier(ctx, cfg.Identity.ProjectID, hc)
	}

	if cfg.Identity.GoogleEnabled() {
		a.Google, err = identity.NewGoogleFlow(identity.GoogleConfig{
			ClientID:     cfg.Identity.GoogleClientID,
			ClientSecret: cfg.Identity.GoogleClientSecret,
			RedirectURL:  cfg.Identity.GoogleRedirectURL,
		})
		if err != nil {
			return nil, fmt.Errorf("google sign-in: %w", err)
		}
	}

	sc := service.SessionConfig{
		App:      string(cfg.App),
		TokenKey: cfg.StoreKey(cfg.Store.TokenKey),
		Identity: idp,
		Verifier: verifier,
		Backend:  a.Backend,
		Store:    store,
		Auditor:  auditor,
		Cache:    a.Fetcher,
	}
	// Only the customer portal lets people create their own account.
	if cfg.App == config.AppCustomer {
		sc.Registrar = idp
	}
	a.Session = service.NewSessionService(sc, log)
	a.Session.Subscribe(metrics.ObserveSession(string(cfg.App)))

	if cfg.Backend.ForceLogoutOnInvalidToken {
		a.Backend.OnInvalidToken(func(ctx context.Context) {
			log.Warn().Msg("backend rejected the session token, signing out")
			a.Session.Expire(ctx, ReasonTokenNotValid)
		})
	}

	a.Booking = service.NewBookingService(a.Backend, a.Session, log)
	a.Driver = service.NewDriverService(a.Backend, a.Fetcher, log)
	a.Theme = service.NewThemeService(store, cfg.StoreKey(cfg.Store.ThemeKey), log)
	a.Portal = service.NewPortalService(a.Backend, a.Fetcher, a.Backend, log)

	return a, nil
}

// openStore returns the durable store for the configured driver and, when
// auditing is on, the running audit queue.
func (a *App) openStore(ctx context.Context) (ports.KeyValueStore, ports.SessionAuditor, error) {
	cfg := a.Config

	var store ports.KeyValueStore
	switch cfg.Store.Driver {
	case "redis":
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:       cfg.Redis.Addr,
			Username:   cfg.Redis.Username,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			TLS:        cfg.Redis.TLS,
			ClientName: cfg.ClientName(),
			Timeout:    cfg.Redis.Timeout,
		})
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
		s := redisdb.NewStore(rdb)
		a.Ready["redis"] = s
		store = s
	case "file":
		s, err := file.New(cfg.Store.Path, cfg.Store.Key)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Store.Key == "" {
			a.Log.Warn().Str("path", cfg.Store.Path).Msg("STORE_KEY is empty, tokens are stored unencrypted")
		}
		a.Ready["store"] = s
		store = s
	}

	if cfg.Store.Driver != "mongo" && !cfg.Mongo.Audit {
		return store, nil, nil
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  cfg.ClientName(),
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return nil, nil, err
	}
	a.closers = append(a.closers, client.Disconnect)
	a.Ready["mongodb"] = pingFunc(func(ctx context.Context) error { return client.Ping(ctx, nil) })

	if cfg.Store.Driver == "mongo" {
		store = mongodb.NewStateRepository(db)
	}

	audit := queue.NewDispatcher(0, mongodb.NewSessionRepository(db), a.Log)
	audit.Start()
	// Drain before the disconnect registered above.
	a.closers = append(a.closers, audit.Stop)
	return store, audit, nil
}

// Close releases what New opened, newest first.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
