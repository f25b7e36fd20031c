// Command driver is the terminal client of the LogiPro driver app.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sethvargo/go-envconfig"

	"github.com/ItsCharrs/logipro/internal/bootstrap"
	"github.com/ItsCharrs/logipro/internal/cli"
	"github.com/ItsCharrs/logipro/internal/cli/output"
	"github.com/ItsCharrs/logipro/internal/infrastructure/config"
	"github.com/ItsCharrs/logipro/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	code := run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string) int {
	// The driver binary is always the driver app and always signs out on a
	// rejected token.
	cfg, err := config.LoadFrom(ctx, envconfig.MultiLookuper(
		envconfig.MapLookuper(map[string]string{
			"LOGIPRO_APP":      string(config.AppDriver),
			"API_FORCE_LOGOUT": "true",
		}),
		envconfig.OsLookuper(),
	))
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		return output.ExitConfigError
	}

	// Logs go to stderr and stay quiet unless asked for, so they never mix
	// with command output.
	level := cfg.LogLevel
	if os.Getenv("LOG_LEVEL") == "" {
		level = "warn"
	}
	log := logger.Init(logger.Options{Level: level, Pretty: true, Output: os.Stderr, App: string(cfg.App)})

	app, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		return output.ExitConfigError
	}
	defer func() { _ = app.Close(context.WithoutCancel(ctx)) }()

	return cli.Execute(ctx, cli.Deps{
		Session: app.Session,
		Driver:  app.Driver,
		Booking: app.Booking,
		Theme:   app.Theme,
	}, args)
}
