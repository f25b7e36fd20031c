// Package cli contains the commands of the driver CLI.
package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ItsCharrs/logipro/internal/cli/output"
	"github.com/ItsCharrs/logipro/internal/core/ports"
)

// Deps are the services the commands drive. Nil writers fall back to the
// process streams.
type Deps struct {
	Session ports.SessionService
	Driver  ports.DriverService
	Booking ports.BookingService
	Theme   ports.ThemeService

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

type runner struct {
	deps    Deps
	printer *output.Printer

	colorMode string
	quiet     bool

	lines *bufio.Reader
}

// NewRootCommand builds the driver command tree. The persisted session is
// rehydrated before every command.
func NewRootCommand(d Deps) *cobra.Command {
	root, _ := newRoot(d)
	return root
}

func newRoot(d Deps) (*cobra.Command, *runner) {
	if d.Stdin == nil {
		d.Stdin = os.Stdin
	}
	if d.Stdout == nil {
		d.Stdout = os.Stdout
	}
	if d.Stderr == nil {
		d.Stderr = os.Stderr
	}
	r := &runner{deps: d}

	root := &cobra.Command{
		Use:   "driver",
		Short: "LogiPro driver client",
		Long: `driver signs in to LogiPro and works through assigned jobs.

Example usage:
  driver login --email dana@example.com   # Sign in (password read from stdin)
  driver jobs                             # List assigned jobs
  driver job 42                           # Show job 42
  driver status 42 PICKED_UP              # Advance job 42 to its next status
  driver pod 42 ./photo.jpg               # Upload proof of delivery
  driver earnings                         # Pay totals and recent jobs
  driver theme toggle                     # Switch between light and dark`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return r.init(cmd.Context())
		},
	}
	root.SetOut(d.Stdout)
	root.SetErr(d.Stderr)
	root.SetIn(d.Stdin)

	root.PersistentFlags().StringVar(&r.colorMode, "color", "auto", "color output: auto, always or never")
	root.PersistentFlags().BoolVarP(&r.quiet, "quiet", "q", false, "only print errors")

	root.AddCommand(
		r.loginCmd(),
		r.logoutCmd(),
		r.whoamiCmd(),
		r.jobsCmd(),
		r.jobCmd(),
		r.statusCmd(),
		r.podCmd(),
		r.earningsCmd(),
		r.statsCmd(),
		r.themeCmd(),
		r.quoteCmd(),
	)
	return root, r
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, d Deps, args []string) int {
	root, r := newRoot(d)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return output.ExitSuccess
	}

	ce := output.Classify(err)
	p := r.printer
	if p == nil {
		p = output.NewPrinter(r.deps.Stdout, r.deps.Stderr, false, false)
	}
	p.FormatError(ce)
	return ce.ExitCode
}

func (r *runner) init(ctx context.Context) error {
	mode, err := output.ParseColorMode(r.colorMode)
	if err != nil {
		return &output.CLIError{Summary: err.Error(), ExitCode: output.ExitUsageError}
	}

	theme := r.deps.Theme.Load(ctx)
	r.printer = output.NewPrinter(r.deps.Stdout, r.deps.Stderr, output.ResolveColors(mode, theme), r.quiet)

	if _, err := r.deps.Session.Rehydrate(ctx); err != nil {
		r.printer.Warning("could not restore session: %v", err)
	}
	return nil
}
