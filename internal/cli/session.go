package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ItsCharrs/logipro/internal/cli/output"
	"github.com/ItsCharrs/logipro/internal/core/domain"
)

// passwordEnv lets scripts sign in without a prompt.
const passwordEnv = "LOGIPRO_PASSWORD"

func (r *runner) loginCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Long: `Sign in with email and password. The password is taken from
$LOGIPRO_PASSWORD, prompted for without echo on a terminal, or read as the
first line of standard input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := r.readPassword()
			if err != nil {
				return err
			}

			snap, err := r.deps.Session.Establish(cmd.Context(), domain.Credential{Email: email, Password: password})
			if err != nil {
				return err
			}
			r.printer.Success("Signed in as %s (%s)", r.printer.Bold(snap.User.DisplayName()), snap.User.Role)
			if snap.User.Role != domain.RoleDriver {
				r.printer.Warning("this account is not a driver; its home is %s", snap.Landing)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// Terminal access, replaced in tests.
var (
	isTerminal = term.IsTerminal
	readNoEcho = term.ReadPassword
)

var errNoSecret = errors.New("empty input")

func (r *runner) readPassword() (string, error) {
	if pw := os.Getenv(passwordEnv); pw != "" {
		return pw, nil
	}
	pw, err := r.readSecret("Password: ")
	if err != nil {
		return "", &output.CLIError{
			Summary:    "no password given",
			Suggestion: "type it at the prompt, pipe it on stdin or set " + passwordEnv,
			ExitCode:   output.ExitUsageError,
		}
	}
	return pw, nil
}

// readSecret prompts on stderr and reads without echo when stdin is a
// terminal. Otherwise it takes the next line of stdin.
func (r *runner) readSecret(prompt string) (string, error) {
	if f, ok := r.deps.Stdin.(interface{ Fd() uintptr }); ok && isTerminal(int(f.Fd())) {
		fmt.Fprint(r.deps.Stderr, prompt)
		b, err := readNoEcho(int(f.Fd()))
		fmt.Fprintln(r.deps.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		if len(b) == 0 {
			return "", errNoSecret
		}
		return string(b), nil
	}

	if r.lines == nil {
		r.lines = bufio.NewReader(r.deps.Stdin)
	}
	line, err := r.lines.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		if err == nil {
			err = errNoSecret
		}
		return "", err
	}
	return line, nil
}

func (r *runner) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r.deps.Session.Teardown(cmd.Context())
			r.printer.Success("Signed out")
			return nil
		},
	}
}

func (r *runner) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := r.currentUser()
			if err != nil {
				return err
			}
			tbl := r.printer.NewTable([]string{"id", "name", "email", "role", "home"})
			tbl.AddRow(strconv.FormatInt(u.ID, 10), u.DisplayName(), u.Email, string(u.Role), domain.LandingRoute(u.Role))
			return tbl.Render()
		},
	}
}

func (r *runner) currentUser() (*domain.User, error) {
	snap := r.deps.Session.Current()
	if snap.State != domain.StateAuthenticated || snap.User == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return snap.User, nil
}

func parseJobID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, &output.CLIError{Summary: fmt.Sprintf("invalid job id %q", s), ExitCode: output.ExitUsageError}
	}
	return id, nil
}
