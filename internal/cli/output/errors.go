package output

import (
	"errors"
	"fmt"

	"github.com/fatih/color"

	"github.com/ItsCharrs/logipro/internal/core/domain"
)

// Exit code constants
const (
	ExitSuccess       = 0
	ExitGeneral       = 1
	ExitUsageError    = 2
	ExitNotSignedIn   = 3
	ExitSignInRefused = 4
	ExitConfigError   = 5
)

// CLIError is a structured error with user-facing context
type CLIError struct {
	Summary    string
	Detail     string
	Suggestion string
	ExitCode   int
}

// Error implements the error interface, returning the summary
func (e *CLIError) Error() string {
	return e.Summary
}

// Classify turns an error from the services into a CLIError.
func Classify(err error) *CLIError {
	var ce *CLIError
	if errors.As(err, &ce) {
		return ce
	}

	var ie *domain.IdentityError
	if errors.As(err, &ie) {
		return &CLIError{Summary: ie.Message, Detail: ie.Code, ExitCode: ExitSignInRefused}
	}

	var ve domain.ValidationErrors
	if errors.As(err, &ve) {
		return &CLIError{Summary: "invalid input", Detail: ve.Error(), ExitCode: ExitUsageError}
	}

	switch {
	case errors.Is(err, domain.ErrExchangeFailed):
		return &CLIError{Summary: domain.ExchangeFailedMessage, Detail: err.Error(), ExitCode: ExitSignInRefused}
	case errors.Is(err, domain.ErrNotAuthenticated):
		return &CLIError{Summary: "not signed in", Suggestion: "run: driver login --email <you@example.com>", ExitCode: ExitNotSignedIn}
	case errors.Is(err, domain.ErrInvalidTransition):
		return &CLIError{Summary: "that status change is not allowed", Detail: err.Error(), Suggestion: "run: driver jobs", ExitCode: ExitUsageError}
	case errors.Is(err, domain.ErrInvalidTheme), errors.Is(err, domain.ErrUnknownService):
		return &CLIError{Summary: err.Error(), ExitCode: ExitUsageError}
	}
	return &CLIError{Summary: err.Error(), ExitCode: ExitGeneral}
}

// FormatError prints a structured error message to stderr
func (p *Printer) FormatError(e *CLIError) {
	if e.Summary == "" {
		return
	}
	if p.useColors {
		color.New(color.FgRed, color.Bold).Fprintf(p.err, "Error: %s\n", e.Summary)
		if e.Detail != "" {
			fmt.Fprintf(p.err, "  Cause: %s\n", e.Detail)
		}
		if e.Suggestion != "" {
			color.New(color.FgCyan).Fprintf(p.err, "  Suggestion: %s\n", e.Suggestion)
		}
	} else {
		fmt.Fprintf(p.err, "[ERROR] %s\n", e.Summary)
		if e.Detail != "" {
			fmt.Fprintf(p.err, "  Cause: %s\n", e.Detail)
		}
		if e.Suggestion != "" {
			fmt.Fprintf(p.err, "  Suggestion: %s\n", e.Suggestion)
		}
	}
}
