package cli

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ItsCharrs/logipro/internal/cli/output"
	"github.com/ItsCharrs/logipro/internal/core/domain"
)

func (r *runner) themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 0 {
				r.printer.Print("%s", r.deps.Theme.Load(ctx))
				return nil
			}

			var (
				t   domain.Theme
				err error
			)
			if args[0] == "toggle" {
				t, err = r.deps.Theme.Toggle(ctx)
			} else {
				t, err = domain.ParseTheme(strings.ToLower(args[0]))
				if err == nil {
					err = r.deps.Theme.Set(ctx, t)
				}
			}
			if err != nil {
				return err
			}
			r.printer.Success("Theme set to %s", t)
			return nil
		},
	}
}

func (r *runner) quoteCmd() *cobra.Command {
	var formPath string
	cmd := &cobra.Command{
		Use:   "quote [service-type]",
		Short: "Price a booking",
		Long: `Without --form, prints the placeholder estimate for a service type.
With --form, sends the booking form (JSON) to the quote calculator and
falls back to the estimate when the calculator is unavailable.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if formPath == "" {
				if len(args) == 0 {
					return r.listEstimates()
				}
				st := domain.ServiceType(strings.ToUpper(args[0]))
				price, err := r.deps.Booking.Estimate(st)
				if err != nil {
					return err
				}
				r.printer.Print("%s  $%s %s", st, price, r.printer.Dim("(estimate)"))
				return nil
			}

			raw, err := os.ReadFile(formPath)
			if err != nil {
				return &output.CLIError{Summary: "cannot read form", Detail: err.Error(), ExitCode: output.ExitUsageError}
			}
			var form domain.BookingForm
			if err := json.Unmarshal(raw, &form); err != nil {
				return &output.CLIError{Summary: "form is not valid JSON", Detail: err.Error(), ExitCode: output.ExitUsageError}
			}
			q, err := r.deps.Booking.Quote(cmd.Context(), form)
			if err != nil {
				return err
			}
			if q.Fallback {
				r.printer.Warning("quote calculator unavailable, showing estimate")
				r.printer.Print("%s  $%s %s", q.ServiceType, q.EstimatedPrice, r.printer.Dim("(estimate)"))
				return nil
			}
			r.printer.Print("%s  $%s", q.ServiceType, q.EstimatedPrice)
			return nil
		},
	}
	cmd.Flags().StringVar(&formPath, "form", "", "booking form JSON file")
	return cmd
}

func (r *runner) listEstimates() error {
	tbl := r.printer.NewTable([]string{"service", "job type", "estimate"})
	for _, st := range domain.Services() {
		price, err := r.deps.Booking.Estimate(st)
		if err != nil {
			return err
		}
		tbl.AddRow(string(st), string(st.JobType()), "$"+price.String())
	}
	return tbl.Render()
}
