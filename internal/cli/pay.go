package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

func (r *runner) earningsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "earnings",
		Short: "Show pay totals and recent jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := r.currentUser(); err != nil {
				return err
			}
			e, err := r.deps.Driver.Earnings(cmd.Context())
			if err != nil {
				return err
			}

			r.printer.Print("Total earned:    $%s", e.TotalEarnings)
			r.printer.Print("This week:       $%s", e.ThisWeekEarnings)
			r.printer.Print("This month:      $%s", e.ThisMonthEarnings)
			r.printer.Print("Pending payment: $%s", e.PendingPayment)
			r.printer.Print("Completed jobs:  %d", e.CompletedJobs)
			if len(e.RecentJobs) == 0 {
				return nil
			}

			r.printer.Header("Recent jobs")
			tbl := r.printer.NewTable([]string{"job", "date", "amount", "status", "description"})
			for _, it := range e.RecentJobs {
				tbl.AddRow(
					strconv.FormatInt(it.JobNumber, 10),
					it.Date,
					"$"+it.Amount.String(),
					it.Status,
					it.Description,
				)
			}
			return tbl.Render()
		},
	}
}

func (r *runner) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show delivery performance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := r.currentUser(); err != nil {
				return err
			}
			s, err := r.deps.Driver.Stats(cmd.Context())
			if err != nil {
				return err
			}

			tbl := r.printer.NewTable([]string{"period", "deliveries", "earnings"})
			tbl.AddRow("this week", strconv.Itoa(s.ThisWeek.Deliveries), "$"+s.ThisWeek.Earnings.String())
			tbl.AddRow("this month", strconv.Itoa(s.ThisMonth.Deliveries), "$"+s.ThisMonth.Earnings.String())
			tbl.AddRow("all time", strconv.Itoa(s.TotalDeliveries), "$"+s.TotalEarnings.String())
			if err := tbl.Render(); err != nil {
				return err
			}
			r.printer.Print("On time: %.1f%%  Rating: %.1f", s.OnTimePercentage, s.AverageRating)
			return nil
		},
	}
}
