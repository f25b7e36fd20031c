package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ItsCharrs/logipro/internal/cli/output"
	"github.com/ItsCharrs/logipro/internal/core/domain"
)

func (r *runner) jobsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "jobs",
		Aliases: []string{"ls"},
		Short:   "List assigned jobs",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := r.currentUser(); err != nil {
				return err
			}
			jobs, err := r.deps.Driver.Jobs(cmd.Context())
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				r.printer.Info("No jobs assigned.")
				return nil
			}

			tbl := r.printer.NewTable([]string{"id", "service", "pickup", "delivery", "status", "next"})
			for _, j := range jobs {
				next := "-"
				if n, ok := j.CurrentStatus().NextDriverStatus(); ok {
					next = string(n)
				}
				tbl.AddRow(
					strconv.FormatInt(j.ID, 10),
					string(j.ServiceType),
					j.PickupCity,
					j.DeliveryCity,
					r.printer.StatusBadge(j.CurrentStatus()),
					next,
				)
			}
			return tbl.Render()
		},
	}
}

func (r *runner) jobCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "job <job-id>",
		Short: "Show one job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := r.currentUser(); err != nil {
				return err
			}
			id, err := parseJobID(args[0])
			if err != nil {
				return err
			}
			j, err := r.deps.Driver.Job(cmd.Context(), id)
			if err != nil {
				return err
			}

			r.printer.Header(fmt.Sprintf("Job %d", j.ID))
			tbl := r.printer.NewTable([]string{"field", "value"})
			tbl.AddRow("status", r.printer.StatusBadge(j.CurrentStatus()))
			tbl.AddRow("service", string(j.ServiceType))
			tbl.AddRow("cargo", j.CargoDescription)
			tbl.AddRow("pickup", strings.TrimSpace(j.PickupAddress+" "+j.PickupCity))
			tbl.AddRow("delivery", strings.TrimSpace(j.DeliveryAddress+" "+j.DeliveryCity))
			if j.ProofOfDeliveryImage != "" {
				tbl.AddRow("proof", j.ProofOfDeliveryImage)
			}
			return tbl.Render()
		},
	}
}

func (r *runner) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id> <current-status> [new-status]",
		Short: "Advance a job",
		Long: `Move a job from its current status. Without new-status the one
action offered for the current status is taken:
  PENDING -> PICKED_UP -> IN_TRANSIT -> DELIVERED (ASSIGNED -> IN_TRANSIT)`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := r.currentUser(); err != nil {
				return err
			}
			id, err := parseJobID(args[0])
			if err != nil {
				return err
			}
			from := domain.JobStatus(strings.ToUpper(args[1]))
			var to domain.JobStatus
			if len(args) == 3 {
				to = domain.JobStatus(strings.ToUpper(args[2]))
			} else {
				next, ok := from.NextDriverStatus()
				if !ok {
					return fmt.Errorf("job %d is %s: %w", id, from, domain.ErrInvalidTransition)
				}
				to = next
			}

			res, err := r.deps.Driver.UpdateStatus(cmd.Context(), id, from, to)
			if err != nil {
				return err
			}
			r.printer.Success("Job %d is now %s", id, res.NewStatus)
			if res.NewStatus == domain.JobDelivered {
				r.printer.Info("Upload a delivery photo with: driver pod %d <file>", id)
			}
			return nil
		},
	}
}

func (r *runner) podCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pod <job-id> <image>",
		Short: "Upload proof of delivery",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := r.currentUser(); err != nil {
				return err
			}
			id, err := parseJobID(args[0])
			if err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return &output.CLIError{Summary: "cannot read image", Detail: err.Error(), ExitCode: output.ExitUsageError}
			}
			defer f.Close()

			pod, err := r.deps.Driver.UploadProofOfDelivery(cmd.Context(), id, f)
			if err != nil {
				return err
			}
			r.printer.Success("Proof of delivery uploaded for job %d", id)
			if pod.ImageURL != "" {
				r.printer.Print("%s", r.printer.Dim(pod.ImageURL))
			}
			return nil
		},
	}
}
