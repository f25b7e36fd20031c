package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/ItsCharrs/logipro/internal/core/domain"
	"github.com/ItsCharrs/logipro/internal/core/ports"
)

// Driver read paths served through the fetch cache.
const (
	PathDriverEarnings = "/driver/earnings/"
	PathDriverStats    = "/driver/stats/"
)

// DriverJobPath is the driver's view of one job.
func DriverJobPath(id int64) string { return fmt.Sprintf("/driver/jobs/%d/", id) }

type driverService struct {
	backend ports.DriverBackend
	fetch   *Fetcher
	log     zerolog.Logger
	now     func() time.Time
}

// NewDriverService returns a DriverService. The job list always goes to the
// backend; job detail and the pay and performance screens are cached.
func NewDriverService(backend ports.DriverBackend, fetch *Fetcher, log zerolog.Logger) ports.DriverService {
	return &driverService{
		backend: backend,
		fetch:   fetch,
		log:     log.With().Str("component", "driver").Logger(),
		now:     time.Now,
	}
}

func (s *driverService) Jobs(ctx context.Context) ([]domain.DriverJob, error) {
	jobs, err := s.backend.DriverJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("driver jobs: %w", err)
	}
	return jobs, nil
}

// UpdateStatus moves a job along the driver flow. Transitions the driver is
// not offered are refused before any request is made.
func (s *driverService) UpdateStatus(ctx context.Context, jobID int64, from, to domain.JobStatus) (*domain.StatusUpdateResult, error) {
	if !from.CanTransitionTo(to) {
		return nil, fmt.Errorf("update job %d: %w (from %s to %s)", jobID, domain.ErrInvalidTransition, from, to)
	}

	res, err := s.backend.UpdateJobStatus(ctx, jobID, domain.StatusUpdate{
		Status:      to,
		Description: fmt.Sprintf("Driver updated status to %s", to),
	})
	if err != nil {
		return nil, fmt.Errorf("update job %d: %w", jobID, err)
	}

	s.log.Info().Int64("job_id", jobID).Str("from", string(from)).Str("to", string(to)).Msg("job status updated")
	s.refresh(ctx, DriverJobPath(jobID), PathDriverStats, PathDriverEarnings)
	return res, nil
}

func (s *driverService) Job(ctx context.Context, jobID int64) (*domain.DriverJob, error) {
	var out domain.DriverJob
	if err := s.fetch.Get(ctx, DriverJobPath(jobID), &out); err != nil {
		return nil, fmt.Errorf("driver job %d: %w", jobID, err)
	}
	return &out, nil
}

func (s *driverService) Earnings(ctx context.Context) (*domain.DriverEarnings, error) {
	var out domain.DriverEarnings
	if err := s.fetch.Get(ctx, PathDriverEarnings, &out); err != nil {
		return nil, fmt.Errorf("driver earnings: %w", err)
	}
	return &out, nil
}

func (s *driverService) Stats(ctx context.Context) (*domain.DriverStats, error) {
	var out domain.DriverStats
	if err := s.fetch.Get(ctx, PathDriverStats, &out); err != nil {
		return nil, fmt.Errorf("driver stats: %w", err)
	}
	return &out, nil
}

// refresh refetches those of paths that something has already read.
func (s *driverService) refresh(ctx context.Context, paths ...string) {
	for _, p := range paths {
		if !s.fetch.Status(p).HasData {
			continue
		}
		if err := s.fetch.Mutate(ctx, p, nil); err != nil {
			s.log.Warn().Err(err).Str("path", p).Msg("failed to refresh after status update")
		}
	}
}

// UploadProofOfDelivery sends a delivery photo for jobID.
func (s *driverService) UploadProofOfDelivery(ctx context.Context, jobID int64, image io.Reader) (*domain.ProofOfDelivery, error) {
	name := fmt.Sprintf("pod_%d_%d.jpg", jobID, s.now().UnixMilli())
	pod, err := s.backend.UploadProofOfDelivery(ctx, jobID, name, image)
	if err != nil {
		return nil, fmt.Errorf("upload proof of delivery for job %d: %w", jobID, err)
	}
	s.log.Info().Int64("job_id", jobID).Str("image_url", pod.ImageURL).Msg("proof of delivery uploaded")
	s.refresh(ctx, DriverJobPath(jobID))
	return pod, nil
}
