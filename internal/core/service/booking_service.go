package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ItsCharrs/logipro/internal/core/domain"
	"github.com/ItsCharrs/logipro/internal/core/ports"
)

// SessionReader exposes the current session without the ability to change it.
type SessionReader interface {
	Current() domain.Snapshot
}

type bookingService struct {
	backend  ports.BookingBackend
	session  SessionReader
	validate *validator.Validate
	log      zerolog.Logger
}

// NewBookingService returns a BookingService.
func NewBookingService(backend ports.BookingBackend, session SessionReader, log zerolog.Logger) ports.BookingService {
	return &bookingService{
		backend:  backend,
		session:  session,
		validate: newBookingValidator(),
		log:      log.With().Str("component", "booking").Logger(),
	}
}

// Estimate is the placeholder price: the base fee plus the category's fixed
// surcharge. It ignores distance and weight.
func (s *bookingService) Estimate(service domain.ServiceType) (domain.Money, error) {
	surcharge, ok := service.Surcharge()
	if !ok {
		return 0, fmt.Errorf("estimate %q: %w", service, domain.ErrUnknownService)
	}
	return domain.BaseFee + surcharge, nil
}

func (s *bookingService) Validate(form domain.BookingForm) error {
	if err := s.validate.Struct(form); err != nil {
		return toValidationErrors(err)
	}
	return nil
}

// Quote asks the server calculator for a price. When it cannot answer, the
// placeholder estimate is returned with Fallback set so the caller can label
// it as approximate.
func (s *bookingService) Quote(ctx context.Context, form domain.BookingForm) (*domain.Quote, error) {
	q, err := s.backend.CalculateQuote(ctx, form.QuoteRequest())
	if err == nil {
		return q, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	price, estErr := s.Estimate(form.ServiceType)
	if estErr != nil {
		return nil, fmt.Errorf("quote: %w", err)
	}
	s.log.Warn().Err(err).Str("service_type", string(form.ServiceType)).Msg("quote calculator unavailable, using estimate")
	return &domain.Quote{
		EstimatedPrice: price,
		ServiceType:    form.ServiceType,
		JobType:        form.JobType,
		Fallback:       true,
	}, nil
}

// Submit validates and posts a booking. It needs an authenticated session;
// an invalid form never reaches the network.
func (s *bookingService) Submit(ctx context.Context, form domain.BookingForm) (*domain.BookingConfirmation, error) {
	if s.session.Current().State != domain.StateAuthenticated {
		return nil, domain.ErrNotAuthenticated
	}
	if err := s.Validate(form); err != nil {
		return nil, err
	}

	conf, err := s.backend.CreateBooking(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("submit booking: %w", err)
	}
	s.log.Info().Int64("job_id", conf.ID).Str("service_type", string(form.ServiceType)).Msg("booking submitted")
	return conf, nil
}
