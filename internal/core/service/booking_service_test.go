package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ItsCharrs/logipro/internal/core/domain"
)

type fixedSession domain.SessionState

func (s fixedSession) Current() domain.Snapshot {
	return domain.Snapshot{State: domain.SessionState(s)}
}

func validResidential() domain.BookingForm {
	return domain.BookingForm{
		JobType:               domain.JobResidential,
		ServiceType:           domain.ServiceResidentialMoving,
		CargoDescription:      "Three bedroom flat, boxed",
		RoomCount:             3,
		PickupAddress:         "12 Harbour Road",
		PickupCity:            "Leeds",
		PickupContactPerson:   "Ann",
		PickupContactPhone:    "07700900123",
		DeliveryAddress:       "4 Mill Lane",
		DeliveryCity:          "York",
		DeliveryContactPerson: "Ben",
		DeliveryContactPhone:  "07700900456",
		RequestedPickupDate:   "2026-04-02T09:30",
	}
}

func TestEstimate_BasePlusSurcharge(t *testing.T) {
	svc := NewBookingService(&stubBackend{}, fixedSession(domain.StateAnonymous), zerolog.Nop())

	cases := map[domain.ServiceType]string{
		domain.ServiceResidentialMoving: "300.00",
		domain.ServiceSmallDeliveries:   "100.00",
		domain.ServiceOfficeRelocation:  "450.00",
		domain.ServicePalletDelivery:    "200.00",
	}
	for service, want := range cases {
		got, err := svc.Estimate(service)
		require.NoError(t, err, service)
		surcharge, _ := service.Surcharge()
		assert.Equal(t, domain.BaseFee+surcharge, got)
		assert.Equal(t, want, got.String(), service)
	}

	_, err := svc.Estimate("MOON_LANDING")
	assert.ErrorIs(t, err, domain.ErrUnknownService)
}

func TestValidate(t *testing.T) {
	svc := NewBookingService(&stubBackend{}, fixedSession(domain.StateAnonymous), zerolog.Nop())

	require.NoError(t, svc.Validate(validResidential()))

	commercial := validResidential()
	commercial.JobType = domain.JobCommercial
	commercial.ServiceType = domain.ServicePalletDelivery
	commercial.RoomCount = 0
	commercial.WeightLbs = 450
	commercial.PalletCount = 2
	require.NoError(t, svc.Validate(commercial))

	cases := []struct {
		name   string
		mutate func(*domain.BookingForm)
		field  string
		msg    string
	}{
		{"short description", func(f *domain.BookingForm) { f.CargoDescription = "boxes" }, "cargo_description", "Please provide a more detailed description (at least 10 chars)."},
		{"no rooms", func(f *domain.BookingForm) { f.RoomCount = 0 }, "room_count", "At least 1 room required"},
		{"too many rooms", func(f *domain.BookingForm) { f.RoomCount = 21 }, "room_count", "Maximum 20 rooms"},
		{"short phone", func(f *domain.BookingForm) { f.PickupContactPhone = "123" }, "pickup_contact_phone", "Valid phone number required."},
		{"bad date", func(f *domain.BookingForm) { f.RequestedPickupDate = "next tuesday" }, "requested_pickup_date", "Please select a valid date and time."},
		{"service of other job type", func(f *domain.BookingForm) { f.ServiceType = domain.ServiceOfficeRelocation }, "service_type", "Please choose a service for this job type."},
		{"commercial without weight", func(f *domain.BookingForm) {
			f.JobType = domain.JobCommercial
			f.ServiceType = domain.ServiceOfficeRelocation
		}, "weight_lbs", "Weight is required for commercial jobs"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validResidential()
			tc.mutate(&form)

			err := svc.Validate(form)
			var ve domain.ValidationErrors
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.msg, ve[tc.field])
		})
	}
}

func TestQuote_ServerPrice(t *testing.T) {
	b := &stubBackend{quoteFn: func(_ context.Context, req domain.QuoteRequest) (*domain.Quote, error) {
		assert.Equal(t, "Leeds", req.Origin)
		assert.Equal(t, 3, req.RoomCount)
		assert.Zero(t, req.Weight)
		return &domain.Quote{EstimatedPrice: domain.Dollars(712, 50), ServiceType: req.ServiceType}, nil
	}}
	svc := NewBookingService(b, fixedSession(domain.StateAnonymous), zerolog.Nop())

	q, err := svc.Quote(context.Background(), validResidential())
	require.NoError(t, err)
	assert.False(t, q.Fallback)
	assert.Equal(t, "712.50", q.EstimatedPrice.String())
}

func TestQuote_FallsBackToEstimate(t *testing.T) {
	b := &stubBackend{quoteFn: func(context.Context, domain.QuoteRequest) (*domain.Quote, error) {
		return nil, errors.New("connection refused")
	}}
	svc := NewBookingService(b, fixedSession(domain.StateAnonymous), zerolog.Nop())

	q, err := svc.Quote(context.Background(), validResidential())
	require.NoError(t, err)
	assert.True(t, q.Fallback)
	assert.Equal(t, "300.00", q.EstimatedPrice.String())
}

func TestSubmit_RequiresSession(t *testing.T) {
	b := &stubBackend{bookFn: func(context.Context, domain.BookingForm) (*domain.BookingConfirmation, error) {
		t.Fatal("must not reach the backend")
		return nil, nil
	}}
	svc := NewBookingService(b, fixedSession(domain.StateAnonymous), zerolog.Nop())

	_, err := svc.Submit(context.Background(), validResidential())
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestSubmit_InvalidFormSkipsNetwork(t *testing.T) {
	b := &stubBackend{bookFn: func(context.Context, domain.BookingForm) (*domain.BookingConfirmation, error) {
		t.Fatal("must not reach the backend")
		return nil, nil
	}}
	svc := NewBookingService(b, fixedSession(domain.StateAuthenticated), zerolog.Nop())

	form := validResidential()
	form.PickupCity = ""
	_, err := svc.Submit(context.Background(), form)

	var ve domain.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve, "pickup_city")
}

func TestSubmit_Success(t *testing.T) {
	b := &stubBackend{bookFn: func(_ context.Context, f domain.BookingForm) (*domain.BookingConfirmation, error) {
		return &domain.BookingConfirmation{ID: 42, JobNumber: 1042}, nil
	}}
	svc := NewBookingService(b, fixedSession(domain.StateAuthenticated), zerolog.Nop())

	conf, err := svc.Submit(context.Background(), validResidential())
	require.NoError(t, err)
	assert.Equal(t, int64(1042), conf.JobNumber)
}
