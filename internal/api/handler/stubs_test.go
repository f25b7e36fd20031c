package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ItsCharrs/logipro/internal/core/domain"
	"github.com/ItsCharrs/logipro/internal/core/ports"
)

type stubSessionService struct {
	establishFn func(ctx context.Context, cred domain.Credential) (domain.Snapshot, error)
	registerFn  func(ctx context.Context, reg domain.Registration) (domain.Snapshot, error)
	current     domain.Snapshot
	teardowns   int
}

func (s *stubSessionService) Register(ctx context.Context, reg domain.Registration) (domain.Snapshot, error) {
	return s.registerFn(ctx, reg)
}

func (s *stubSessionService) Establish(ctx context.Context, cred domain.Credential) (domain.Snapshot, error) {
	return s.establishFn(ctx, cred)
}

func (s *stubSessionService) Rehydrate(context.Context) (domain.Snapshot, error) {
	return s.current, nil
}

func (s *stubSessionService) Teardown(context.Context) { s.teardowns++ }

func (s *stubSessionService) Current() domain.Snapshot { return s.current }

type stubBookingService struct {
	estimateFn func(domain.ServiceType) (domain.Money, error)
	quoteFn    func(ctx context.Context, form domain.BookingForm) (*domain.Quote, error)
	submitFn   func(ctx context.Context, form domain.BookingForm) (*domain.BookingConfirmation, error)
}

func (s *stubBookingService) Estimate(st domain.ServiceType) (domain.Money, error) {
	return s.estimateFn(st)
}

func (s *stubBookingService) Validate(domain.BookingForm) error { return nil }

func (s *stubBookingService) Quote(ctx context.Context, form domain.BookingForm) (*domain.Quote, error) {
	return s.quoteFn(ctx, form)
}

func (s *stubBookingService) Submit(ctx context.Context, form domain.BookingForm) (*domain.BookingConfirmation, error) {
	return s.submitFn(ctx, form)
}

type stubDriverService struct {
	jobsFn   func(ctx context.Context) ([]domain.DriverJob, error)
	jobFn    func(ctx context.Context, id int64) (*domain.DriverJob, error)
	earnings *domain.DriverEarnings
	stats    *domain.DriverStats
	updateFn func(ctx context.Context, id int64, from, to domain.JobStatus) (*domain.StatusUpdateResult, error)
	podFn    func(ctx context.Context, id int64, image io.Reader) (*domain.ProofOfDelivery, error)
}

func (s *stubDriverService) Jobs(ctx context.Context) ([]domain.DriverJob, error) {
	return s.jobsFn(ctx)
}

func (s *stubDriverService) Job(ctx context.Context, id int64) (*domain.DriverJob, error) {
	return s.jobFn(ctx, id)
}

func (s *stubDriverService) Earnings(context.Context) (*domain.DriverEarnings, error) {
	return s.earnings, nil
}

func (s *stubDriverService) Stats(context.Context) (*domain.DriverStats, error) {
	return s.stats, nil
}

func (s *stubDriverService) UpdateStatus(ctx context.Context, id int64, from, to domain.JobStatus) (*domain.StatusUpdateResult, error) {
	return s.updateFn(ctx, id, from, to)
}

func (s *stubDriverService) UploadProofOfDelivery(ctx context.Context, id int64, image io.Reader) (*domain.ProofOfDelivery, error) {
	return s.podFn(ctx, id, image)
}

type stubThemeService struct {
	theme domain.Theme
}

func (s *stubThemeService) Load(context.Context) domain.Theme { return s.theme }

func (s *stubThemeService) Set(_ context.Context, t domain.Theme) error {
	s.theme = t
	return nil
}

func (s *stubThemeService) Toggle(context.Context) (domain.Theme, error) {
	s.theme = s.theme.Toggle()
	return s.theme, nil
}

type stubPortalService struct {
	ordersFn func(ctx context.Context, cursor string, f domain.ListFilter) (*ports.Listing[domain.Order], error)
	chartFn  func(ctx context.Context, days int) ([]domain.ChartPoint, error)
	patchFn  func(ctx context.Context, id int64, p domain.ShipmentPatch) (*domain.Shipment, error)
	jobFn    func(ctx context.Context, id int64) (*domain.Job, error)
	trackFn  func(ctx context.Context, jobID int64) ([]domain.Shipment, error)
	usersFn  func(ctx context.Context, role domain.Role) ([]domain.User, error)
	saveFn   func(ctx context.Context, w domain.Warehouse) (*domain.Warehouse, error)
	deleted  []int64
}

func (s *stubPortalService) Job(ctx context.Context, id int64) (*domain.Job, error) {
	return s.jobFn(ctx, id)
}

func (s *stubPortalService) Track(ctx context.Context, jobID int64) ([]domain.Shipment, error) {
	return s.trackFn(ctx, jobID)
}

func (s *stubPortalService) Order(_ context.Context, id int64) (*domain.Order, error) {
	return &domain.Order{ID: id}, nil
}

func (s *stubPortalService) Users(ctx context.Context, role domain.Role) ([]domain.User, error) {
	return s.usersFn(ctx, role)
}

func (s *stubPortalService) Warehouses(context.Context) ([]domain.Warehouse, error) {
	return nil, nil
}

func (s *stubPortalService) SaveWarehouse(ctx context.Context, w domain.Warehouse) (*domain.Warehouse, error) {
	return s.saveFn(ctx, w)
}

func (s *stubPortalService) DeleteWarehouse(_ context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubPortalService) Jobs(context.Context, string, domain.ListFilter) (*ports.Listing[domain.Job], error) {
	return &ports.Listing[domain.Job]{Page: 1}, nil
}

func (s *stubPortalService) CreateJob(context.Context, domain.BookingForm) (*domain.Job, error) {
	return &domain.Job{ID: 1}, nil
}

func (s *stubPortalService) Orders(ctx context.Context, cursor string, f domain.ListFilter) (*ports.Listing[domain.Order], error) {
	return s.ordersFn(ctx, cursor, f)
}

func (s *stubPortalService) Shipments(context.Context, string, domain.ListFilter) (*ports.Listing[domain.Shipment], error) {
	return &ports.Listing[domain.Shipment]{Page: 1}, nil
}

func (s *stubPortalService) UpdateShipment(ctx context.Context, id int64, p domain.ShipmentPatch) (*domain.Shipment, error) {
	return s.patchFn(ctx, id, p)
}

func (s *stubPortalService) OrderStats(context.Context) (*domain.OrderStats, error) {
	return &domain.OrderStats{Total: 3}, nil
}

func (s *stubPortalService) Summary(context.Context) (*domain.DashboardSummary, error) {
	return &domain.DashboardSummary{TotalJobs: 9}, nil
}

func (s *stubPortalService) Chart(ctx context.Context, days int) ([]domain.ChartPoint, error) {
	return s.chartFn(ctx, days)
}

// newContext builds an echo context with the handler package's validator.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
