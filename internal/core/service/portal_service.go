package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ItsCharrs/logipro/internal/core/domain"
	"github.com/ItsCharrs/logipro/internal/core/ports"
)

// Backend list and report paths.
const (
	PathJobs         = "/jobs/"
	PathOrders       = "/customers/me/orders/"
	PathOrderStats   = "/customers/me/orders/stats/"
	PathShipments    = "/transportation/shipments/"
	PathSummary      = "/reports/summary/"
	PathRecentOrders = "/reports/recent-orders-chart/"
	PathUsers        = "/users/"
	PathWarehouses   = "/warehouses/"
)

// JobPath is the detail path of a job.
func JobPath(id int64) string { return fmt.Sprintf("%s%d/", PathJobs, id) }

// OrderPath is the detail path of one of the customer's orders.
func OrderPath(id int64) string { return fmt.Sprintf("%s%d/", PathOrders, id) }

// TrackPath lists the shipments carrying a job.
func TrackPath(jobID int64) string { return fmt.Sprintf("%s?job_id=%d", PathShipments, jobID) }

const defaultChartDays = 7

type portalService struct {
	getter   ports.Getter
	fetch    *Fetcher
	ops      ports.OpsBackend
	validate *validator.Validate
	log      zerolog.Logger
}

// NewPortalService returns a PortalService. Lists are read straight through
// getter; stats and reports go through the shared fetch cache.
func NewPortalService(getter ports.Getter, fetch *Fetcher, ops ports.OpsBackend, log zerolog.Logger) ports.PortalService {
	return &portalService{
		getter:   getter,
		fetch:    fetch,
		ops:      ops,
		validate: newBookingValidator(),
		log:      log.With().Str("component", "portal").Logger(),
	}
}

func (s *portalService) Jobs(ctx context.Context, cursor string, f domain.ListFilter) (*ports.Listing[domain.Job], error) {
	return listing[domain.Job](ctx, s.getter, PathJobs, cursor, f)
}

func (s *portalService) Job(ctx context.Context, id int64) (*domain.Job, error) {
	var out domain.Job
	if err := s.fetch.Get(ctx, JobPath(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Track returns the shipments of a job, newest state as the backend has it.
func (s *portalService) Track(ctx context.Context, jobID int64) ([]domain.Shipment, error) {
	return cachedList[domain.Shipment](ctx, s.fetch, TrackPath(jobID))
}

// CreateJob books a job from the dashboard. The form is checked with the same
// rules as a customer booking.
func (s *portalService) CreateJob(ctx context.Context, form domain.BookingForm) (*domain.Job, error) {
	if err := s.validate.Struct(form); err != nil {
		return nil, toValidationErrors(err)
	}
	job, err := s.ops.CreateJob(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	if err := s.fetch.Mutate(ctx, PathSummary, nil); err != nil {
		s.log.Warn().Err(err).Msg("failed to refresh summary after job creation")
	}
	return job, nil
}

func (s *portalService) Orders(ctx context.Context, cursor string, f domain.ListFilter) (*ports.Listing[domain.Order], error) {
	return listing[domain.Order](ctx, s.getter, PathOrders, cursor, f)
}

func (s *portalService) Order(ctx context.Context, id int64) (*domain.Order, error) {
	var out domain.Order
	if err := s.fetch.Get(ctx, OrderPath(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *portalService) Shipments(ctx context.Context, cursor string, f domain.ListFilter) (*ports.Listing[domain.Shipment], error) {
	return listing[domain.Shipment](ctx, s.getter, PathShipments, cursor, f)
}

// UpdateShipment patches a shipment and refreshes the dashboard summary,
// which counts shipments in transit.
func (s *portalService) UpdateShipment(ctx context.Context, id int64, patch domain.ShipmentPatch) (*domain.Shipment, error) {
	sh, err := s.ops.UpdateShipment(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update shipment %d: %w", id, err)
	}
	if err := s.fetch.Mutate(ctx, PathSummary, nil); err != nil {
		s.log.Warn().Err(err).Msg("failed to refresh summary after shipment update")
	}
	return sh, nil
}

// Users lists accounts, optionally only those with role.
func (s *portalService) Users(ctx context.Context, role domain.Role) ([]domain.User, error) {
	return cachedList[domain.User](ctx, s.fetch, ListPath(PathUsers, domain.ListFilter{Role: string(role)}))
}

func (s *portalService) Warehouses(ctx context.Context) ([]domain.Warehouse, error) {
	return cachedList[domain.Warehouse](ctx, s.fetch, PathWarehouses)
}

// SaveWarehouse creates w, or replaces the warehouse with w's ID.
func (s *portalService) SaveWarehouse(ctx context.Context, w domain.Warehouse) (*domain.Warehouse, error) {
	if err := checkWarehouse(s.validate, w); err != nil {
		return nil, err
	}

	var (
		saved *domain.Warehouse
		err   error
	)
	if w.ID == 0 {
		saved, err = s.ops.CreateWarehouse(ctx, w)
	} else {
		saved, err = s.ops.UpdateWarehouse(ctx, w.ID, w)
	}
	if err != nil {
		return nil, fmt.Errorf("save warehouse: %w", err)
	}
	s.refreshWarehouses(ctx)
	return saved, nil
}

func (s *portalService) DeleteWarehouse(ctx context.Context, id int64) error {
	if err := s.ops.DeleteWarehouse(ctx, id); err != nil {
		return fmt.Errorf("delete warehouse %d: %w", id, err)
	}
	s.refreshWarehouses(ctx)
	return nil
}

func (s *portalService) refreshWarehouses(ctx context.Context) {
	if !s.fetch.Status(PathWarehouses).HasData {
		return
	}
	if err := s.fetch.Mutate(ctx, PathWarehouses, nil); err != nil {
		s.log.Warn().Err(err).Msg("failed to refresh warehouses")
	}
}

func (s *portalService) OrderStats(ctx context.Context) (*domain.OrderStats, error) {
	var out domain.OrderStats
	if err := s.fetch.Get(ctx, PathOrderStats, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *portalService) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	var out domain.DashboardSummary
	if err := s.fetch.Get(ctx, PathSummary, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *portalService) Chart(ctx context.Context, days int) ([]domain.ChartPoint, error) {
	if days <= 0 {
		days = defaultChartDays
	}
	var out []domain.ChartPoint
	if err := s.fetch.Get(ctx, fmt.Sprintf("%s?days=%d", PathRecentOrders, days), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// cachedList reads a list endpoint through the fetch cache.
func cachedList[T any](ctx context.Context, fetch *Fetcher, path string) ([]T, error) {
	var raw json.RawMessage
	if err := fetch.Get(ctx, path, &raw); err != nil {
		return nil, err
	}
	items, err := domain.DecodeList[T](raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// listing loads one page either from a cursor kept by the caller or from the
// filtered base path.
func listing[T any](ctx context.Context, g ports.Getter, base, cursor string, f domain.ListFilter) (*ports.Listing[T], error) {
	p := NewPager[T](g)
	if cursor == "" {
		cursor = ListPath(base, f)
	}
	pg, err := p.Resume(ctx, cursor, f.Page)
	if err != nil {
		return nil, err
	}

	out := &ports.Listing[T]{
		Page:    p.Page(),
		Count:   pg.Count,
		Results: pg.Results,
		HasNext: p.HasNext(),
		HasPrev: p.HasPrev(),
	}
	if pg.Next != nil {
		out.NextCursor = *pg.Next
	}
	if pg.Previous != nil {
		out.PrevCursor = *pg.Previous
	}
	return out, nil
}
