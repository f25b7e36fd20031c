package ports

import (
	"context"
	"io"

	"github.com/ItsCharrs/logipro/internal/core/domain"
)

// SessionService owns the single session of an app instance.
type SessionService interface {
	Establish(ctx context.Context, cred domain.Credential) (domain.Snapshot, error)
	Register(ctx context.Context, reg domain.Registration) (domain.Snapshot, error)
	Rehydrate(ctx context.Context) (domain.Snapshot, error)
	Teardown(ctx context.Context)
	Current() domain.Snapshot
}

type BookingService interface {
	Estimate(service domain.ServiceType) (domain.Money, error)
	Validate(form domain.BookingForm) error
	Quote(ctx context.Context, form domain.BookingForm) (*domain.Quote, error)
	Submit(ctx context.Context, form domain.BookingForm) (*domain.BookingConfirmation, error)
}

type DriverService interface {
	Jobs(ctx context.Context) ([]domain.DriverJob, error)
	UpdateStatus(ctx context.Context, jobID int64, from, to domain.JobStatus) (*domain.StatusUpdateResult, error)
	UploadProofOfDelivery(ctx context.Context, jobID int64, image io.Reader) (*domain.ProofOfDelivery, error)
	Job(ctx context.Context, jobID int64) (*domain.DriverJob, error)
	Earnings(ctx context.Context) (*domain.DriverEarnings, error)
	Stats(ctx context.Context) (*domain.DriverStats, error)
}

type ThemeService interface {
	Load(ctx context.Context) domain.Theme
	Set(ctx context.Context, t domain.Theme) error
	Toggle(ctx context.Context) (domain.Theme, error)
}

// PortalService serves the read-mostly listings and reports.
type PortalService interface {
	Jobs(ctx context.Context, cursor string, f domain.ListFilter) (*Listing[domain.Job], error)
	Job(ctx context.Context, id int64) (*domain.Job, error)
	CreateJob(ctx context.Context, form domain.BookingForm) (*domain.Job, error)
	Track(ctx context.Context, jobID int64) ([]domain.Shipment, error)
	Orders(ctx context.Context, cursor string, f domain.ListFilter) (*Listing[domain.Order], error)
	Order(ctx context.Context, id int64) (*domain.Order, error)
	Shipments(ctx context.Context, cursor string, f domain.ListFilter) (*Listing[domain.Shipment], error)
	UpdateShipment(ctx context.Context, id int64, patch domain.ShipmentPatch) (*domain.Shipment, error)
	OrderStats(ctx context.Context) (*domain.OrderStats, error)
	Summary(ctx context.Context) (*domain.DashboardSummary, error)
	Chart(ctx context.Context, days int) ([]domain.ChartPoint, error)
	Users(ctx context.Context, role domain.Role) ([]domain.User, error)
	Warehouses(ctx context.Context) ([]domain.Warehouse, error)
	SaveWarehouse(ctx context.Context, w domain.Warehouse) (*domain.Warehouse, error)
	DeleteWarehouse(ctx context.Context, id int64) error
}

// Listing is one page of a list together with the cursors to move from it.
type Listing[T any] struct {
	Page       int    `json:"page"`
	Count      int    `json:"count"`
	Results    []T    `json:"results"`
	HasNext    bool   `json:"has_next"`
	HasPrev    bool   `json:"has_prev"`
	NextCursor string `json:"next_cursor,omitempty"`
	PrevCursor string `json:"prev_cursor,omitempty"`
}
