package ports

import (
	"context"
	"io"

	"github.com/ItsCharrs/logipro/internal/core/domain"
)

// Getter fetches a path (or absolute URL) and decodes the JSON body into out.
type Getter interface {
	GetJSON(ctx context.Context, path string, out any) error
}

// AuthHeader is the shared default Authorization header of an app instance.
type AuthHeader interface {
	SetAuthToken(token string)
	ClearAuthToken()
	AuthToken() string
}

// SessionBackend is the part of the backend the session manager talks to.
type SessionBackend interface {
	AuthHeader
	ExchangeToken(ctx context.Context, identityToken string) (*domain.TokenPair, error)
	CurrentUser(ctx context.Context) (*domain.User, error)
}

// BookingBackend submits bookings and asks for server quotes.
type BookingBackend interface {
	CalculateQuote(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error)
	CreateBooking(ctx context.Context, form domain.BookingForm) (*domain.BookingConfirmation, error)
}

// DriverBackend is the driver app's slice of the backend.
type DriverBackend interface {
	DriverJobs(ctx context.Context) ([]domain.DriverJob, error)
	UpdateJobStatus(ctx context.Context, jobID int64, upd domain.StatusUpdate) (*domain.StatusUpdateResult, error)
	UploadProofOfDelivery(ctx context.Context, jobID int64, filename string, image io.Reader) (*domain.ProofOfDelivery, error)
}

// OpsBackend holds the dashboard write operations.
type OpsBackend interface {
	CreateJob(ctx context.Context, form domain.BookingForm) (*domain.Job, error)
	UpdateShipment(ctx context.Context, id int64, patch domain.ShipmentPatch) (*domain.Shipment, error)
	CreateWarehouse(ctx context.Context, w domain.Warehouse) (*domain.Warehouse, error)
	UpdateWarehouse(ctx context.Context, id int64, w domain.Warehouse) (*domain.Warehouse, error)
	DeleteWarehouse(ctx context.Context, id int64) error
}
