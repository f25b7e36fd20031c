package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/ItsCharrs/logipro/internal/core/domain"
)

const podField = "proof_of_delivery_image"

// ExchangeToken trades an identity token for a backend session.
func (c *Client) ExchangeToken(ctx context.Context, identityToken string) (*domain.TokenPair, error) {
	var pair domain.TokenPair
	if err := c.postJSON(ctx, "auth_exchange", "/auth/firebase/", map[string]string{"token": identityToken}, &pair); err != nil {
		return nil, err
	}
	if pair.Access == "" {
		return nil, fmt.Errorf("exchange: backend returned no access token")
	}
	return &pair, nil
}

// CurrentUser fetches the profile of the installed token.
func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, "users_me", http.MethodGet, "/users/me/", nil, "", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) CalculateQuote(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error) {
	var q domain.Quote
	if err := c.postJSON(ctx, "quote", "/quotes/calculate/", req, &q); err != nil {
		return nil, err
	}
	if q.ServiceType == "" {
		q.ServiceType = req.ServiceType
	}
	return &q, nil
}

func (c *Client) CreateBooking(ctx context.Context, form domain.BookingForm) (*domain.BookingConfirmation, error) {
	var conf domain.BookingConfirmation
	if err := c.postJSON(ctx, "book", "/book/", form, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// CreateJob creates a job on behalf of a customer from the dashboard.
func (c *Client) CreateJob(ctx context.Context, form domain.BookingForm) (*domain.Job, error) {
	var job domain.Job
	if err := c.postJSON(ctx, "jobs_create", "/jobs/", form, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) UpdateShipment(ctx context.Context, id int64, patch domain.ShipmentPatch) (*domain.Shipment, error) {
	body, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("encode shipment patch: %w", err)
	}
	var sh domain.Shipment
	path := fmt.Sprintf("/transportation/shipments/%d/", id)
	if err := c.do(ctx, "shipments_update", http.MethodPatch, path, bytes.NewReader(body), "", &sh); err != nil {
		return nil, err
	}
	return &sh, nil
}

func (c *Client) CreateWarehouse(ctx context.Context, w domain.Warehouse) (*domain.Warehouse, error) {
	var out domain.Warehouse
	if err := c.postJSON(ctx, "warehouses_create", "/warehouses/", w, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateWarehouse(ctx context.Context, id int64, w domain.Warehouse) (*domain.Warehouse, error) {
	body, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("encode warehouse: %w", err)
	}
	var out domain.Warehouse
	path := fmt.Sprintf("/warehouses/%d/", id)
	if err := c.do(ctx, "warehouses_update", http.MethodPut, path, bytes.NewReader(body), "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteWarehouse(ctx context.Context, id int64) error {
	return c.do(ctx, "warehouses_delete", http.MethodDelete, fmt.Sprintf("/warehouses/%d/", id), nil, "", nil)
}

// DriverJobs lists the jobs assigned to the signed-in driver. The endpoint
// answers with either a bare list or a page; both are accepted.
func (c *Client) DriverJobs(ctx context.Context) ([]domain.DriverJob, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "driver_jobs", http.MethodGet, "/transportation/drivers/me/jobs/", nil, "", &raw); err != nil {
		return nil, err
	}
	jobs, err := domain.DecodeList[domain.DriverJob](raw)
	if err != nil {
		return nil, fmt.Errorf("driver jobs: %w", err)
	}
	return jobs, nil
}

func (c *Client) UpdateJobStatus(ctx context.Context, jobID int64, upd domain.StatusUpdate) (*domain.StatusUpdateResult, error) {
	var res domain.StatusUpdateResult
	path := fmt.Sprintf("/driver/jobs/%d/update_status/", jobID)
	if err := c.postJSON(ctx, "driver_status", path, upd, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UploadProofOfDelivery streams image as a multipart upload.
func (c *Client) UploadProofOfDelivery(ctx context.Context, jobID int64, filename string, image io.Reader) (*domain.ProofOfDelivery, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, podField, filename))
		h.Set("Content-Type", "image/jpeg")
		part, err := mw.CreatePart(h)
		if err == nil {
			_, err = io.Copy(part, image)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	var pod domain.ProofOfDelivery
	path := fmt.Sprintf("/driver/jobs/%d/upload-pod/", jobID)
	err := c.do(ctx, "driver_pod", http.MethodPost, path, pr, mw.FormDataContentType(), &pod)
	// Unblock the writer if the request ended before reading everything.
	_ = pr.CloseWithError(io.ErrClosedPipe)
	if err != nil {
		return nil, err
	}
	return &pod, nil
}
