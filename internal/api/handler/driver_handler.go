package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ItsCharrs/logipro/internal/api/metrics"
	"github.com/ItsCharrs/logipro/internal/core/domain"
	"github.com/ItsCharrs/logipro/internal/core/ports"
)

// podField is the multipart field carrying the delivery photo.
const podField = "proof_of_delivery_image"

const maxPODSize = 10 << 20

// DriverHandler serves the driver's job list and status buttons.
type DriverHandler struct {
	service ports.DriverService
}

func NewDriverHandler(service ports.DriverService) *DriverHandler {
	return &DriverHandler{service: service}
}

// statusRequest moves a job from its current status. To may be omitted, in
// which case the single next driver status is used.
type statusRequest struct {
	From domain.JobStatus `json:"from" validate:"required"`
	To   domain.JobStatus `json:"to"`
}

// Jobs lists the jobs assigned to the signed-in driver.
//
// @Summary      My jobs
// @Tags         driver
// @Produce      json
// @Success      200  {array}   domain.DriverJob
// @Failure      403  {object}  errorResponse
// @Router       /driver/jobs [get]
func (h *DriverHandler) Jobs(c echo.Context) error {
	jobs, err := h.service.Jobs(c.Request().Context())
	if err != nil {
		return err
	}
	if jobs == nil {
		jobs = []domain.DriverJob{}
	}
	return c.JSON(http.StatusOK, jobs)
}

// Job returns one of the driver's jobs.
//
// @Summary      My job
// @Tags         driver
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  domain.DriverJob
// @Router       /driver/jobs/{id} [get]
func (h *DriverHandler) Job(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	job, err := h.service.Job(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, job)
}

// @Summary      My earnings
// @Tags         driver
// @Produce      json
// @Success      200  {object}  domain.DriverEarnings
// @Router       /driver/earnings [get]
func (h *DriverHandler) Earnings(c echo.Context) error {
	out, err := h.service.Earnings(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// @Summary      My stats
// @Tags         driver
// @Produce      json
// @Success      200  {object}  domain.DriverStats
// @Router       /driver/stats [get]
func (h *DriverHandler) Stats(c echo.Context) error {
	out, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// UpdateStatus advances a job.
//
// @Summary      Update job status
// @Tags         driver
// @Accept       json
// @Produce      json
// @Param        id    path      int            true  "Job ID"
// @Param        body  body      statusRequest  true  "Transition"
// @Success      200   {object}  domain.StatusUpdateResult
// @Failure      422   {object}  errorResponse
// @Router       /driver/jobs/{id}/status [post]
func (h *DriverHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.To == "" {
		next, ok := req.From.NextDriverStatus()
		if !ok {
			return domain.ErrInvalidTransition
		}
		req.To = next
	}

	res, err := h.service.UpdateStatus(c.Request().Context(), id, req.From, req.To)
	if err != nil {
		return err
	}
	metrics.DriverStatusUpdatesTotal.WithLabelValues(string(req.To)).Inc()
	return c.JSON(http.StatusOK, res)
}

// UploadProofOfDelivery forwards the delivery photo to the backend.
//
// @Summary      Upload proof of delivery
// @Tags         driver
// @Accept       multipart/form-data
// @Produce      json
// @Param        id                       path      int   true  "Job ID"
// @Param        proof_of_delivery_image  formData  file  true  "Photo"
// @Success      200                      {object}  domain.ProofOfDelivery
// @Failure      400                      {object}  errorResponse
// @Router       /driver/jobs/{id}/pod [post]
func (h *DriverHandler) UploadProofOfDelivery(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, maxPODSize)
	fh, err := c.FormFile(podField)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, podField+" is required")
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable upload")
	}
	defer f.Close()

	pod, err := h.service.UploadProofOfDelivery(c.Request().Context(), id, f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pod)
}
