package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ItsCharrs/logipro/internal/api/metrics"
	"github.com/ItsCharrs/logipro/internal/core/domain"
	"github.com/ItsCharrs/logipro/internal/core/ports"
)

// BookingHandler serves the booking form: estimate, quote and submit.
type BookingHandler struct {
	service ports.BookingService
}

func NewBookingHandler(service ports.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

type estimateRequest struct {
	ServiceType domain.ServiceType `json:"service_type" validate:"required"`
}

type estimateResponse struct {
	ServiceType    domain.ServiceType `json:"service_type"`
	EstimatedPrice domain.Money       `json:"estimated_price"`
	// Estimate is always true: this is a placeholder, not a quote.
	Estimate bool `json:"estimate"`
}

// Estimate returns the client-side placeholder price for a service.
//
// @Summary      Placeholder price estimate
// @Tags         booking
// @Accept       json
// @Produce      json
// @Param        body  body      estimateRequest  true  "Service"
// @Success      200   {object}  estimateResponse
// @Failure      400   {object}  errorResponse
// @Router       /booking/estimate [post]
func (h *BookingHandler) Estimate(c echo.Context) error {
	var req estimateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	price, err := h.service.Estimate(req.ServiceType)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, estimateResponse{
		ServiceType:    req.ServiceType,
		EstimatedPrice: price,
		Estimate:       true,
	})
}

// Quote prices the booking with the server calculator, falling back to the
// estimate when it is unavailable.
//
// @Summary      Quote a booking
// @Tags         booking
// @Accept       json
// @Produce      json
// @Param        body  body      domain.BookingForm  true  "Booking form"
// @Success      200   {object}  domain.Quote
// @Failure      400   {object}  errorResponse
// @Router       /booking/quote [post]
func (h *BookingHandler) Quote(c echo.Context) error {
	var form domain.BookingForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	q, err := h.service.Quote(c.Request().Context(), form)
	if err != nil {
		return err
	}
	source := "server"
	if q.Fallback {
		source = "estimate"
	}
	metrics.QuotesTotal.WithLabelValues(string(form.ServiceType), source).Inc()
	return c.JSON(http.StatusOK, q)
}

// Submit books a job for the signed-in customer.
//
// @Summary      Submit a booking
// @Tags         booking
// @Accept       json
// @Produce      json
// @Param        body  body      domain.BookingForm  true  "Booking form"
// @Success      201   {object}  domain.BookingConfirmation
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /booking [post]
func (h *BookingHandler) Submit(c echo.Context) error {
	var form domain.BookingForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	conf, err := h.service.Submit(c.Request().Context(), form)
	if err != nil {
		return err
	}
	metrics.BookingsSubmittedTotal.WithLabelValues(string(form.ServiceType)).Inc()
	return c.JSON(http.StatusCreated, conf)
}
