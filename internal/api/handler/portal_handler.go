package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ItsCharrs/logipro/internal/core/domain"
	"github.com/ItsCharrs/logipro/internal/core/ports"
)

const maxChartDays = 90

// PortalHandler serves the dashboard and customer account listings.
type PortalHandler struct {
	service ports.PortalService
}

func NewPortalHandler(service ports.PortalService) *PortalHandler {
	return &PortalHandler{service: service}
}

// Jobs lists jobs for staff.
//
// @Summary      List jobs
// @Tags         dashboard
// @Produce      json
// @Param        cursor  query     string  false  "Opaque cursor from next_cursor or prev_cursor"
// @Param        search  query     string  false  "Free-text search"
// @Param        status  query     string  false  "Status filter"
// @Param        page    query     int     false  "Page number"
// @Success      200     {object}  ports.Listing[domain.Job]
// @Failure      403     {object}  errorResponse
// @Router       /jobs [get]
func (h *PortalHandler) Jobs(c echo.Context) error {
	cursor, f, err := listQuery(c)
	if err != nil {
		return err
	}
	out, err := h.service.Jobs(c.Request().Context(), cursor, f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// CreateJob creates a job on behalf of a customer.
//
// @Summary      Create a job
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Param        body  body      domain.BookingForm  true  "Job form"
// @Success      201   {object}  domain.Job
// @Failure      422   {object}  errorResponse
// @Router       /jobs [post]
func (h *PortalHandler) CreateJob(c echo.Context) error {
	var form domain.BookingForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	job, err := h.service.CreateJob(c.Request().Context(), form)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, job)
}

// Job returns one job.
//
// @Summary      Job detail
// @Tags         dashboard
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  domain.Job
// @Failure      404  {object}  errorResponse
// @Router       /jobs/{id} [get]
func (h *PortalHandler) Job(c echo.Context) error {
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

// Track lists the shipments carrying a job. Staff and customers share it.
//
// @Summary      Track a job
// @Tags         tracking
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {array}   domain.Shipment
// @Router       /track/{id} [get]
func (h *PortalHandler) Track(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	shipments, err := h.service.Track(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if shipments == nil {
		shipments = []domain.Shipment{}
	}
	return c.JSON(http.StatusOK, shipments)
}

// Orders lists the signed-in customer's orders.
//
// @Summary      List my orders
// @Tags         account
// @Produce      json
// @Param        cursor  query     string  false  "Opaque cursor"
// @Param        search  query     string  false  "Free-text search"
// @Param        status  query     string  false  "Status filter"
// @Success      200     {object}  ports.Listing[domain.Order]
// @Router       /orders [get]
func (h *PortalHandler) Orders(c echo.Context) error {
	cursor, f, err := listQuery(c)
	if err != nil {
		return err
	}
	out, err := h.service.Orders(c.Request().Context(), cursor, f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Order returns one of the customer's orders.
//
// @Summary      My order
// @Tags         account
// @Produce      json
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  domain.Order
// @Router       /orders/{id} [get]
func (h *PortalHandler) Order(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	order, err := h.service.Order(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// OrderStats returns the customer's order counters.
//
// @Summary      My order stats
// @Tags         account
// @Produce      json
// @Success      200  {object}  domain.OrderStats
// @Router       /orders/stats [get]
func (h *PortalHandler) OrderStats(c echo.Context) error {
	stats, err := h.service.OrderStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Shipments lists shipments for staff.
//
// @Summary      List shipments
// @Tags         dashboard
// @Produce      json
// @Param        cursor  query     string  false  "Opaque cursor"
// @Param        status  query     string  false  "Status filter"
// @Success      200     {object}  ports.Listing[domain.Shipment]
// @Router       /shipments [get]
func (h *PortalHandler) Shipments(c echo.Context) error {
	cursor, f, err := listQuery(c)
	if err != nil {
		return err
	}
	out, err := h.service.Shipments(c.Request().Context(), cursor, f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// UpdateShipment assigns a driver or vehicle, or moves the shipment along.
//
// @Summary      Update a shipment
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Param        id    path      int                   true  "Shipment ID"
// @Param        body  body      domain.ShipmentPatch  true  "Fields to change"
// @Success      200   {object}  domain.Shipment
// @Failure      400   {object}  errorResponse
// @Router       /shipments/{id} [patch]
func (h *PortalHandler) UpdateShipment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var patch domain.ShipmentPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	sh, err := h.service.UpdateShipment(c.Request().Context(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sh)
}

// Summary returns the dashboard counters.
//
// @Summary      Dashboard summary
// @Tags         reports
// @Produce      json
// @Success      200  {object}  domain.DashboardSummary
// @Router       /reports/summary [get]
func (h *PortalHandler) Summary(c echo.Context) error {
	s, err := h.service.Summary(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

// Chart returns jobs per day for the last N days (default 7).
//
// @Summary      Recent orders chart
// @Tags         reports
// @Produce      json
// @Param        days  query     int  false  "Window in days (1-90)"
// @Success      200   {array}   domain.ChartPoint
// @Router       /reports/chart [get]
func (h *PortalHandler) Chart(c echo.Context) error {
	days := 0
	if d := c.QueryParam("days"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n < 1 || n > maxChartDays {
			return echo.NewHTTPError(http.StatusBadRequest, "days must be between 1 and 90")
		}
		days = n
	}
	points, err := h.service.Chart(c.Request().Context(), days)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, points)
}

// Users lists accounts, optionally narrowed to one role.
//
// @Summary      List users
// @Tags         dashboard
// @Produce      json
// @Param        role  query     string  false  "ADMIN, MANAGER, DRIVER or CUSTOMER"
// @Success      200   {array}   domain.User
// @Failure      400   {object}  errorResponse
// @Router       /users [get]
func (h *PortalHandler) Users(c echo.Context) error {
	role := domain.Role(strings.ToUpper(c.QueryParam("role")))
	switch role {
	case "", domain.RoleAdmin, domain.RoleManager, domain.RoleDriver, domain.RoleCustomer:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown role")
	}
	users, err := h.service.Users(c.Request().Context(), role)
	if err != nil {
		return err
	}
	if users == nil {
		users = []domain.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// @Summary      List warehouses
// @Tags         inventory
// @Produce      json
// @Success      200  {array}  domain.Warehouse
// @Router       /warehouses [get]
func (h *PortalHandler) Warehouses(c echo.Context) error {
	list, err := h.service.Warehouses(c.Request().Context())
	if err != nil {
		return err
	}
	if list == nil {
		list = []domain.Warehouse{}
	}
	return c.JSON(http.StatusOK, list)
}

// @Summary      Add a warehouse
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body      domain.Warehouse  true  "Warehouse"
// @Success      201   {object}  domain.Warehouse
// @Failure      422   {object}  errorResponse
// @Router       /warehouses [post]
func (h *PortalHandler) CreateWarehouse(c echo.Context) error {
	var w domain.Warehouse
	if err := c.Bind(&w); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	w.ID = 0
	saved, err := h.service.SaveWarehouse(c.Request().Context(), w)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, saved)
}

// @Summary      Replace a warehouse
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id    path      int               true  "Warehouse ID"
// @Param        body  body      domain.Warehouse  true  "Warehouse"
// @Success      200   {object}  domain.Warehouse
// @Failure      422   {object}  errorResponse
// @Router       /warehouses/{id} [put]
func (h *PortalHandler) UpdateWarehouse(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var w domain.Warehouse
	if err := c.Bind(&w); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	w.ID = id
	saved, err := h.service.SaveWarehouse(c.Request().Context(), w)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, saved)
}

// @Summary      Delete a warehouse
// @Tags         inventory
// @Param        id  path  int  true  "Warehouse ID"
// @Success      204
// @Router       /warehouses/{id} [delete]
func (h *PortalHandler) DeleteWarehouse(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteWarehouse(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
