package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ItsCharrs/logipro/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Code is
// set for identity provider rejections; Fields for per-field validation.
type errorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain, identity and backend errors to HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// The popup-closed message is empty on purpose; clients show nothing.
	var ie *domain.IdentityError
	if errors.As(err, &ie) {
		return http.StatusUnauthorized, errorResponse{Error: ie.Message, Code: ie.Code}
	}

	var ve domain.ValidationErrors
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, errorResponse{Error: ve.Error(), Fields: ve}
	}

	switch {
	case errors.Is(err, domain.ErrExchangeFailed):
		return http.StatusUnauthorized, errorResponse{Error: domain.ExchangeFailedMessage}
	case errors.Is(err, domain.ErrSessionBusy):
		return http.StatusConflict, errorResponse{Error: "sign-in already in progress"}
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, errorResponse{Error: "not authenticated"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrUnknownService), errors.Is(err, domain.ErrInvalidTheme):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrNoPage):
		return http.StatusNotFound, errorResponse{Error: "no such page"}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: "not found"}
	case errors.Is(err, domain.ErrForeignURL):
		return http.StatusBadRequest, errorResponse{Error: "invalid cursor"}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, errorResponse{Error: "backend timed out"}
	}

	// Client errors from the backend pass through; its own failures are a
	// bad gateway from our side.
	var ae *domain.BackendError
	if errors.As(err, &ae) {
		status := ae.Status
		if status < http.StatusBadRequest || status >= http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		return status, errorResponse{Error: ae.Message, Fields: ae.Fields}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
