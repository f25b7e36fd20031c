package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ItsCharrs/logipro/internal/core/domain"
)

func render(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec.Code, body
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), 400, "invalid payload"},
		{"identity", domain.NewIdentityError(domain.CodeWrongPassword, nil), 401, "Incorrect password"},
		{"exchange", fmt.Errorf("%w: %w", domain.ErrExchangeFailed, errors.New("boom")), 401, domain.ExchangeFailedMessage},
		{"busy", domain.ErrSessionBusy, 409, "sign-in already in progress"},
		{"not authenticated", domain.ErrNotAuthenticated, 401, "not authenticated"},
		{"transition", fmt.Errorf("job 4: %w", domain.ErrInvalidTransition), 422, "job 4: invalid status transition"},
		{"no page", domain.ErrNoPage, 404, "no such page"},
		{"foreign cursor", fmt.Errorf("get: %w", domain.ErrForeignURL), 400, "invalid cursor"},
		{"backend 4xx", &domain.BackendError{Status: 404, Message: "Not found."}, 404, "Not found."},
		{"backend 5xx", &domain.BackendError{Status: 500, Message: "Request failed with status 500"}, 502, "Request failed with status 500"},
		{"backend 3xx", &domain.BackendError{Status: 304, Message: "Request failed with status 304"}, 502, "Request failed with status 304"},
		{"unknown", errors.New("kaboom"), 500, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := render(t, tc.err)
			if code != tc.code || body.Error != tc.msg {
				t.Fatalf("got %d %q, want %d %q", code, body.Error, tc.code, tc.msg)
			}
		})
	}
}

func TestErrorHandler_SilentIdentityError(t *testing.T) {
	code, body := render(t, domain.NewIdentityError(domain.CodePopupClosed, nil))
	if code != http.StatusUnauthorized || body.Error != "" || body.Code != domain.CodePopupClosed {
		t.Fatalf("unexpected response: %d %+v", code, body)
	}
}

func TestErrorHandler_ValidationFields(t *testing.T) {
	code, body := render(t, domain.ValidationErrors{
		"pickup_city":    "City required.",
		"pickup_address": "Pickup address is required.",
	})
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
	if len(body.Fields) != 2 || body.Fields["pickup_city"] != "City required." {
		t.Fatalf("unexpected fields: %+v", body.Fields)
	}
}
