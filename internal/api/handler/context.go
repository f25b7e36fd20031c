package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ItsCharrs/logipro/internal/api/middleware"
	"github.com/ItsCharrs/logipro/internal/core/domain"
)

// ctxUser returns the user injected by RequireSession. Its absence means the
// route was mounted without the middleware.
func ctxUser(c echo.Context) (*domain.User, error) {
	u, _ := c.Get(middleware.CtxUser).(*domain.User)
	if u == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session user")
	}
	return u, nil
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// listQuery reads the cursor and filter query parameters shared by the list
// endpoints.
func listQuery(c echo.Context) (string, domain.ListFilter, error) {
	f := domain.ListFilter{
		Search: c.QueryParam("search"),
		Status: c.QueryParam("status"),
		Page:   1,
	}
	if p := c.QueryParam("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return "", f, echo.NewHTTPError(http.StatusBadRequest, "page must be a positive integer")
		}
		f.Page = n
	}
	return c.QueryParam("cursor"), f, nil
}
