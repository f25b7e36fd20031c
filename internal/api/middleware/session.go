package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ItsCharrs/logipro/internal/core/domain"
)

// Context keys set by RequireSession.
const (
	CtxUser = "user"
	CtxRole = "role"
)

// SessionReader is the read side of the session manager.
type SessionReader interface {
	Current() domain.Snapshot
}

// RequireSession rejects requests while the app instance has no
// authenticated session and injects the signed-in user into the context.
func RequireSession(session SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			snap := session.Current()
			if snap.State != domain.StateAuthenticated || snap.User == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}

			c.Set(CtxUser, snap.User)
			c.Set(CtxRole, snap.User.Role)

			return next(c)
		}
	}
}
