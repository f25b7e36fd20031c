package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ItsCharrs/logipro/internal/api/metrics"
	"github.com/ItsCharrs/logipro/internal/core/domain"
	"github.com/ItsCharrs/logipro/internal/core/ports"
)

const (
	stateCookie = "logipro_oauth_state"
	stateMaxAge = 10 * time.Minute
)

// GoogleSignIn is the federated code flow. Nil when Google sign-in is not
// configured.
type GoogleSignIn interface {
	AuthCodeURL(state, nonce string) string
	Exchange(ctx context.Context, code string) (domain.Credential, error)
}

// SessionHandler exposes the app instance's session.
type SessionHandler struct {
	session ports.SessionService
	google  GoogleSignIn
	secure  bool
}

func NewSessionHandler(session ports.SessionService, google GoogleSignIn, secureCookies bool) *SessionHandler {
	return &SessionHandler{session: session, google: google, secure: secureCookies}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type exchangeRequest struct {
	ProviderID string `json:"provider_id"`
	IDToken    string `json:"id_token" validate:"required"`
}

// Login signs in with email and password.
//
// @Summary      Sign in with email and password
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  domain.Snapshot
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /session/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return h.establish(c, domain.Credential{Email: req.Email, Password: req.Password})
}

// Exchange signs in with an ID token already issued by a federated provider.
//
// @Summary      Sign in with a federated ID token
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      exchangeRequest  true  "Provider token"
// @Success      200   {object}  domain.Snapshot
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /session/exchange [post]
func (h *SessionHandler) Exchange(c echo.Context) error {
	var req exchangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	return h.establish(c, domain.Credential{ProviderID: req.ProviderID, IDToken: req.IDToken})
}

// Register creates an account and signs it in.
//
// @Summary      Create an account
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      domain.Registration  true  "Sign-up form"
// @Success      201   {object}  domain.Snapshot
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /session/register [post]
func (h *SessionHandler) Register(c echo.Context) error {
	var reg domain.Registration
	if err := c.Bind(&reg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	snap, err := h.session.Register(c.Request().Context(), reg)
	if err != nil {
		var ve domain.ValidationErrors
		if errors.As(err, &ve) {
			return err
		}
		return h.signInFailed(err)
	}
	return c.JSON(http.StatusCreated, snap)
}

// Current returns the session snapshot.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  domain.Snapshot
// @Router       /session [get]
func (h *SessionHandler) Current(c echo.Context) error {
	return c.JSON(http.StatusOK, h.session.Current())
}

// Logout ends the session. Always succeeds.
//
// @Summary      Sign out
// @Tags         session
// @Success      204
// @Router       /session [delete]
func (h *SessionHandler) Logout(c echo.Context) error {
	h.session.Teardown(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

// GoogleStart redirects to Google's consent page.
//
// @Summary      Begin Google sign-in
// @Tags         session
// @Success      302
// @Failure      404  {object}  errorResponse
// @Router       /session/google [get]
func (h *SessionHandler) GoogleStart(c echo.Context) error {
	if h.google == nil {
		return echo.NewHTTPError(http.StatusNotFound, "google sign-in is not configured")
	}
	state := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/session/google",
		MaxAge:   int(stateMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusFound, h.google.AuthCodeURL(state, uuid.NewString()))
}

// GoogleCallback completes Google sign-in.
//
// @Summary      Complete Google sign-in
// @Tags         session
// @Produce      json
// @Param        code   query     string  true  "Authorization code"
// @Param        state  query     string  true  "State issued by /session/google"
// @Success      200    {object}  domain.Snapshot
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Router       /session/google/callback [get]
func (h *SessionHandler) GoogleCallback(c echo.Context) error {
	if h.google == nil {
		return echo.NewHTTPError(http.StatusNotFound, "google sign-in is not configured")
	}

	cookie, err := c.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != c.QueryParam("state") {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid oauth state")
	}
	c.SetCookie(&http.Cookie{Name: stateCookie, Path: "/session/google", MaxAge: -1})

	switch c.QueryParam("error") {
	case "":
	case "access_denied":
		return h.signInFailed(domain.NewIdentityError(domain.CodePopupClosed, nil))
	default:
		return h.signInFailed(domain.NewIdentityError(domain.CodeUnauthorizedDomain, errors.New(c.QueryParam("error"))))
	}

	cred, err := h.google.Exchange(c.Request().Context(), c.QueryParam("code"))
	if err != nil {
		return h.signInFailed(err)
	}
	return h.establish(c, cred)
}

func (h *SessionHandler) establish(c echo.Context, cred domain.Credential) error {
	snap, err := h.session.Establish(c.Request().Context(), cred)
	if err != nil {
		return h.signInFailed(err)
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *SessionHandler) signInFailed(err error) error {
	code := "error"
	var ie *domain.IdentityError
	switch {
	case errors.As(err, &ie):
		code = ie.Code
	case errors.Is(err, domain.ErrExchangeFailed):
		code = "exchange_failed"
	case errors.Is(err, domain.ErrSessionBusy):
		code = "busy"
	}
	metrics.SessionSignInErrorsTotal.WithLabelValues(code).Inc()
	return err
}
