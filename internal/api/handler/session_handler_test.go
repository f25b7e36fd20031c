package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ItsCharrs/logipro/internal/core/domain"
)

type stubGoogle struct {
	exchangeFn func(ctx context.Context, code string) (domain.Credential, error)
}

func (g *stubGoogle) AuthCodeURL(state, nonce string) string {
	return "https://accounts.example/auth?state=" + state
}

func (g *stubGoogle) Exchange(ctx context.Context, code string) (domain.Credential, error) {
	return g.exchangeFn(ctx, code)
}

func authenticated(role domain.Role) domain.Snapshot {
	return domain.Snapshot{
		State:   domain.StateAuthenticated,
		User:    &domain.User{ID: 1, Username: "u", Role: role},
		Landing: domain.LandingRoute(role),
	}
}

func TestSessionHandler_Login_Success(t *testing.T) {
	stub := &stubSessionService{
		establishFn: func(ctx context.Context, cred domain.Credential) (domain.Snapshot, error) {
			if cred.Email != "a@b.co" || cred.Password != "pw" || cred.Federated() {
				t.Fatalf("unexpected credential: %+v", cred)
			}
			return authenticated(domain.RoleDriver), nil
		},
	}
	h := NewSessionHandler(stub, nil, false)

	c, rec := newContext(http.MethodPost, "/session/login", `{"email":"a@b.co","password":"pw"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if snap.Landing != "/driver/jobs" || snap.State != domain.StateAuthenticated {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestSessionHandler_Login_ReturnsIdentityError(t *testing.T) {
	want := domain.NewIdentityError(domain.CodeWrongPassword, nil)
	stub := &stubSessionService{
		establishFn: func(context.Context, domain.Credential) (domain.Snapshot, error) {
			return domain.Snapshot{State: domain.StateAnonymous}, want
		},
	}
	h := NewSessionHandler(stub, nil, false)

	c, _ := newContext(http.MethodPost, "/session/login", `{"email":"a@b.co","password":"x"}`)
	err := h.Login(c)
	var ie *domain.IdentityError
	if !errors.As(err, &ie) || ie.Code != domain.CodeWrongPassword {
		t.Fatalf("expected identity error, got %v", err)
	}
}

func TestSessionHandler_Exchange_RequiresToken(t *testing.T) {
	h := NewSessionHandler(&stubSessionService{}, nil, false)

	c, _ := newContext(http.MethodPost, "/session/exchange", `{"provider_id":"google.com"}`)
	err := h.Exchange(c)
	var ve domain.ValidationErrors
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if _, ok := ve["id_token"]; !ok {
		t.Fatalf("expected id_token field error, got %v", ve)
	}
}

func TestSessionHandler_Logout(t *testing.T) {
	stub := &stubSessionService{}
	h := NewSessionHandler(stub, nil, false)

	c, rec := newContext(http.MethodDelete, "/session", "")
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || stub.teardowns != 1 {
		t.Fatalf("expected 204 and one teardown, got %d / %d", rec.Code, stub.teardowns)
	}
}

func TestSessionHandler_GoogleNotConfigured(t *testing.T) {
	h := NewSessionHandler(&stubSessionService{}, nil, false)

	c, _ := newContext(http.MethodGet, "/session/google", "")
	err := h.GoogleStart(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestSessionHandler_GoogleRoundTrip(t *testing.T) {
	stub := &stubSessionService{
		establishFn: func(ctx context.Context, cred domain.Credential) (domain.Snapshot, error) {
			if cred.IDToken != "google-id" {
				t.Fatalf("unexpected credential: %+v", cred)
			}
			return authenticated(domain.RoleCustomer), nil
		},
	}
	google := &stubGoogle{exchangeFn: func(ctx context.Context, code string) (domain.Credential, error) {
		if code != "the-code" {
			t.Fatalf("unexpected code %q", code)
		}
		return domain.Credential{ProviderID: "google.com", IDToken: "google-id"}, nil
	}}
	h := NewSessionHandler(stub, google, false)

	c, rec := newContext(http.MethodGet, "/session/google", "")
	if err := h.GoogleStart(c); err != nil {
		t.Fatalf("start error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != stateCookie {
		t.Fatalf("expected state cookie, got %+v", cookies)
	}
	state := cookies[0].Value
	if !strings.Contains(rec.Header().Get("Location"), state) {
		t.Fatalf("redirect does not carry state: %s", rec.Header().Get("Location"))
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/session/google/callback?code=the-code&state="+state, nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	if err := h.GoogleCallback(e.NewContext(req, rec)); err != nil {
		t.Fatalf("callback error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSessionHandler_GoogleCallbackRejectsBadState(t *testing.T) {
	h := NewSessionHandler(&stubSessionService{}, &stubGoogle{}, false)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/session/google/callback?code=c&state=forged", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "real"})
	err := h.GoogleCallback(e.NewContext(req, httptest.NewRecorder()))

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestSessionHandler_GoogleCancelledIsSilent(t *testing.T) {
	h := NewSessionHandler(&stubSessionService{}, &stubGoogle{}, false)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/session/google/callback?error=access_denied&state=s", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "s"})
	err := h.GoogleCallback(e.NewContext(req, httptest.NewRecorder()))

	var ie *domain.IdentityError
	if !errors.As(err, &ie) || !ie.Silent() {
		t.Fatalf("expected silent identity error, got %v", err)
	}
}

func TestSessionHandler_Register(t *testing.T) {
	stub := &stubSessionService{
		registerFn: func(ctx context.Context, reg domain.Registration) (domain.Snapshot, error) {
			if reg.Email != "ada@example.com" || reg.ConfirmPassword != "secret1" || reg.FirstName != "Ada" {
				t.Fatalf("unexpected form: %+v", reg)
			}
			return authenticated(domain.RoleCustomer), nil
		},
	}
	h := NewSessionHandler(stub, nil, false)

	body := `{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","password":"secret1","confirm_password":"secret1"}`
	c, rec := newContext(http.MethodPost, "/session/register", body)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestSessionHandler_Register_Errors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		is   func(error) bool
	}{
		{"form", domain.ValidationErrors{"confirm_password": "Passwords do not match"}, func(err error) bool {
			var ve domain.ValidationErrors
			return errors.As(err, &ve) && ve["confirm_password"] != ""
		}},
		{"email in use", domain.NewSignUpError(domain.CodeEmailInUse, nil), func(err error) bool {
			var ie *domain.IdentityError
			return errors.As(err, &ie) && ie.Code == domain.CodeEmailInUse
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubSessionService{
				registerFn: func(context.Context, domain.Registration) (domain.Snapshot, error) {
					return domain.Snapshot{State: domain.StateAnonymous}, tc.err
				},
			}
			h := NewSessionHandler(stub, nil, false)

			c, _ := newContext(http.MethodPost, "/session/register", `{"email":"a@b.co"}`)
			if err := h.Register(c); !tc.is(err) {
				t.Fatalf("unexpected error %v", err)
			}
		})
	}
}
