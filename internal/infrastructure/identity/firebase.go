// Package identity adapts the Firebase Identity Toolkit and Google sign-in to
// the IdentityProvider and TokenVerifier ports.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ItsCharrs/logipro/internal/core/domain"
)

const (
	DefaultEndpoint = "https://identitytoolkit.googleapis.com/v1"
	GoogleProvider  = "google.com"

	codeMissingPassword = "auth/missing-password"
	codeInternal        = "auth/internal-error"
)

// restCodes maps Identity Toolkit REST error messages onto the client SDK
// codes the rest of the app understands.
var restCodes = map[string]string{
	"EMAIL_NOT_FOUND":             domain.CodeUserNotFound,
	"INVALID_PASSWORD":            domain.CodeWrongPassword,
	"USER_DISABLED":               domain.CodeUserDisabled,
	"TOO_MANY_ATTEMPTS_TRY_LATER": domain.CodeTooManyRequests,
	"INVALID_EMAIL":               domain.CodeInvalidEmail,
	"INVALID_LOGIN_CREDENTIALS":   domain.CodeInvalidCredential,
	"INVALID_IDP_RESPONSE":        domain.CodeInvalidIDToken,
	"INVALID_ID_TOKEN":            domain.CodeInvalidIDToken,
	"MISSING_PASSWORD":            codeMissingPassword,
	"EMAIL_EXISTS":                domain.CodeEmailInUse,
	"WEAK_PASSWORD":               domain.CodeWeakPassword,
	"OPERATION_NOT_ALLOWED":       domain.CodeOperationNotAllowed,
}

type FirebaseConfig struct {
	APIKey     string
	Endpoint   string
	RequestURI string // continue URI sent with federated sign-ins
	HTTPClient *http.Client
}

// Firebase signs users in against the Identity Toolkit REST API. It holds
// the signed-in user's tokens until SignOut.
type Firebase struct {
	cfg  FirebaseConfig
	http *http.Client
	log  zerolog.Logger

	mu      sync.Mutex
	idToken string
	refresh string
	uid     string
}

func NewFirebase(cfg FirebaseConfig, log zerolog.Logger) *Firebase {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.RequestURI == "" {
		cfg.RequestURI = "http://localhost"
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Firebase{
		cfg:  cfg,
		http: hc,
		log:  log.With().Str("component", "firebase").Logger(),
	}
}

type signInResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
}

type restError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn returns a fresh identity token for cred. Password credentials use
// signInWithPassword; credentials carrying a provider ID token use
// signInWithIdp.
func (f *Firebase) SignIn(ctx context.Context, cred domain.Credential) (string, error) {
	var (
		method string
		body   map[string]any
	)
	switch {
	case cred.Federated():
		provider := cred.ProviderID
		if provider == "" {
			provider = GoogleProvider
		}
		method = "accounts:signInWithIdp"
		body = map[string]any{
			"postBody":            url.Values{"id_token": {cred.IDToken}, "providerId": {provider}}.Encode(),
			"requestUri":          f.cfg.RequestURI,
			"returnSecureToken":   true,
			"returnIdpCredential": true,
		}
	case strings.TrimSpace(cred.Email) == "":
		return "", domain.NewIdentityError(domain.CodeInvalidEmail, nil)
	case cred.Password == "":
		return "", domain.NewIdentityError(codeMissingPassword, nil)
	default:
		method = "accounts:signInWithPassword"
		body = map[string]any{
			"email":             strings.TrimSpace(cred.Email),
			"password":          cred.Password,
			"returnSecureToken": true,
		}
	}

	var out signInResponse
	if err := f.call(ctx, method, body, &out, domain.NewIdentityError); err != nil {
		return "", err
	}
	f.remember(out)

	f.log.Debug().Str("uid", out.LocalID).Str("method", method).Msg("identity provider sign-in")
	return out.IDToken, nil
}

// SignUp creates an email and password account, with the display name set,
// and signs it in.
func (f *Firebase) SignUp(ctx context.Context, reg domain.Registration) (string, error) {
	email := strings.TrimSpace(reg.Email)
	if email == "" {
		return "", domain.NewSignUpError(domain.CodeInvalidEmail, nil)
	}
	body := map[string]any{
		"email":             email,
		"password":          reg.Password,
		"returnSecureToken": true,
	}
	if name := reg.DisplayName(); name != "" {
		body["displayName"] = name
	}

	var out signInResponse
	if err := f.call(ctx, "accounts:signUp", body, &out, domain.NewSignUpError); err != nil {
		return "", err
	}
	f.remember(out)

	f.log.Info().Str("uid", out.LocalID).Msg("identity provider account created")
	return out.IDToken, nil
}

func (f *Firebase) remember(out signInResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.idToken, f.refresh, f.uid = out.IDToken, out.RefreshToken, out.LocalID
}

// SignOut forgets the signed-in user. Tokens are not revoked server-side.
func (f *Firebase) SignOut(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.idToken, f.refresh, f.uid = "", "", ""
	return nil
}

// SignedIn reports whether a user is currently signed in.
func (f *Firebase) SignedIn() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.idToken != ""
}

type errorClass func(code string, cause error) *domain.IdentityError

func (f *Firebase) call(ctx context.Context, method string, in, out any, class errorClass) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("firebase %s: %w", method, err)
	}

	endpoint := fmt.Sprintf("%s/%s?key=%s", strings.TrimRight(f.cfg.Endpoint, "/"), method, url.QueryEscape(f.cfg.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("firebase %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		return fmt.Errorf("firebase %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return classify(resp, class)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("firebase %s: decode: %w", method, err)
	}
	return nil
}

// classify turns a REST error body into an IdentityError. Messages may carry
// a detail suffix, as in "TOO_MANY_ATTEMPTS_TRY_LATER : Access disabled".
func classify(resp *http.Response, class errorClass) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 16<<10))
	var re restError
	if err := json.Unmarshal(raw, &re); err != nil || re.Error.Message == "" {
		return class(codeInternal, fmt.Errorf("firebase: status %d", resp.StatusCode))
	}

	reason := strings.TrimSpace(strings.SplitN(re.Error.Message, ":", 2)[0])
	code, ok := restCodes[reason]
	if !ok {
		code = "auth/" + strings.ReplaceAll(strings.ToLower(reason), "_", "-")
	}
	return class(code, fmt.Errorf("firebase: %s", re.Error.Message))
}
