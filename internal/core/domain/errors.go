package domain

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrSessionBusy       = errors.New("session: another sign-in is in progress")
	ErrExchangeFailed    = errors.New("session exchange failed")
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrForbidden         = errors.New("access forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownService    = errors.New("unknown service type")
	ErrNoPage            = errors.New("no such page")
	ErrNotFound          = errors.New("not found")
	ErrInvalidToken      = errors.New("identity token rejected")
	ErrInvalidTheme      = errors.New("theme must be light or dark")

	// ErrForeignURL is returned for absolute URLs that do not point at the
	// configured backend; the session token is never sent elsewhere.
	ErrForeignURL = errors.New("backend: url is not on the configured host")
)

// CodeTokenNotValid is the backend's code for a rejected access token.
const CodeTokenNotValid = "token_not_valid"

// BackendError is a non-2xx reply from the backend.
type BackendError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
}

func (e *BackendError) Error() string {
	return e.Message
}

// Unauthorized reports whether the backend refused the credentials.
func (e *BackendError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// TokenNotValid reports whether the backend rejected the access token itself.
func (e *BackendError) TokenNotValid() bool {
	return e.Status == http.StatusUnauthorized && e.Code == CodeTokenNotValid
}

// ValidationErrors maps a json field name to its message. It is returned
// before any network call is made.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, v[k])
	}
	return strings.Join(msgs, "; ")
}
