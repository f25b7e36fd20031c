package domain

import (
	"fmt"
	"strings"
)

// Identity provider error codes, as reported by the provider.
const (
	CodeInvalidEmail       = "auth/invalid-email"
	CodeUserDisabled       = "auth/user-disabled"
	CodeUserNotFound       = "auth/user-not-found"
	CodeWrongPassword      = "auth/wrong-password"
	CodeTooManyRequests    = "auth/too-many-requests"
	CodeInvalidCredential  = "auth/invalid-credential"
	CodePopupClosed        = "auth/popup-closed-by-user"
	CodePopupBlocked       = "auth/popup-blocked"
	CodeUnauthorizedDomain = "auth/unauthorized-domain"
	CodeInvalidIDToken     = "auth/invalid-id-token"
	CodeNetworkFailed      = "auth/network-request-failed"

	CodeEmailInUse          = "auth/email-already-in-use"
	CodeWeakPassword        = "auth/weak-password"
	CodeOperationNotAllowed = "auth/operation-not-allowed"
)

// ExchangeFailedMessage is shown when the backend refuses the identity token.
const ExchangeFailedMessage = "Login failed. Please try again."

const (
	defaultSignInMessage = "Failed to sign in. Please try again"
	defaultGoogleMessage = "Failed to sign in with Google. Please try again"
	defaultSignUpMessage = "Failed to create account. Please try again"
)

var identityMessages = map[string]string{
	CodeInvalidEmail:       "Invalid email address",
	CodeUserDisabled:       "This account has been disabled",
	CodeUserNotFound:       "No account found with this email",
	CodeWrongPassword:      "Incorrect password",
	CodeTooManyRequests:    "Too many failed attempts. Please try again later",
	CodeInvalidCredential:  "Invalid email or password.",
	CodePopupClosed:        "",
	CodePopupBlocked:       "Popup was blocked by your browser. Please allow popups for this site",
	CodeUnauthorizedDomain: "This domain is not authorized for Google sign-in",
	CodeInvalidIDToken:     defaultGoogleMessage,

	CodeEmailInUse:          "An account with this email already exists",
	CodeWeakPassword:        "Password is too weak",
	CodeOperationNotAllowed: "Email/password accounts are not enabled",
}

// IdentityError is a classified rejection from the identity provider.
type IdentityError struct {
	Code    string
	Message string
	Err     error
}

// NewIdentityError classifies code into the fixed user-facing message set.
// Unknown codes get the generic sign-in message.
func NewIdentityError(code string, cause error) *IdentityError {
	msg, ok := identityMessages[code]
	if !ok {
		msg = defaultSignInMessage
	}
	return &IdentityError{Code: code, Message: msg, Err: cause}
}

// NewSignUpError is NewIdentityError for account creation, whose fallback
// message differs.
func NewSignUpError(code string, cause error) *IdentityError {
	if _, ok := identityMessages[code]; !ok {
		return &IdentityError{Code: code, Message: defaultSignUpMessage, Err: cause}
	}
	return NewIdentityError(code, cause)
}

func (e *IdentityError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *IdentityError) Unwrap() error { return e.Err }

// Silent reports whether the error should not be shown to the user at all,
// as when they dismiss the federated sign-in window themselves.
func (e *IdentityError) Silent() bool {
	return e.Code == CodePopupClosed
}

// IdentityMessage returns the user-facing message for code.
func IdentityMessage(code string) string {
	return NewIdentityError(code, nil).Message
}

// Credential is what a user hands over to prove who they are. Exactly one of
// the password pair or IDToken is used.
type Credential struct {
	Email      string `json:"email,omitempty"`
	Password   string `json:"password,omitempty"`
	ProviderID string `json:"provider_id,omitempty"`
	IDToken    string `json:"id_token,omitempty"`
}

// Federated reports whether the credential carries a third-party ID token.
func (c Credential) Federated() bool {
	return c.IDToken != ""
}

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// Registration is the sign-up form of the customer portal.
type Registration struct {
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=Password"`
}

// DisplayName is the name stored with the new account.
func (r Registration) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
}

// IdentityClaims are the verified claims of an identity token.
type IdentityClaims struct {
	Subject       string
	Email         string
	EmailVerified bool
	Expiry        int64
}
