package identity

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/ItsCharrs/logipro/internal/core/domain"
)

const (
	firebaseIssuerPrefix = "https://securetoken.google.com/"
	firebaseJWKS         = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
)

// Verifier checks identity tokens with go-oidc: RS256 signature, issuer,
// audience and expiry.
type Verifier struct {
	v *oidc.IDTokenVerifier
}

// NewFirebaseVerifier verifies Firebase ID tokens for projectID against
// Google's published keys.
func NewFirebaseVerifier(ctx context.Context, projectID string, hc *http.Client) *Verifier {
	if hc != nil {
		ctx = oidc.ClientContext(ctx, hc)
	}
	keys := oidc.NewRemoteKeySet(ctx, firebaseJWKS)
	return NewVerifier(firebaseIssuerPrefix+projectID, keys, projectID, nil)
}

// NewVerifier builds a Verifier over an arbitrary key set. now may be nil.
func NewVerifier(issuer string, keys oidc.KeySet, audience string, now func() time.Time) *Verifier {
	return &Verifier{v: oidc.NewVerifier(issuer, keys, &oidc.Config{
		ClientID: audience,
		Now:      now,
	})}
}

type idClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

func (v *Verifier) Verify(ctx context.Context, rawToken string) (*domain.IdentityClaims, error) {
	tok, err := v.v.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("verify identity token: %w", err)
	}
	var c idClaims
	if err := tok.Claims(&c); err != nil {
		return nil, fmt.Errorf("decode identity claims: %w", err)
	}
	return &domain.IdentityClaims{
		Subject:       tok.Subject,
		Email:         c.Email,
		EmailVerified: c.EmailVerified,
		Expiry:        tok.Expiry.Unix(),
	}, nil
}
