package ports

import (
	"context"

	"github.com/ItsCharrs/logipro/internal/core/domain"
)

// IdentityProvider turns a credential into a short-lived identity token.
// Rejections are returned as *domain.IdentityError.
type IdentityProvider interface {
	SignIn(ctx context.Context, cred domain.Credential) (string, error)
	SignOut(ctx context.Context) error
}

// Registrar creates accounts and returns the new user's identity token.
// Rejections are returned as *domain.IdentityError.
type Registrar interface {
	SignUp(ctx context.Context, reg domain.Registration) (string, error)
}

// TokenVerifier checks an identity token's signature, issuer, audience and
// expiry.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*domain.IdentityClaims, error)
}
