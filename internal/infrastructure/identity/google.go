package identity

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/ItsCharrs/logipro/internal/core/domain"
)

// googleEndpoint is Google's OAuth2 endpoint. Spelled out to avoid pulling
// in the metadata client that golang.org/x/oauth2/google brings along.
var googleEndpoint = oauth2.Endpoint{
	AuthURL:   "https://accounts.google.com/o/oauth2/v2/auth",
	TokenURL:  "https://oauth2.googleapis.com/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Endpoint overrides googleEndpoint in tests.
	Endpoint *oauth2.Endpoint
}

// GoogleFlow runs the authorization-code flow that stands in for the
// browser popup and yields a Google ID token for signInWithIdp.
type GoogleFlow struct {
	cfg *oauth2.Config
}

func NewGoogleFlow(cfg GoogleConfig) (*GoogleFlow, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, errors.New("google sign-in: client id, secret and redirect url are required")
	}
	ep := googleEndpoint
	if cfg.Endpoint != nil {
		ep = *cfg.Endpoint
	}
	return &GoogleFlow{cfg: &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     ep,
	}}, nil
}

// AuthCodeURL returns the consent page URL for state.
func (g *GoogleFlow) AuthCodeURL(state, nonce string) string {
	return g.cfg.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

// Exchange trades an authorization code for a credential carrying Google's
// ID token.
func (g *GoogleFlow) Exchange(ctx context.Context, code string) (domain.Credential, error) {
	if code == "" {
		return domain.Credential{}, domain.NewIdentityError(domain.CodePopupClosed, nil)
	}
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return domain.Credential{}, domain.NewIdentityError(domain.CodeInvalidIDToken, fmt.Errorf("exchange code: %w", err))
	}
	raw, _ := tok.Extra("id_token").(string)
	if raw == "" {
		return domain.Credential{}, domain.NewIdentityError(domain.CodeInvalidIDToken, errors.New("token response has no id_token"))
	}
	return domain.Credential{ProviderID: GoogleProvider, IDToken: raw}, nil
}
