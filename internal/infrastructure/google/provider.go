package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/chatterbox/auth-api/internal/config"
	"github.com/chatterbox/auth-api/internal/domain"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// Identity holds the verified claims extracted from a Google ID token after
// the redirect handshake. EmailVerified mirrors Google's own claim; the
// account service treats a verified email as proof of ownership.
type Identity struct {
	Sub           string
	Email         string
	EmailVerified bool
	FullName      string
	PictureURL    string
}

// Provider drives the Google OAuth authorization-code flow and validates
// the resulting ID token against the configured client ID.
type Provider struct {
	oauth *oauth2.Config
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		return nil, errors.New("google client credentials not configured")
	}
	return &Provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     googleoauth.Endpoint,
		},
	}, nil
}

// AuthCodeURL returns the consent-screen URL carrying the CSRF state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// Exchange swaps the authorization code for tokens and returns the verified
// identity. Returns a domain.ErrUnauthenticated-wrapped error when the code
// or the ID token does not check out.
func (p *Provider) Exchange(ctx context.Context, code string) (*Identity, error) {
	tok, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", domain.ErrUnauthenticated)
	}
	rawID, _ := tok.Extra("id_token").(string)
	if rawID == "" {
		return nil, fmt.Errorf("no id_token in token response: %w", domain.ErrUnauthenticated)
	}
	payload, err := idtoken.Validate(ctx, rawID, p.oauth.ClientID)
	if err != nil {
		return nil, fmt.Errorf("invalid google token: %w", domain.ErrUnauthenticated)
	}
	email, _ := payload.Claims["email"].(string)
	emailVerified, _ := payload.Claims["email_verified"].(bool)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	return &Identity{
		Sub:           payload.Subject,
		Email:         email,
		EmailVerified: emailVerified,
		FullName:      name,
		PictureURL:    picture,
	}, nil
}
