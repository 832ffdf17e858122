package oidc

import (
	"context"

	"golang.org/x/oauth2"
)

// Client builds the OAuth2 artifacts the frontend needs to start a login.
type Client struct {
	config *oauth2.Config
}

// NewClient creates an OAuth2 client for the configured provider.
func NewClient(ctx context.Context, cfg Config) *Client {
	return &Client{
		config: &oauth2.Config{
			ClientID:    cfg.ClientID,
			RedirectURL: cfg.RedirectURL,
			Scopes:      []string{"openid", "email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthorizationEndpoint(ctx),
				TokenURL: cfg.Issuer + "/oauth2/token",
			},
		},
	}
}

// LoginURL returns the authorization URL the frontend should redirect to.
func (c *Client) LoginURL(state string) string {
	return c.config.AuthCodeURL(state)
}
