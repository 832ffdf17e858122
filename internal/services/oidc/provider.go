package oidc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Config describes the external identity provider. The application trusts
// the provider completely for "who is this request's user".
type Config struct {
	Issuer      string
	ClientID    string
	JWKSURL     string
	RedirectURL string
}

// Normalize fills derivable fields: a missing JWKS URL defaults to the
// issuer's conventional location.
func (c *Config) Normalize() {
	c.Issuer = strings.TrimRight(c.Issuer, "/")
	if c.JWKSURL == "" && c.Issuer != "" {
		c.JWKSURL = c.Issuer + "/.well-known/jwks.json"
	}
}

// Validate reports whether the config is complete enough to verify tokens.
func (c *Config) Validate() error {
	if c.Issuer == "" {
		return fmt.Errorf("OIDC issuer is required")
	}
	if c.ClientID == "" {
		return fmt.Errorf("OIDC client id is required")
	}
	return nil
}

// AuthorizationEndpoint resolves the provider's authorization endpoint from
// the OIDC discovery document, falling back to the conventional path under
// the issuer when discovery is unavailable.
func (c *Config) AuthorizationEndpoint(ctx context.Context) string {
	discoveryURL := c.Issuer + "/.well-known/openid-configuration"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discoveryURL, nil)
	if err == nil {
		client := &http.Client{Timeout: 5 * time.Second}
		resp, err := client.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			defer func() {
				if closeErr := resp.Body.Close(); closeErr != nil {
					_ = closeErr
				}
			}()
			var discovery struct {
				AuthorizationEndpoint string `json:"authorization_endpoint"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&discovery); err == nil && discovery.AuthorizationEndpoint != "" {
				return discovery.AuthorizationEndpoint
			}
		}
	}

	return c.Issuer + "/oauth2/authorize"
}
