package oidc

import (
	"context"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/mtbell/tasklight/internal/models"
)

// Verifier verifies bearer tokens against the provider's signing keys and
// pins the issuer and audience from the configuration.
type Verifier struct {
	jwks   *JWKSCache
	config Config
}

// NewVerifier creates a JWT verifier for the configured provider.
func NewVerifier(config Config, jwks *JWKSCache) *Verifier {
	return &Verifier{jwks: jwks, config: config}
}

// Verify checks the token's signature, validity window, issuer, and
// audience, and extracts the claims the application cares about.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*models.JWTClaims, error) {
	keys, err := v.jwks.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get JWKS: %w", err)
	}

	token, err := jwt.Parse([]byte(tokenString),
		jwt.WithKeySet(keys),
		jwt.WithValidate(true),
		jwt.WithIssuer(v.config.Issuer),
		jwt.WithAudience(v.config.ClientID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse/verify token: %w", err)
	}

	claims := &models.JWTClaims{
		Sub: token.Subject(),
		Iss: token.Issuer(),
		Exp: token.Expiration().Unix(),
		Iat: token.IssuedAt().Unix(),
	}
	if claims.Sub == "" {
		return nil, fmt.Errorf("token missing subject claim")
	}

	if aud := token.Audience(); len(aud) > 0 {
		claims.Aud = aud[0]
	}
	if email, ok := token.Get("email"); ok {
		if emailStr, ok := email.(string); ok {
			claims.Email = emailStr
		}
	}
	if name, ok := token.Get("name"); ok {
		if nameStr, ok := name.(string); ok {
			claims.Name = nameStr
		}
	}

	return claims, nil
}
