package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenDetails is what we can read out of a bearer token that happens to
// be a JWT. Display only: the client never trusts these claims, the
// backend is the verifier.
type TokenDetails struct {
	Subject   string
	Email     string
	Issuer    string
	ExpiresAt time.Time
}

// InspectToken parses a JWT without verifying its signature. Opaque
// (non-JWT) tokens return (nil, false).
func InspectToken(token string) (*TokenDetails, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, false
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}

	d := &TokenDetails{}
	if sub, err := claims.GetSubject(); err == nil {
		d.Subject = sub
	}
	if iss, err := claims.GetIssuer(); err == nil {
		d.Issuer = iss
	}
	if email, ok := claims["email"].(string); ok {
		d.Email = email
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		d.ExpiresAt = exp.Time
	}

	return d, true
}
