package auth

import (
	"time"
)

// AccessClaims represents the claims stored in a PASETO access token.
// v4.local tokens are encrypted, so nothing here is readable without
// the server key.
type AccessClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`

	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}
