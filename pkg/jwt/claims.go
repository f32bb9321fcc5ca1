package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims for an API client token
type Claims struct {
	ClientID string `json:"client_id"`
	Scope    string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}
