package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims are the claims plaza reads from a verified access token.
type TokenClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
	// User metadata set by the identity provider at signup
	UserMetadata struct {
		DisplayName string `json:"display_name"`
	} `json:"user_metadata"`
}

// Actor converts verified claims into the domain actor.
func (c *TokenClaims) Actor() Actor {
	return Actor{
		ID:          c.Subject,
		DisplayName: c.UserMetadata.DisplayName,
	}
}
