package models

import "github.com/golang-jwt/jwt/v5"

// AuthClaims is the JWT claims structure issued by the external identity
// provider. Only the subject and a few cached profile fields are
// consumed; permission resolution happens against user_permissions.
type AuthClaims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	Username string `json:"preferred_username"`
	Role     string `json:"role"` // provider-level role, e.g. "authenticated"
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *AuthClaims) GetUserID() string {
	return c.Subject
}
