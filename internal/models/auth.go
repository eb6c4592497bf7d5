package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is the access token payload minted by the identity provider.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
	jwt.RegisteredClaims
}
