package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims are the custom claims embedded in access tokens. The registered
// ID (jti) keys the logout denylist.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	SchoolID string   `json:"colegio_id,omitempty"`
	jwt.RegisteredClaims
}

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	User        UserInfo  `json:"usuario"`
}

// UserInfo is the public projection of an account embedded in auth responses.
type UserInfo struct {
	ID       string   `json:"id"`
	DNI      string   `json:"dni"`
	Email    string   `json:"email"`
	FullName string   `json:"nombre_completo"`
	Role     UserRole `json:"rol"`
}
