package model

import "github.com/golang-jwt/jwt/v5"

// PlayerClaims are JWT claims for an authenticated player (or the admin)
type PlayerClaims struct {
	PlayerID string `json:"playerId"`
	Username string `json:"username"`
	Admin    bool   `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login or registration
type LoginResponse struct {
	Token    string `json:"token"`
	PlayerID string `json:"playerId"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Admin    bool   `json:"admin"`
}
