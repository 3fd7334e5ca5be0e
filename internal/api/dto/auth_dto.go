package dto

import "time"

// LoginRequest payload for operator login.
type LoginRequest struct {
	Mail     string `json:"mail" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// OperatorInfo is the public slice of an operator account.
type OperatorInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Mail string `json:"mail"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Operator  OperatorInfo `json:"operator"`
}
