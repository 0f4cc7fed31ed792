package dto

import (
	"time"

	"github.com/campus-safety/incident-service/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// SessionResponse is returned on login.
type SessionResponse struct {
	Identity  domain.Identity `json:"identity"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
}
