package auth

import (
	"github.com/atacadolink/atacadolink-backend/internal/profiles"
	"github.com/google/uuid"
)

// LoginRequest carries the credentials presented at sign-in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest carries the data for a new representative profile.
type RegisterRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	DisplayName string  `json:"display_name" validate:"required"`
	Category    *string `json:"category,omitempty"`
}

// RefreshRequest carries the expired access token pair to rotate.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// SessionTokens is the access/refresh pair returned by sign-in and refresh.
type SessionTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResponse is the payload returned after a successful sign-in.
type LoginResponse struct {
	SessionTokens
	Profile *profiles.ProfileDTO `json:"profile"`
}

// LogoutRequest identifies the session being terminated.
type LogoutRequest struct {
	ProfileID uuid.UUID
	AccessID  string
}
