// AngelaMos | 2026
// dto.go

package auth

import (
	"time"

	"github.com/carterperez-dev/esimphony/internal/session"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type RegisterRequest struct {
	FirstName       string `json:"firstName"       validate:"required,min=1,max=100"`
	Email           string `json:"email"           validate:"required,email,max=255"`
	Password        string `json:"password"        validate:"required,max=128"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type DeviceTokenResponse struct {
	DeviceToken string    `json:"device_token"`
	DeviceID    string    `json:"device_id"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// SessionResponse is returned after a login or registration and tells
// the client which view to show next.
type SessionResponse struct {
	User     *session.User `json:"user"`
	Redirect string        `json:"redirect"`
}

type LogoutResponse struct {
	Redirect string `json:"redirect"`
}
