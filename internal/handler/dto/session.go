package dto

import (
	"time"

	"github.com/pulsetrack/pulsetrack/internal/model"
)

// RegisterRequest represents the request body for creating an account.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for logging in.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse represents a session in API responses. The session ID
// is the bearer credential for the X-Session-Id header.
type SessionResponse struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id,omitempty"`
	Anonymous bool      `json:"anonymous"`
	CreatedAt time.Time `json:"created_at"`
}

// ToSessionResponse converts a Session model to SessionResponse DTO.
func ToSessionResponse(sess model.Session) *SessionResponse {
	return &SessionResponse{
		SessionID: sess.ID,
		UserID:    sess.UserID,
		Anonymous: sess.UserID == "",
		CreatedAt: sess.CreatedAt,
	}
}
