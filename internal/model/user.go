package model

import "time"

// User is a registered account. Passwords are stored as Argon2id hashes,
// never in plaintext.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session scopes persisted data to a user or an anonymous visitor.
// Anonymous sessions have an empty UserID.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
}

// Scope returns the persistence scope key for this session. Data belonging
// to a registered user follows the account across sessions; anonymous data
// is keyed by the session itself.
func (s Session) Scope() string {
	if s.UserID != "" {
		return "user:" + s.UserID
	}
	return "session:" + s.ID
}
