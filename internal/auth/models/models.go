package models

import (
	"time"

	id "legado/pkg/domain"
)

// User is a credential holder. There is no user CRUD surface; users are
// seeded at startup and only read at login.
type User struct {
	ID           id.UserID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is the server-side authenticated-identity state for one client.
// The client only ever holds the session ID (wrapped in a signed cookie);
// everything else lives in the session store.
type Session struct {
	ID           id.SessionID `json:"id"`
	UserID       id.UserID    `json:"user_id"`
	Device       string       `json:"device"`
	IPAddress    string       `json:"ip_address,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	LastActivity time.Time    `json:"last_activity"`
	ExpiresAt    time.Time    `json:"expires_at"`
}

// Expired reports whether the session has outlived its TTL at the given
// instant.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
