package auth

import (
	"time"

	"github.com/google/uuid"
)

// Session is the server-side half of a login. It lives in Redis under its ID
// and expires with the refresh TTL; access tokens carry the ID as "sid".
type Session struct {
	ID        string    `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Nickname  string    `json:"nickname"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Identity is the payload of the user cookie.
type Identity struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Nickname string    `json:"nickname"`
}
