package domain

import "time"

// Session is a stored bearer session. TokenHash is the fingerprint of the
// opaque token handed to the client; the token itself is never stored.
type Session struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Live reports whether the session is usable at now. Expiry is absolute:
// a session is dead from the instant now reaches ExpiresAt.
func (s Session) Live(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}
