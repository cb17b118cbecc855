package domain

import "time"

type User struct {
	ID              string
	Username        string
	PasswordHash    string // argon2id PHC string or legacy base64(sha256)
	TwoFactorSecret string // base32; empty until provisioned
	CreatedAt       time.Time
}

// HasTwoFactor reports whether a secret has been provisioned.
func (u User) HasTwoFactor() bool { return u.TwoFactorSecret != "" }
