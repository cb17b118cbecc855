package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// Token sizes in bytes of entropy. Encoded lengths are for base64url without
// padding.
const (
	TokenSize128 = 16 // 22 chars
	TokenSize256 = 32 // 43 chars
)

var tokenEncoding = base64.RawURLEncoding

// GenerateToken returns size random bytes, base64url-encoded without padding.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return tokenEncoding.EncodeToString(buf), nil
}

// WellFormedToken reports whether token could have come from
// GenerateToken(size). It lets callers drop garbage bearer values before
// they reach storage.
func WellFormedToken(token string, size int) bool {
	if len(token) != tokenEncoding.EncodedLen(size) {
		return false
	}
	_, err := tokenEncoding.DecodeString(token)
	return err == nil
}

// FingerprintToken returns the base64url SHA-256 of token (43 chars).
// Sessions are stored under the fingerprint so a copy of the database holds
// no usable bearer tokens.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return tokenEncoding.EncodeToString(sum[:])
}
