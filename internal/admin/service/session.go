package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bioisac/admindesk/internal/admin/domain"
	"github.com/bioisac/admindesk/internal/admin/store"
	"github.com/bioisac/admindesk/pkg/cryptox"
)

const DefaultSessionTTL = 24 * time.Hour

// sessionTokenSize gives bearer tokens 256 bits of entropy.
const sessionTokenSize = cryptox.TokenSize256

// SessionManager issues and checks opaque bearer tokens. Only the token
// fingerprint is persisted, so every lookup fingerprints the presented token.
type SessionManager struct {
	Store store.Store
	TTL   time.Duration    // DefaultSessionTTL when zero
	Now   func() time.Time // defaults to time.Now
}

func (m *SessionManager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *SessionManager) ttl() time.Duration {
	if m.TTL <= 0 {
		return DefaultSessionTTL
	}
	return m.TTL
}

// IssueSession mints a token for username, replacing any session the user
// already had.
func (m *SessionManager) IssueSession(ctx context.Context, username string) (string, error) {
	token, _, err := m.issue(ctx, username)
	return token, err
}

func (m *SessionManager) issue(ctx context.Context, username string) (string, time.Time, error) {
	u, err := m.Store.Users().GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", time.Time{}, persistenceErr("lookup user", err)
	}

	token, err := cryptox.GenerateToken(sessionTokenSize)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate session token: %w", err)
	}

	now := m.now()
	sess := domain.Session{
		TokenHash: cryptox.FingerprintToken(token),
		UserID:    u.ID,
		ExpiresAt: now.Add(m.ttl()),
		CreatedAt: now,
	}
	if err := m.Store.Sessions().ReplaceSession(ctx, sess); err != nil {
		return "", time.Time{}, persistenceErr("store session", err)
	}
	return token, sess.ExpiresAt, nil
}

// Authenticate returns the live session behind token or
// ErrSessionExpiredOrUnknown. Expiry is never extended.
func (m *SessionManager) Authenticate(ctx context.Context, token string) (domain.Session, error) {
	if !cryptox.WellFormedToken(token, sessionTokenSize) {
		return domain.Session{}, ErrSessionExpiredOrUnknown
	}

	sess, err := m.Store.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
	if errors.Is(err, store.ErrNotFound) {
		return domain.Session{}, ErrSessionExpiredOrUnknown
	}
	if err != nil {
		return domain.Session{}, persistenceErr("lookup session", err)
	}
	if !sess.Live(m.now()) {
		return domain.Session{}, ErrSessionExpiredOrUnknown
	}
	return sess, nil
}

// ValidateSession reports whether token belongs to a live session. The error
// return is reserved for store failures.
func (m *SessionManager) ValidateSession(ctx context.Context, token string) (bool, error) {
	_, err := m.Authenticate(ctx, token)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrSessionExpiredOrUnknown):
		return false, nil
	default:
		return false, err
	}
}

// CheckToken has the shape of httpx.TokenCheck.
func (m *SessionManager) CheckToken(ctx context.Context, token string) (string, bool, error) {
	sess, err := m.Authenticate(ctx, token)
	switch {
	case err == nil:
		return sess.UserID, true, nil
	case errors.Is(err, ErrSessionExpiredOrUnknown):
		return "", false, nil
	default:
		return "", false, err
	}
}

// RevokeSession deletes the session behind token. Revoking an unknown token
// succeeds.
func (m *SessionManager) RevokeSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.Store.Sessions().DeleteSessionByTokenHash(ctx, cryptox.FingerprintToken(token)); err != nil {
		return persistenceErr("delete session", err)
	}
	return nil
}

// RevokeUserSessions deletes every session of username. Unknown users are a
// no-op.
func (m *SessionManager) RevokeUserSessions(ctx context.Context, username string) error {
	u, err := m.Store.Users().GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return persistenceErr("lookup user", err)
	}
	if err := m.Store.Sessions().DeleteSessionsByUser(ctx, u.ID); err != nil {
		return persistenceErr("delete sessions", err)
	}
	return nil
}
