package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/bioisac/admindesk/internal/admin/domain"
	"github.com/bioisac/admindesk/pkg/slogx"
)

// LoginFlow runs one login attempt through password check, two-factor
// provisioning or verification, and session issuance.
type LoginFlow struct {
	Auth     *Authenticator
	Sessions *SessionManager

	// VerifyCode is the code acceptance policy. Nil means strict TOTP
	// verification.
	VerifyCode CodeVerifier
}

// Login returns the outcome the attempt reached. Failed logins are outcomes,
// not errors; the error return carries store failures only.
func (f *LoginFlow) Login(ctx context.Context, attempt domain.LoginAttempt) (domain.LoginResult, error) {
	log := slogx.FromContext(ctx).With("username", attempt.Username)

	ok, err := f.Auth.ValidatePassword(ctx, attempt.Username, attempt.Password)
	if err != nil {
		return domain.LoginResult{}, err
	}
	if !ok {
		log.Warn("login rejected: invalid credentials")
		return domain.LoginResult{Outcome: domain.LoginRejected}, nil
	}

	secret, err := f.Auth.GetTwoFactorSecret(ctx, attempt.Username)
	if err != nil {
		return userGone(log, err)
	}

	if secret == "" {
		prov, err := f.Auth.ProvisionTwoFactorSecret(ctx, attempt.Username)
		if err != nil {
			return userGone(log, err)
		}
		log.Info("login requires two-factor setup")
		return domain.LoginResult{Outcome: domain.LoginNeedsProvisioning, Provisioning: &prov}, nil
	}

	code := strings.TrimSpace(attempt.Code)
	if code == "" {
		return domain.LoginResult{Outcome: domain.LoginNeedsCode}, nil
	}

	verify := f.VerifyCode
	if verify == nil {
		verify = StrictCodeVerifier(f.Auth)
	}
	if !verify(secret, code) {
		log.Warn("login rejected: invalid two-factor code")
		return domain.LoginResult{Outcome: domain.LoginInvalidCode}, nil
	}

	token, expiresAt, err := f.Sessions.issue(ctx, attempt.Username)
	if err != nil {
		return userGone(log, err)
	}
	log.Info("login succeeded")
	return domain.LoginResult{
		Outcome:   domain.LoginAuthenticated,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// userGone handles errors from the steps after the password check. The user
// can be deleted in between, which is a rejection and not a failure.
func userGone(log *slog.Logger, err error) (domain.LoginResult, error) {
	if errors.Is(err, ErrInvalidCredentials) {
		log.Warn("login rejected: user no longer exists")
		return domain.LoginResult{Outcome: domain.LoginRejected}, nil
	}
	return domain.LoginResult{}, err
}
