package service

import (
	"context"
	"encoding/base32"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bioisac/admindesk/internal/admin/domain"
	"github.com/bioisac/admindesk/internal/admin/store"
	"github.com/bioisac/admindesk/pkg/cryptox"
	"github.com/bioisac/admindesk/pkg/slogx"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	DefaultIssuer = "BioIsac"

	totpPeriod     = 30
	totpSkew       = 2  // steps accepted on either side of the current one
	totpSecretSize = 20 // 160 bits
)

var b32NoPadding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Authenticator checks passwords and two-factor codes and enrolls users in
// two-factor authentication on first use. It never caches users.
type Authenticator struct {
	Store  store.Store
	Hasher cryptox.PasswordHasher
	Issuer string           // TOTP issuer, DefaultIssuer when empty
	Now    func() time.Time // defaults to time.Now

	dummyOnce sync.Once
	dummyHash string
}

// dummyPassword is hashed once per Authenticator. Unknown usernames are
// verified against that hash so they cost the same as a wrong password.
const dummyPassword = "admindesk-no-such-user"

func (a *Authenticator) unknownUserHash() string {
	a.dummyOnce.Do(func() {
		a.dummyHash, _ = a.Hasher.Hash(dummyPassword)
	})
	return a.dummyHash
}

func (a *Authenticator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *Authenticator) issuer() string {
	if a.Issuer == "" {
		return DefaultIssuer
	}
	return a.Issuer
}

// ValidatePassword reports whether password matches the stored hash of
// username. An unknown username is false, not an error, and still pays for
// one hash verification.
func (a *Authenticator) ValidatePassword(ctx context.Context, username, password string) (bool, error) {
	u, err := a.Store.Users().GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		_ = a.Hasher.Verify(password, a.unknownUserHash())
		return false, nil
	}
	if err != nil {
		return false, persistenceErr("lookup user", err)
	}

	switch err := a.Hasher.Verify(password, u.PasswordHash); {
	case err == nil:
		return true, nil
	case errors.Is(err, cryptox.ErrPasswordMismatch):
		return false, nil
	default:
		slogx.FromContext(ctx).Error("stored password hash is unreadable", "user_id", u.ID, "err", err)
		return false, nil
	}
}

// GetTwoFactorSecret returns the stored secret, "" when the user has not
// been provisioned yet.
func (a *Authenticator) GetTwoFactorSecret(ctx context.Context, username string) (string, error) {
	u, err := a.user(ctx, username)
	if err != nil {
		return "", err
	}
	return u.TwoFactorSecret, nil
}

// ProvisionTwoFactorSecret generates and stores a secret for a user that has
// none. When a concurrent call stored one first, that persisted secret is
// returned instead of the one generated here.
func (a *Authenticator) ProvisionTwoFactorSecret(ctx context.Context, username string) (domain.Provisioning, error) {
	u, err := a.user(ctx, username)
	if err != nil {
		return domain.Provisioning{}, err
	}
	if u.HasTwoFactor() {
		return a.provisioning(username, u.TwoFactorSecret)
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      a.issuer(),
		AccountName: username,
		Period:      totpPeriod,
		SecretSize:  totpSecretSize,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.Provisioning{}, fmt.Errorf("generate totp key: %w", err)
	}

	stored, err := a.Store.Users().SetTwoFactorSecretIfEmpty(ctx, u.ID, key.Secret())
	if err != nil {
		return domain.Provisioning{}, persistenceErr("store two-factor secret", err)
	}
	if stored {
		slogx.FromContext(ctx).Info("two-factor secret provisioned", "user_id", u.ID)
		return domain.Provisioning{
			Secret:  key.Secret(),
			URI:     key.URL(),
			Issuer:  a.issuer(),
			Account: username,
		}, nil
	}

	// Lost the race; hand out whatever is persisted now.
	u, err = a.user(ctx, username)
	if err != nil {
		return domain.Provisioning{}, err
	}
	return a.provisioning(username, u.TwoFactorSecret)
}

// provisioning rebuilds the provisioning data of an existing secret.
func (a *Authenticator) provisioning(account, secret string) (domain.Provisioning, error) {
	raw, err := b32NoPadding.DecodeString(strings.ToUpper(strings.TrimRight(secret, "=")))
	if err != nil {
		return domain.Provisioning{}, fmt.Errorf("decode stored secret: %w", err)
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      a.issuer(),
		AccountName: account,
		Period:      totpPeriod,
		Secret:      raw,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.Provisioning{}, fmt.Errorf("build totp key: %w", err)
	}
	return domain.Provisioning{
		Secret:  secret,
		URI:     key.URL(),
		Issuer:  a.issuer(),
		Account: account,
	}, nil
}

// VerifyTwoFactorCode accepts code if it is the TOTP of secret for the
// current 30 second step or any of the two steps before or after it.
func (a *Authenticator) VerifyTwoFactorCode(secret, code string) bool {
	code = strings.TrimSpace(code)
	if secret == "" || code == "" {
		return false
	}
	ok, err := totp.ValidateCustom(code, secret, a.now().UTC(), totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      totpSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

func (a *Authenticator) user(ctx context.Context, username string) (domain.User, error) {
	u, err := a.Store.Users().GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, persistenceErr("lookup user", err)
	}
	return u, nil
}
