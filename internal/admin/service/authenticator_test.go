package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"

	"github.com/bioisac/admindesk/pkg/cryptox"
)

func codeAt(t *testing.T, secret string, at time.Time) string {
	t.Helper()
	code, err := totp.GenerateCodeCustom(secret, at, totp.ValidateOpts{
		Period:    30,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	require.NoError(t, err)
	return code
}

func TestValidatePassword(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	ok, err := env.auth.ValidatePassword(ctx, "admin", "admin123")
	require.NoError(t, err)
	require.True(t, ok)

	for _, tc := range []struct{ username, password string }{
		{"admin", "admin124"},
		{"admin", ""},
		{"Admin", "admin123"},
		{"nobody", "admin123"},
	} {
		ok, err := env.auth.ValidatePassword(ctx, tc.username, tc.password)
		require.NoError(t, err, "%s/%s", tc.username, tc.password)
		require.False(t, ok, "%s/%s", tc.username, tc.password)
	}
}

func TestValidatePassword_ChangedHashInvalidatesOldPassword(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	admin := env.admin(t)

	newHash, err := env.hasher.Hash("s3cret!")
	require.NoError(t, err)
	require.NoError(t, env.store.Users().UpdatePasswordHash(ctx, admin.ID, newHash))

	ok, err := env.auth.ValidatePassword(ctx, "admin", "admin123")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = env.auth.ValidatePassword(ctx, "admin", "s3cret!")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestValidatePassword_UnreadableHashIsRejection(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	require.NoError(t, env.store.Users().UpdatePasswordHash(ctx, env.admin(t).ID, "$argon2id$garbage"))

	ok, err := env.auth.ValidatePassword(ctx, "admin", "admin123")
	require.NoError(t, err)
	require.False(t, ok)
}

// countingHasher records Verify calls and the hashes they were given.
type countingHasher struct {
	cryptox.PasswordHasher

	mu       sync.Mutex
	hashes   int
	verified []string
}

func (h *countingHasher) Hash(password string) (string, error) {
	h.mu.Lock()
	h.hashes++
	h.mu.Unlock()
	return h.PasswordHasher.Hash(password)
}

func (h *countingHasher) Verify(password, encodedHash string) error {
	h.mu.Lock()
	h.verified = append(h.verified, encodedHash)
	h.mu.Unlock()
	return h.PasswordHasher.Verify(password, encodedHash)
}

func TestValidatePassword_UnknownUserStillVerifies(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	argon, err := cryptox.NewHasher(cryptox.SchemeArgon2id, "")
	require.NoError(t, err)
	hasher := &countingHasher{PasswordHasher: argon}
	auth := &Authenticator{Store: env.store, Hasher: hasher}

	for _, name := range []string{"nobody", "ghost"} {
		ok, err := auth.ValidatePassword(ctx, name, "wrong")
		require.NoError(t, err)
		require.False(t, ok)
	}

	require.Len(t, hasher.verified, 2, "every unknown username pays for a verification")
	require.True(t, strings.HasPrefix(hasher.verified[0], "$argon2id$"), "the dummy uses the configured scheme")
	require.Equal(t, hasher.verified[0], hasher.verified[1])
	require.Equal(t, 1, hasher.hashes, "the dummy hash is computed once")

	ok, err := auth.ValidatePassword(ctx, "admin", "wrong")
	require.NoError(t, err)
	require.False(t, ok)
	require.Len(t, hasher.verified, 3, "known user takes the same single verification")
}

func TestValidatePassword_PersistenceFailure(t *testing.T) {
	env := newTestEnv(t)
	auth := &Authenticator{Store: brokenStore{env.store}, Hasher: env.hasher}

	ok, err := auth.ValidatePassword(context.Background(), "admin", "admin123")
	require.ErrorIs(t, err, ErrPersistenceUnavailable)
	require.ErrorIs(t, err, errStoreDown)
	require.False(t, ok)
}

func TestProvisionTwoFactorSecret(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	secret, err := env.auth.GetTwoFactorSecret(ctx, "admin")
	require.NoError(t, err)
	require.Empty(t, secret)

	prov, err := env.auth.ProvisionTwoFactorSecret(ctx, "admin")
	require.NoError(t, err)
	require.Len(t, prov.Secret, 32, "20 random bytes in unpadded base32")
	require.True(t, strings.HasPrefix(prov.URI, "otpauth://totp/"))
	require.Contains(t, prov.URI, "secret="+prov.Secret)
	require.Contains(t, prov.URI, "issuer=BioIsac")
	require.Equal(t, "admin", prov.Account)

	for range 3 {
		stored, err := env.auth.GetTwoFactorSecret(ctx, "admin")
		require.NoError(t, err)
		require.Equal(t, prov.Secret, stored, "secret is stable across reads")
	}

	again, err := env.auth.ProvisionTwoFactorSecret(ctx, "admin")
	require.NoError(t, err)
	require.Equal(t, prov.Secret, again.Secret, "an existing secret is never replaced")

	key, err := otp.NewKeyFromURL(again.URI)
	require.NoError(t, err)
	require.Equal(t, prov.Secret, key.Secret())
}

func TestProvisionTwoFactorSecret_Race(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	const workers = 6
	secrets := make([]string, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			prov, err := env.auth.ProvisionTwoFactorSecret(ctx, "admin")
			if err != nil {
				t.Error(err)
				return
			}
			secrets[i] = prov.Secret
		}()
	}
	wg.Wait()

	stored, err := env.auth.GetTwoFactorSecret(ctx, "admin")
	require.NoError(t, err)
	for _, s := range secrets {
		require.Equal(t, stored, s, "every racer sees the one persisted secret")
	}
}

func TestProvisionTwoFactorSecret_UnknownUser(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.auth.ProvisionTwoFactorSecret(context.Background(), "nobody")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyTwoFactorCode(t *testing.T) {
	env := newTestEnv(t)
	prov, err := env.auth.ProvisionTwoFactorSecret(context.Background(), "admin")
	require.NoError(t, err)
	now := env.clock.Now()

	for _, steps := range []int{-2, -1, 0, 1, 2} {
		code := codeAt(t, prov.Secret, now.Add(time.Duration(steps)*30*time.Second))
		require.True(t, env.auth.VerifyTwoFactorCode(prov.Secret, code), "step %d", steps)
	}

	for _, steps := range []int{-4, 4} {
		code := codeAt(t, prov.Secret, now.Add(time.Duration(steps)*30*time.Second))
		require.False(t, env.auth.VerifyTwoFactorCode(prov.Secret, code), "step %d", steps)
	}

	require.False(t, env.auth.VerifyTwoFactorCode(prov.Secret, ""))
	require.False(t, env.auth.VerifyTwoFactorCode(prov.Secret, "abcdef"))
	require.False(t, env.auth.VerifyTwoFactorCode("", codeAt(t, prov.Secret, now)))
}

func TestNewCodeVerifier(t *testing.T) {
	env := newTestEnv(t)

	v, err := NewCodeVerifier("accept-any", env.auth)
	require.NoError(t, err)
	require.True(t, v("ANYSECRET", "x"))
	require.False(t, v("ANYSECRET", "   "))

	v, err = NewCodeVerifier("", env.auth)
	require.NoError(t, err)
	require.False(t, v("JBSWY3DPEHPK3PXP", "000000x"))

	_, err = NewCodeVerifier("lenient", env.auth)
	require.Error(t, err)
}
