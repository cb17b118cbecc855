package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSHA256Hasher_KnownVectors(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     string
	}{
		// Hash the old system stored for the seeded admin account.
		{"default admin password", "admin123", "JAvlGPq9JyTdtvBO6x2llnRI1+gxwIyPqCKAn3THIKk="},
		{"empty password", "", "47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU="},
	}

	var h SHA256Hasher
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.Hash(tt.password)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, h.Verify(tt.password, tt.want))
		})
	}
}

func TestSHA256Hasher_Mismatch(t *testing.T) {
	var h SHA256Hasher
	stored, err := h.Hash("admin123")
	require.NoError(t, err)

	require.ErrorIs(t, h.Verify("admin124", stored), ErrPasswordMismatch)
	require.ErrorIs(t, h.Verify("Admin123", stored), ErrPasswordMismatch)
	require.ErrorIs(t, h.Verify("", stored), ErrPasswordMismatch)
}

func TestArgon2Hasher_HashFormat(t *testing.T) {
	h := Argon2Hasher{Pepper: "pepper"}

	hash, err := h.Hash("password123")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"), "hash should be in PHC format")

	parts := strings.Split(hash, "$")
	require.Len(t, parts, 6)
	require.Contains(t, parts[3], "m=")
	require.Contains(t, parts[3], "t=")
	require.Contains(t, parts[3], "p=")
	require.NotEmpty(t, parts[4], "salt should not be empty")
	require.NotEmpty(t, parts[5], "hash should not be empty")
}

func TestArgon2Hasher_UniqueSalts(t *testing.T) {
	h := Argon2Hasher{}

	hash1, err := h.Hash("samepassword")
	require.NoError(t, err)
	hash2, err := h.Hash("samepassword")
	require.NoError(t, err)

	require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")
	require.NoError(t, h.Verify("samepassword", hash1))
	require.NoError(t, h.Verify("samepassword", hash2))
}

func TestArgon2Hasher_PepperMatters(t *testing.T) {
	hash, err := Argon2Hasher{Pepper: "one"}.Hash("secret")
	require.NoError(t, err)

	require.NoError(t, Argon2Hasher{Pepper: "one"}.Verify("secret", hash))
	require.ErrorIs(t, Argon2Hasher{Pepper: "two"}.Verify("secret", hash), ErrPasswordMismatch)
	require.ErrorIs(t, Argon2Hasher{Pepper: "one"}.Verify("Secret", hash), ErrPasswordMismatch)
}

func TestArgon2Hasher_InvalidFormat(t *testing.T) {
	h := Argon2Hasher{}
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"too few parts", "$argon2id$v=19$m=1,t=1,p=1"},
		{"wrong algorithm", "$argon2i$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA"},
		{"wrong version", "$argon2id$v=18$m=1,t=1,p=1$c2FsdA$aGFzaA"},
		{"garbage params", "$argon2id$v=19$nope$c2FsdA$aGFzaA"},
		{"bad salt", "$argon2id$v=19$m=1,t=1,p=1$!!!$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.Verify("x", tt.hash)
			require.ErrorIs(t, err, ErrInvalidHashFormat)
		})
	}
}

func TestMultiHasher(t *testing.T) {
	t.Run("argon2id primary still verifies legacy hashes", func(t *testing.T) {
		h, err := NewHasher(SchemeArgon2id, "")
		require.NoError(t, err)

		fresh, err := h.Hash("admin123")
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(fresh, "$argon2id$"))
		require.NoError(t, h.Verify("admin123", fresh))

		legacy := "JAvlGPq9JyTdtvBO6x2llnRI1+gxwIyPqCKAn3THIKk="
		require.NoError(t, h.Verify("admin123", legacy))
		require.ErrorIs(t, h.Verify("wrong", legacy), ErrPasswordMismatch)
	})

	t.Run("sha256 primary writes legacy hashes", func(t *testing.T) {
		h, err := NewHasher(SchemeSHA256, "")
		require.NoError(t, err)

		hash, err := h.Hash("admin123")
		require.NoError(t, err)
		require.Equal(t, "JAvlGPq9JyTdtvBO6x2llnRI1+gxwIyPqCKAn3THIKk=", hash)
	})

	t.Run("empty scheme defaults to argon2id", func(t *testing.T) {
		h, err := NewHasher("", "")
		require.NoError(t, err)
		require.IsType(t, Argon2Hasher{}, h.Primary)
	})

	t.Run("unknown scheme", func(t *testing.T) {
		_, err := NewHasher("md5", "")
		require.ErrorIs(t, err, ErrUnknownScheme)
	})
}

func TestLoadOrGeneratePepper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pepper")

	first, err := LoadOrGeneratePepper(path)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	second, err := LoadOrGeneratePepper(path)
	require.NoError(t, err)
	require.Equal(t, first, second, "pepper must be stable across loads")

	none, err := LoadOrGeneratePepper("")
	require.NoError(t, err)
	require.Empty(t, none)
}
