package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Configuration for Argon2id hashing.
const (
	memory      = 19 * 1024 // Memory usage in KiB (19 MiB)
	iterations  = 2         // Iteration count
	parallelism = 1         // Number of threads
	keyLength   = 32        // Length of the generated hash
	saltLength  = 16        // Length of the salt
)

// Password scheme names as accepted by configuration.
const (
	SchemeArgon2id = "argon2id"
	SchemeSHA256   = "sha256"
)

const argon2Prefix = "$argon2id$"

var (
	ErrPasswordMismatch  = errors.New("password does not match")
	ErrInvalidHashFormat = errors.New("invalid hash format")
	ErrUnknownScheme     = errors.New("unknown password scheme")
)

// PasswordHasher produces and checks stored password hashes. Verify returns
// nil on a match, ErrPasswordMismatch on a mismatch and any other error when
// the stored hash cannot be interpreted.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) error
}

// SHA256Hasher is the legacy scheme: base64(sha256(password)) with no salt
// and a single round. It exists for parity with databases seeded by the old
// system and should not be chosen for new deployments.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

func (h SHA256Hasher) Verify(password, encodedHash string) error {
	computed, _ := h.Hash(password)
	if subtle.ConstantTimeCompare([]byte(computed), []byte(encodedHash)) == 1 {
		return nil
	}
	return ErrPasswordMismatch
}

// Argon2Hasher generates PHC-format Argon2id hashes. Pepper, when set, is
// appended to the password before hashing and must stay stable for the
// lifetime of the stored hashes.
type Argon2Hasher struct {
	Pepper string
}

// Hash generates a PHC-format Argon2id hash string including salt and parameters.
func (h Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password+h.Pepper), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// Verify compares a plaintext password against a PHC-style Argon2id hash.
func (h Argon2Hasher) Verify(password, encodedHash string) error {
	// ["", "argon2id", "v=19", "m=X,t=Y,p=Z", "salt", "hash"]
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return fmt.Errorf("%w: expected 6 parts", ErrInvalidHashFormat)
	}
	if parts[1] != "argon2id" {
		return fmt.Errorf("%w: not argon2id", ErrInvalidHashFormat)
	}
	if parts[2] != "v=19" {
		return fmt.Errorf("%w: wrong version", ErrInvalidHashFormat)
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("%w: failed to parse parameters: %v", ErrInvalidHashFormat, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("%w: failed to decode salt: %v", ErrInvalidHashFormat, err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("%w: failed to decode hash: %v", ErrInvalidHashFormat, err)
	}

	computed := argon2.IDKey(
		[]byte(password+h.Pepper),
		salt,
		iters,
		mem,
		par,
		uint32(len(expected)), // #nosec G115 - If this overflows we have bigger problems
	)
	if subtle.ConstantTimeCompare(computed, expected) == 1 {
		return nil
	}
	return ErrPasswordMismatch
}

// MultiHasher hashes new passwords with Primary and verifies any stored hash
// whose format it recognises, so rows written under the legacy scheme keep
// working after an operator switches to Argon2id.
type MultiHasher struct {
	Primary PasswordHasher
	Argon2  Argon2Hasher
	Legacy  SHA256Hasher
}

// NewHasher builds a MultiHasher whose primary scheme is the named one.
func NewHasher(scheme, pepper string) (*MultiHasher, error) {
	m := &MultiHasher{Argon2: Argon2Hasher{Pepper: pepper}}
	switch strings.ToLower(scheme) {
	case "", SchemeArgon2id:
		m.Primary = m.Argon2
	case SchemeSHA256:
		m.Primary = m.Legacy
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
	return m, nil
}

func (m *MultiHasher) Hash(password string) (string, error) {
	return m.Primary.Hash(password)
}

func (m *MultiHasher) Verify(password, encodedHash string) error {
	if strings.HasPrefix(encodedHash, argon2Prefix) {
		return m.Argon2.Verify(password, encodedHash)
	}
	return m.Legacy.Verify(password, encodedHash)
}
