package store

import (
	"context"
	"errors"
	"time"

	"github.com/bioisac/admindesk/internal/admin/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. Sub-repositories are exposed as methods so a Tx-scoped store
// hands out repositories bound to the same transaction.
type Store interface {
	Users() Users
	Sessions() Sessions
	Contacts() Contacts

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername matches the username exactly.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the username is taken.
	CreateUser(ctx context.Context, u domain.User) error

	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// SetTwoFactorSecretIfEmpty stores secret only when the user has none.
	// It reports whether this call was the one that stored it.
	SetTwoFactorSecretIfEmpty(ctx context.Context, userID string, secret string) (bool, error)

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

// Sessions persists at most one session per user.
type Sessions interface {
	// ReplaceSession stores s and atomically drops any other session of the
	// same user. Concurrent calls for one user leave exactly one row: the
	// last writer's.
	ReplaceSession(ctx context.Context, s domain.Session) error

	// GetSessionByTokenHash returns the row regardless of expiry; callers
	// decide liveness.
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (domain.Session, error)

	// DeleteSessionByTokenHash and DeleteSessionsByUser are no-ops when
	// nothing matches.
	DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error
	DeleteSessionsByUser(ctx context.Context, userID string) error

	// DeleteExpiredSessions removes rows with expires_at <= now and returns
	// how many were removed.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

type Contacts interface {
	// ListContacts orders by work field, then name.
	ListContacts(ctx context.Context) ([]domain.Contact, error)

	// ListWorkFields returns the distinct work fields in ascending order.
	ListWorkFields(ctx context.Context) ([]string, error)

	ListContactsByWorkField(ctx context.Context, workField string) ([]domain.Contact, error)
	GetContactByID(ctx context.Context, id string) (domain.Contact, error)
	CreateContact(ctx context.Context, c domain.Contact) error

	// UpdateContact and DeleteContact return ErrNotFound when no row matches.
	UpdateContact(ctx context.Context, c domain.Contact) error
	DeleteContact(ctx context.Context, id string) error
}
