package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bioisac/admindesk/internal/admin/domain"
	"github.com/bioisac/admindesk/internal/admin/store"
	"github.com/bioisac/admindesk/internal/admin/store/drivers/sqlite"
	"github.com/bioisac/admindesk/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("database is unreachable")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// testEnv wires the services over a migrated sqlite database with the
// default admin seeded.
type testEnv struct {
	store    store.Store
	clock    *fakeClock
	hasher   cryptox.PasswordHasher
	auth     *Authenticator
	sessions *SessionManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "admindesk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	// The legacy scheme keeps tests fast; MultiHasher behaviour is covered in cryptox.
	hasher, err := cryptox.NewHasher(cryptox.SchemeSHA256, "")
	require.NoError(t, err)

	boot := &BootstrapService{Store: st, Hasher: hasher}
	created, err := boot.SeedDefaultAdmin(context.Background())
	require.NoError(t, err)
	require.True(t, created)

	clock := newFakeClock()
	return &testEnv{
		store:    st,
		clock:    clock,
		hasher:   hasher,
		auth:     &Authenticator{Store: st, Hasher: hasher, Issuer: "BioIsac", Now: clock.Now},
		sessions: &SessionManager{Store: st, TTL: 24 * time.Hour, Now: clock.Now},
	}
}

func (e *testEnv) flow(verify CodeVerifier) *LoginFlow {
	return &LoginFlow{Auth: e.auth, Sessions: e.sessions, VerifyCode: verify}
}

func (e *testEnv) admin(t *testing.T) domain.User {
	t.Helper()
	u, err := e.store.Users().GetUserByUsername(context.Background(), DefaultAdminUsername)
	require.NoError(t, err)
	return u
}

// brokenStore fails every user and session call.
type brokenStore struct {
	store.Store
}

func (brokenStore) Users() store.Users       { return brokenUsers{} }
func (brokenStore) Sessions() store.Sessions { return brokenSessions{} }

type brokenUsers struct{ store.Users }

func (brokenUsers) GetUserByUsername(context.Context, string) (domain.User, error) {
	return domain.User{}, errStoreDown
}

type brokenSessions struct{ store.Sessions }

func (brokenSessions) GetSessionByTokenHash(context.Context, string) (domain.Session, error) {
	return domain.Session{}, errStoreDown
}

func (brokenSessions) DeleteSessionByTokenHash(context.Context, string) error {
	return errStoreDown
}

func (brokenSessions) DeleteExpiredSessions(context.Context, time.Time) (int64, error) {
	return 0, errStoreDown
}
