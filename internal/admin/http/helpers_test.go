package http

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bioisac/admindesk/internal/admin/service"
	"github.com/bioisac/admindesk/internal/admin/store"
	"github.com/bioisac/admindesk/internal/admin/store/drivers/sqlite"
	"github.com/bioisac/admindesk/pkg/adminsdk"
	"github.com/bioisac/admindesk/pkg/cryptox"
	"github.com/bioisac/admindesk/pkg/httpx"
	"github.com/bioisac/admindesk/pkg/slogx"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testServer struct {
	*httptest.Server
	client   *adminsdk.Client
	store    store.Store
	clock    *clock
	sessions *service.SessionManager
}

type serverOption func(*serverConfig)

type serverConfig struct {
	verify     service.CodeVerifier
	loginLimit httpx.RateLimitConfig
	wrapStore  func(store.Store) store.Store
}

func withCodeVerifier(v service.CodeVerifier) serverOption {
	return func(c *serverConfig) { c.verify = v }
}

func withLoginLimit(l httpx.RateLimitConfig) serverOption {
	return func(c *serverConfig) { c.loginLimit = l }
}

func withStore(wrap func(store.Store) store.Store) serverOption {
	return func(c *serverConfig) { c.wrapStore = wrap }
}

// newTestServer serves the full router over a migrated sqlite database with
// the default admin seeded. Codes are accepted unconditionally unless
// withCodeVerifier says otherwise.
func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()

	cfg := serverConfig{
		verify:     service.AcceptAnyCode,
		loginLimit: httpx.RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000},
	}
	for _, o := range opts {
		o(&cfg)
	}

	db, err := sqlite.NewStore(filepath.Join(t.TempDir(), "admindesk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.ApplyMigrations())

	var st store.Store = db
	if cfg.wrapStore != nil {
		st = cfg.wrapStore(db)
	}

	hasher, err := cryptox.NewHasher(cryptox.SchemeSHA256, "")
	require.NoError(t, err)
	_, err = (&service.BootstrapService{Store: st, Hasher: hasher}).SeedDefaultAdmin(context.Background())
	require.NoError(t, err)

	clk := &clock{now: time.Now()}
	auth := &service.Authenticator{Store: st, Hasher: hasher, Issuer: "BioIsac"}
	sessions := &service.SessionManager{Store: st, TTL: time.Hour, Now: clk.Now}

	router := NewRouter("test", st, slogx.Discard())
	router.LoginLimit = cfg.loginLimit
	router.LoginFlow = &service.LoginFlow{Auth: auth, Sessions: sessions, VerifyCode: cfg.verify}
	router.SessionManager = sessions
	router.ContactService = &service.ContactService{Store: st}
	router.NotificationService = &service.NotificationService{
		Store:      st,
		Dispatcher: service.LogDispatcher{Logger: slogx.Discard()},
	}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{
		Server:   srv,
		client:   adminsdk.NewClient(srv.URL),
		store:    st,
		clock:    clk,
		sessions: sessions,
	}
}

// login provisions the admin if needed and returns a live session.
func (s *testServer) login(t *testing.T) *adminsdk.Session {
	t.Helper()
	ctx := context.Background()

	_, err := s.client.Login(ctx, "admin", "admin123", "")
	require.NoError(t, err)

	sess, err := s.client.Authenticate(ctx, "admin", "admin123", "000000")
	require.NoError(t, err)
	return sess
}
