package redis

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bioisac/admindesk/internal/admin/domain"
	"github.com/bioisac/admindesk/internal/admin/store"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestSessions(t *testing.T) (*Sessions, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewSessions(rdb, "test:"), mr
}

func TestReplaceSession(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestSessions(t)
	now := time.Now()

	require.NoError(t, s.ReplaceSession(ctx, domain.Session{TokenHash: "h1", UserID: "u1", ExpiresAt: now.Add(time.Hour), CreatedAt: now}))

	got, err := s.GetSessionByTokenHash(ctx, "h1")
	require.NoError(t, err)
	require.Equal(t, "u1", got.UserID)
	require.Equal(t, now.Add(time.Hour).UnixNano(), got.ExpiresAt.UnixNano())

	require.NoError(t, s.ReplaceSession(ctx, domain.Session{TokenHash: "h2", UserID: "u1", ExpiresAt: now.Add(time.Hour), CreatedAt: now}))

	_, err = s.GetSessionByTokenHash(ctx, "h1")
	require.ErrorIs(t, err, store.ErrNotFound, "previous session is dropped")
	require.False(t, mr.Exists("{test}:sess:h1"))

	userPtr, err := mr.Get("{test}:user:u1")
	require.NoError(t, err)
	require.Equal(t, "h2", userPtr)
}

func TestReplaceSession_Concurrent(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestSessions(t)
	now := time.Now()

	var wg sync.WaitGroup
	for _, h := range []string{"a", "b", "c", "d", "e"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.ReplaceSession(ctx, domain.Session{TokenHash: h, UserID: "u1", ExpiresAt: now.Add(time.Hour), CreatedAt: now})
			if err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	sessKeys := 0
	for _, k := range mr.Keys() {
		if len(k) > len("{test}:sess:") && k[:len("{test}:sess:")] == "{test}:sess:" {
			sessKeys++
		}
	}
	require.Equal(t, 1, sessKeys, "exactly one session survives")
}

func TestSessionKeysExpire(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestSessions(t)
	now := time.Now()
	mr.SetTime(now)

	require.NoError(t, s.ReplaceSession(ctx, domain.Session{TokenHash: "h1", UserID: "u1", ExpiresAt: now.Add(time.Minute), CreatedAt: now}))
	mr.FastForward(2 * time.Minute)

	_, err := s.GetSessionByTokenHash(ctx, "h1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteSessions(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestSessions(t)
	now := time.Now()

	require.NoError(t, s.ReplaceSession(ctx, domain.Session{TokenHash: "h1", UserID: "u1", ExpiresAt: now.Add(time.Hour), CreatedAt: now}))
	require.NoError(t, s.DeleteSessionByTokenHash(ctx, "h1"))
	require.False(t, mr.Exists("{test}:sess:h1"))
	require.False(t, mr.Exists("{test}:user:u1"))
	require.NoError(t, s.DeleteSessionByTokenHash(ctx, "h1"), "idempotent")

	require.NoError(t, s.ReplaceSession(ctx, domain.Session{TokenHash: "h2", UserID: "u2", ExpiresAt: now.Add(time.Hour), CreatedAt: now}))
	require.NoError(t, s.DeleteSessionsByUser(ctx, "u2"))
	require.False(t, mr.Exists("{test}:sess:h2"))
	require.NoError(t, s.DeleteSessionsByUser(ctx, "u2"), "idempotent")

	n, err := s.DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestNewSessionsHashTagsPrefix(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = rdb.Close() })

	require.Equal(t, "{admindesk}:", NewSessions(rdb, "").prefix)
	require.Equal(t, "{test}:", NewSessions(rdb, "test:").prefix)
	require.Equal(t, "{app}:", NewSessions(rdb, "app").prefix)
	require.Equal(t, "{tenant}:admindesk:", NewSessions(rdb, "{tenant}:admindesk:").prefix)
}

// Every key a script touches must share the prefix's hash tag so the
// multi-key scripts stay valid on Redis Cluster.
func TestSessionKeysShareHashTag(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestSessions(t)
	now := time.Now()

	for _, h := range []string{"h1", "h2", "h3"} {
		require.NoError(t, s.ReplaceSession(ctx, domain.Session{TokenHash: h, UserID: "u1", ExpiresAt: now.Add(time.Hour), CreatedAt: now}))
	}
	require.NoError(t, s.ReplaceSession(ctx, domain.Session{TokenHash: "h4", UserID: "u2", ExpiresAt: now.Add(time.Hour), CreatedAt: now}))

	keys := mr.Keys()
	require.ElementsMatch(t, []string{"{test}:sess:h3", "{test}:user:u1", "{test}:sess:h4", "{test}:user:u2"}, keys)
	for _, k := range keys {
		require.True(t, strings.HasPrefix(k, "{test}:"), "key %q", k)
	}
}

func TestDeleteSessionKeepsNewerPointer(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestSessions(t)
	now := time.Now()

	// A stale hash whose user pointer already moved on.
	mr.HSet("{test}:sess:old", "user_id", "u1", "expires_at", "0", "created_at", "0")
	require.NoError(t, s.ReplaceSession(ctx, domain.Session{TokenHash: "new", UserID: "u1", ExpiresAt: now.Add(time.Hour), CreatedAt: now}))

	require.NoError(t, s.DeleteSessionByTokenHash(ctx, "old"))
	require.False(t, mr.Exists("{test}:sess:old"))

	ptr, err := mr.Get("{test}:user:u1")
	require.NoError(t, err)
	require.Equal(t, "new", ptr)
}
