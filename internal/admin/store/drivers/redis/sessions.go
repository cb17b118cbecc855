// Package redis stores sessions in Redis so several admindesk instances can
// share them while users and contacts stay in the SQL database.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bioisac/admindesk/internal/admin/domain"
	"github.com/bioisac/admindesk/internal/admin/store"

	"github.com/redis/go-redis/v9"
)

// defaultPrefix carries a hash tag so every key lands in one cluster slot.
const defaultPrefix = "{admindesk}:"

// maxAttempts bounds the read-then-compare-and-set loop of the write paths.
// Each lost race means another writer succeeded.
const maxAttempts = 8

// errConflict is returned when the user's session pointer kept changing
// underneath a write.
var errConflict = errors.New("redis: session changed concurrently")

// Every script declares all keys it touches. The caller reads the current
// pointer first and the script applies only if it is still the same value,
// returning 0 otherwise.

// KEYS[1] new session hash, KEYS[2] user pointer, KEYS[3] old session hash
// ARGV expected pointer, token_hash, user_id, expires_at, created_at, expire_ms
const replaceSessionScript = `
local cur = redis.call("GET", KEYS[2]) or ""
if cur ~= ARGV[1] then
  return 0
end
if cur ~= "" and cur ~= ARGV[2] then
  redis.call("DEL", KEYS[3])
end
redis.call("HSET", KEYS[1], "user_id", ARGV[3], "expires_at", ARGV[4], "created_at", ARGV[5])
redis.call("SET", KEYS[2], ARGV[2])
redis.call("PEXPIREAT", KEYS[1], ARGV[6])
redis.call("PEXPIREAT", KEYS[2], ARGV[6])
return 1
`

// KEYS[1] session hash, KEYS[2] owner's user pointer
// ARGV token_hash, expected owner user_id
const deleteSessionScript = `
local owner = redis.call("HGET", KEYS[1], "user_id") or ""
if owner ~= ARGV[2] then
  return 0
end
redis.call("DEL", KEYS[1])
if owner ~= "" and redis.call("GET", KEYS[2]) == ARGV[1] then
  redis.call("DEL", KEYS[2])
end
return 1
`

// KEYS[1] user pointer, KEYS[2] session hash it points at
// ARGV expected pointer
const deleteUserSessionScript = `
local cur = redis.call("GET", KEYS[1]) or ""
if cur ~= ARGV[1] then
  return 0
end
if cur ~= "" then
  redis.call("DEL", KEYS[2])
end
redis.call("DEL", KEYS[1])
return 1
`

var (
	replaceSessionLua    = redis.NewScript(replaceSessionScript)
	deleteSessionLua     = redis.NewScript(deleteSessionScript)
	deleteUserSessionLua = redis.NewScript(deleteUserSessionScript)
)

// Sessions implements store.Sessions on Redis. Keys expire on their own at
// the session's expiry, so DeleteExpiredSessions has nothing to do.
type Sessions struct {
	rdb    redis.UniversalClient
	prefix string
}

var _ store.Sessions = (*Sessions)(nil)

// NewSessions returns a session repository. An empty prefix uses
// "{admindesk}:". A prefix without a hash tag is wrapped in one ("app:"
// becomes "{app}:") because the scripts touch several keys at once and Redis
// Cluster requires them to share a slot.
func NewSessions(rdb redis.UniversalClient, prefix string) *Sessions {
	switch {
	case prefix == "":
		prefix = defaultPrefix
	case !strings.Contains(prefix, "{"):
		prefix = "{" + strings.TrimSuffix(prefix, ":") + "}:"
	}
	return &Sessions{rdb: rdb, prefix: prefix}
}

func (s *Sessions) sessionPrefix() string { return s.prefix + "sess:" }
func (s *Sessions) userPrefix() string    { return s.prefix + "user:" }

func (s *Sessions) sessionKey(tokenHash string) string { return s.sessionPrefix() + tokenHash }
func (s *Sessions) userKey(userID string) string       { return s.userPrefix() + userID }

// get returns the string at key, "" when it does not exist.
func (s *Sessions) get(ctx context.Context, key string) (string, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

// compareAndSet runs attempt until its script reports that the state it read
// was still current.
func compareAndSet(ctx context.Context, attempt func(ctx context.Context) (int, error)) error {
	for range maxAttempts {
		applied, err := attempt(ctx)
		if err != nil {
			return err
		}
		if applied == 1 {
			return nil
		}
	}
	return errConflict
}

func (s *Sessions) ReplaceSession(ctx context.Context, sess domain.Session) error {
	userKey := s.userKey(sess.UserID)
	err := compareAndSet(ctx, func(ctx context.Context) (int, error) {
		cur, err := s.get(ctx, userKey)
		if err != nil {
			return 0, err
		}
		return replaceSessionLua.Run(ctx, s.rdb,
			[]string{s.sessionKey(sess.TokenHash), userKey, s.sessionKey(cur)},
			cur,
			sess.TokenHash,
			sess.UserID,
			sess.ExpiresAt.UnixNano(),
			sess.CreatedAt.UnixNano(),
			sess.ExpiresAt.UnixMilli(),
		).Int()
	})
	if err != nil {
		return fmt.Errorf("redis: replace session: %w", err)
	}
	return nil
}

func (s *Sessions) GetSessionByTokenHash(ctx context.Context, tokenHash string) (domain.Session, error) {
	fields, err := s.rdb.HGetAll(ctx, s.sessionKey(tokenHash)).Result()
	if err != nil {
		return domain.Session{}, fmt.Errorf("redis: get session: %w", err)
	}
	if len(fields) == 0 {
		return domain.Session{}, store.ErrNotFound
	}

	expiresAt, err := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err != nil {
		return domain.Session{}, fmt.Errorf("redis: corrupt session expires_at: %w", err)
	}
	createdAt, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return domain.Session{}, fmt.Errorf("redis: corrupt session created_at: %w", err)
	}

	return domain.Session{
		TokenHash: tokenHash,
		UserID:    fields["user_id"],
		ExpiresAt: time.Unix(0, expiresAt).UTC(),
		CreatedAt: time.Unix(0, createdAt).UTC(),
	}, nil
}

func (s *Sessions) DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error {
	sessKey := s.sessionKey(tokenHash)
	err := compareAndSet(ctx, func(ctx context.Context) (int, error) {
		owner, err := s.rdb.HGet(ctx, sessKey, "user_id").Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return 0, err
		}
		return deleteSessionLua.Run(ctx, s.rdb,
			[]string{sessKey, s.userKey(owner)},
			tokenHash,
			owner,
		).Int()
	})
	if err != nil {
		return fmt.Errorf("redis: delete session: %w", err)
	}
	return nil
}

func (s *Sessions) DeleteSessionsByUser(ctx context.Context, userID string) error {
	userKey := s.userKey(userID)
	err := compareAndSet(ctx, func(ctx context.Context) (int, error) {
		cur, err := s.get(ctx, userKey)
		if err != nil {
			return 0, err
		}
		return deleteUserSessionLua.Run(ctx, s.rdb,
			[]string{userKey, s.sessionKey(cur)},
			cur,
		).Int()
	})
	if err != nil {
		return fmt.Errorf("redis: delete user sessions: %w", err)
	}
	return nil
}

func (s *Sessions) DeleteExpiredSessions(context.Context, time.Time) (int64, error) {
	return 0, nil
}

// Ping checks the Redis connection.
func (s *Sessions) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
