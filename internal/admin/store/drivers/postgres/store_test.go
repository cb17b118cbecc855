package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bioisac/admindesk/internal/admin/domain"
	"github.com/bioisac/admindesk/internal/admin/store"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewStoreFromDB(db), mock
}

func TestGetUserByUsername(t *testing.T) {
	s, mock := newMockStore(t)
	created := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, password_hash, two_factor_secret, created_at FROM users WHERE username = $1`)).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "two_factor_secret", "created_at"}).
			AddRow("u1", "admin", "hash", nil, created.UnixNano()))

	u, err := s.Users().GetUserByUsername(context.Background(), "admin")
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)
	require.Empty(t, u.TwoFactorSecret)
	require.True(t, created.Equal(u.CreatedAt))
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE username = $1`)).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := s.Users().GetUserByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("u1", "admin", "hash", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation, ConstraintName: "users_username_key"})

	err := s.Users().CreateUser(context.Background(), domain.User{ID: "u1", Username: "admin", PasswordHash: "hash"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestSetTwoFactorSecretIfEmpty(t *testing.T) {
	s, mock := newMockStore(t)
	q := regexp.QuoteMeta(`UPDATE users SET two_factor_secret = $1 WHERE id = $2 AND (two_factor_secret IS NULL`)

	mock.ExpectExec(q).WithArgs("SECRET", "u1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("OTHER", "u1").WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := s.Users().SetTwoFactorSecretIfEmpty(context.Background(), "u1", "SECRET")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Users().SetTwoFactorSecretIfEmpty(context.Background(), "u1", "OTHER")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestReplaceSession_SingleUpsert(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (user_id) DO UPDATE SET`)).
		WithArgs("hash", "u1", now.Add(time.Hour).UnixNano(), now.UnixNano()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Sessions().ReplaceSession(context.Background(), domain.Session{
		TokenHash: "hash", UserID: "u1", ExpiresAt: now.Add(time.Hour), CreatedAt: now,
	})
	require.NoError(t, err)
}

func TestGetSessionByTokenHash(t *testing.T) {
	s, mock := newMockStore(t)
	expires := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM sessions WHERE token_hash = $1`)).
		WithArgs("hash").
		WillReturnRows(sqlmock.NewRows([]string{"token_hash", "user_id", "expires_at", "created_at"}).
			AddRow("hash", "u1", expires.UnixNano(), expires.Add(-24*time.Hour).UnixNano()))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM sessions WHERE token_hash = $1`)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	sess, err := s.Sessions().GetSessionByTokenHash(context.Background(), "hash")
	require.NoError(t, err)
	require.Equal(t, "u1", sess.UserID)
	require.True(t, expires.Equal(sess.ExpiresAt))

	_, err = s.Sessions().GetSessionByTokenHash(context.Background(), "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteExpiredSessions(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sessions WHERE expires_at <= $1`)).
		WithArgs(now.UnixNano()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := s.Sessions().DeleteExpiredSessions(context.Background(), now)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
}

func TestContacts(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT DISTINCT work_field FROM contacts ORDER BY work_field`)).
		WillReturnRows(sqlmock.NewRows([]string{"work_field"}).AddRow("Genomics").AddRow("Oncology"))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM contacts WHERE work_field = $1 ORDER BY name`)).
		WithArgs("Oncology").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "work_field", "created_at"}).
			AddRow("c1", "Amy", "amy@example.com", "Oncology", int64(0)))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM contacts WHERE id = $1`)).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	fields, err := s.Contacts().ListWorkFields(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Genomics", "Oncology"}, fields)

	onc, err := s.Contacts().ListContactsByWorkField(ctx, "Oncology")
	require.NoError(t, err)
	require.Len(t, onc, 1)
	require.Equal(t, "amy@example.com", onc[0].Email)

	require.ErrorIs(t, s.Contacts().DeleteContact(ctx, "missing"), store.ErrNotFound)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	s, mock := newMockStore(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := s.WithTx(context.Background(), func(tx store.Tx) error {
		require.NoError(t, tx.Users().CreateUser(context.Background(), domain.User{ID: "u1", Username: "admin", PasswordHash: "x"}))
		return boom
	})
	require.ErrorIs(t, err, boom)
}

func TestWithTx_Commits(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM users)`)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectCommit()

	err := s.WithTx(context.Background(), func(tx store.Tx) error {
		empty, err := tx.Users().IsEmpty(context.Background())
		require.NoError(t, err)
		require.True(t, empty)
		return nil
	})
	require.NoError(t, err)
}
