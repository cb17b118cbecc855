package sqlite

import (
	"context"
	"database/sql"

	"github.com/bioisac/admindesk/internal/admin/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, username, password_hash, two_factor_secret, created_at`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var (
		u         domain.User
		secret    sql.NullString
		createdAt int64
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &secret, &createdAt); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.TwoFactorSecret = mapNullString(secret)
	u.CreatedAt = fromUnix(createdAt)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	var secret sql.NullString
	if u.TwoFactorSecret != "" {
		secret = sql.NullString{String: u.TwoFactorSecret, Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, two_factor_secret, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.PasswordHash, secret, toUnix(u.CreatedAt))
	return mapConstraint(err)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`, newHash, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *usersRepo) SetTwoFactorSecretIfEmpty(ctx context.Context, userID string, secret string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET two_factor_secret = ? WHERE id = ? AND (two_factor_secret IS NULL OR two_factor_secret = '')`,
		secret, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}
