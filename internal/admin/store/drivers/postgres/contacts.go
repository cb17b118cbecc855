package postgres

import (
	"context"

	"github.com/bioisac/admindesk/internal/admin/domain"
)

type contactsRepo struct {
	db dbtx
}

const contactColumns = `id, name, email, work_field, created_at`

func (r *contactsRepo) queryContacts(ctx context.Context, query string, args ...any) ([]domain.Contact, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Contact{}
	for rows.Next() {
		var (
			c         domain.Contact
			createdAt int64
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.WorkField, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt = fromUnix(createdAt)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *contactsRepo) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	return r.queryContacts(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY work_field, name`)
}

func (r *contactsRepo) ListWorkFields(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT work_field FROM contacts ORDER BY work_field`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var field string
		if err := rows.Scan(&field); err != nil {
			return nil, err
		}
		out = append(out, field)
	}
	return out, rows.Err()
}

func (r *contactsRepo) ListContactsByWorkField(ctx context.Context, workField string) ([]domain.Contact, error) {
	return r.queryContacts(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE work_field = $1 ORDER BY name`, workField)
}

func (r *contactsRepo) GetContactByID(ctx context.Context, id string) (domain.Contact, error) {
	var (
		c         domain.Contact
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Email, &c.WorkField, &createdAt)
	if err != nil {
		return domain.Contact{}, mapNotFound(err)
	}
	c.CreatedAt = fromUnix(createdAt)
	return c, nil
}

func (r *contactsRepo) CreateContact(ctx context.Context, c domain.Contact) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contacts (id, name, email, work_field, created_at) VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Name, c.Email, c.WorkField, toUnix(c.CreatedAt))
	return mapConstraint(err)
}

func (r *contactsRepo) UpdateContact(ctx context.Context, c domain.Contact) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contacts SET name = $1, email = $2, work_field = $3 WHERE id = $4`,
		c.Name, c.Email, c.WorkField, c.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *contactsRepo) DeleteContact(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

