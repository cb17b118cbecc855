package sqlite

import (
	"context"
	"database/sql"

	"github.com/bioisac/admindesk/internal/admin/domain"
)

type contactsRepo struct {
	db dbtx
}

const contactColumns = `id, name, email, work_field, created_at`

func scanContact(row interface{ Scan(...any) error }) (domain.Contact, error) {
	var (
		c         domain.Contact
		createdAt int64
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.WorkField, &createdAt); err != nil {
		return domain.Contact{}, err
	}
	c.CreatedAt = fromUnix(createdAt)
	return c, nil
}

func collectContacts(rows *sql.Rows) ([]domain.Contact, error) {
	defer rows.Close()

	out := []domain.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *contactsRepo) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts ORDER BY work_field, name`)
	if err != nil {
		return nil, err
	}
	return collectContacts(rows)
}

func (r *contactsRepo) ListWorkFields(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT work_field FROM contacts ORDER BY work_field`)
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
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE work_field = ? ORDER BY name`, workField)
	if err != nil {
		return nil, err
	}
	return collectContacts(rows)
}

func (r *contactsRepo) GetContactByID(ctx context.Context, id string) (domain.Contact, error) {
	c, err := scanContact(r.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id))
	if err != nil {
		return domain.Contact{}, mapNotFound(err)
	}
	return c, nil
}

func (r *contactsRepo) CreateContact(ctx context.Context, c domain.Contact) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contacts (id, name, email, work_field, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, c.WorkField, toUnix(c.CreatedAt))
	return mapConstraint(err)
}

func (r *contactsRepo) UpdateContact(ctx context.Context, c domain.Contact) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contacts SET name = ?, email = ?, work_field = ? WHERE id = ?`,
		c.Name, c.Email, c.WorkField, c.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *contactsRepo) DeleteContact(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
