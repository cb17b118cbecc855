package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bioisac/admindesk/internal/admin/domain"
	"github.com/bioisac/admindesk/internal/admin/store"
	"github.com/bioisac/admindesk/pkg/cryptox"
	"github.com/bioisac/admindesk/pkg/idx"
	"github.com/bioisac/admindesk/pkg/slogx"
)

const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

// BootstrapService seeds the default administrator on first start.
type BootstrapService struct {
	Store    store.Store
	Hasher   cryptox.PasswordHasher
	Username string // DefaultAdminUsername when empty
	Password string // DefaultAdminPassword when empty
}

// SeedDefaultAdmin creates the administrator unless a user with that name
// already exists. It reports whether a user was created.
func (s *BootstrapService) SeedDefaultAdmin(ctx context.Context) (bool, error) {
	l := slogx.FromContext(ctx)

	username, password := s.Username, s.Password
	if username == "" {
		username = DefaultAdminUsername
	}
	if password == "" {
		password = DefaultAdminPassword
	}

	created := false
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().GetUserByUsername(ctx, username)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		hash, err := s.Hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}

		now := time.Now()
		if err := tx.Users().CreateUser(ctx, domain.User{
			ID:           idx.NewAt(now),
			Username:     username,
			PasswordHash: hash,
			CreatedAt:    now,
		}); err != nil {
			return err
		}
		created = true
		return nil
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		// Another instance seeded it between our read and write.
		return false, nil
	}
	if err != nil {
		return false, persistenceErr("seed default admin", err)
	}

	if created {
		l.Warn("seeded default admin user; change its password", "username", username)
	}
	return created, nil
}
