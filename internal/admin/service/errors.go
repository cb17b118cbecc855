package service

import (
	"errors"
	"fmt"

	"github.com/bioisac/admindesk/internal/admin/domain"
)

var (
	// ErrInvalidCredentials is returned for an unknown username and for a
	// wrong password alike.
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrInvalidCode             = errors.New("invalid two-factor code")
	ErrSessionExpiredOrUnknown = errors.New("session expired or unknown")

	// ErrPersistenceUnavailable marks failures of the backing store. It is
	// never folded into an authentication failure.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)

func persistenceErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistenceUnavailable, err)
}

// OutcomeError maps the failing login outcomes to their sentinel error and
// returns nil for the others.
func OutcomeError(o domain.LoginOutcome) error {
	switch o {
	case domain.LoginRejected:
		return ErrInvalidCredentials
	case domain.LoginInvalidCode:
		return ErrInvalidCode
	default:
		return nil
	}
}
