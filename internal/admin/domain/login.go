package domain

import "time"

// LoginAttempt is a single submission of the login form.
type LoginAttempt struct {
	Username string
	Password string
	Code     string // optional two-factor code
}

// LoginOutcome is the state a login attempt reached. The zero value is the
// state before any check ran; every attempt that returns without error ends
// in one of the others.
type LoginOutcome int

const (
	LoginAwaitingCredentials LoginOutcome = iota
	LoginRejected
	LoginNeedsProvisioning
	LoginNeedsCode
	LoginInvalidCode
	LoginAuthenticated
)

func (o LoginOutcome) String() string {
	switch o {
	case LoginAwaitingCredentials:
		return "awaiting_credentials"
	case LoginRejected:
		return "rejected"
	case LoginNeedsProvisioning:
		return "needs_provisioning"
	case LoginNeedsCode:
		return "needs_code"
	case LoginInvalidCode:
		return "invalid_code"
	case LoginAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// LoginResult carries the data for the outcome that was reached. Provisioning
// is set only for LoginNeedsProvisioning; Token and ExpiresAt only for
// LoginAuthenticated.
type LoginResult struct {
	Outcome      LoginOutcome
	Provisioning *Provisioning
	Token        string
	ExpiresAt    time.Time
}
