package service

import (
	"fmt"
	"strings"
)

// Two-factor policy names as accepted by configuration.
const (
	PolicyStrict    = "strict"
	PolicyAcceptAny = "accept-any"
)

// CodeVerifier decides whether a submitted two-factor code is acceptable for
// secret. The login flow consults it only when a secret exists and a code
// was supplied.
type CodeVerifier func(secret, code string) bool

// StrictCodeVerifier checks codes with the authenticator's TOTP window.
func StrictCodeVerifier(a *Authenticator) CodeVerifier {
	return a.VerifyTwoFactorCode
}

// AcceptAnyCode accepts every non-blank code. Demonstration mode only: it
// reduces the second factor to "type something".
func AcceptAnyCode(_, code string) bool {
	return strings.TrimSpace(code) != ""
}

// NewCodeVerifier returns the verifier for a policy name; "" means strict.
func NewCodeVerifier(policy string, a *Authenticator) (CodeVerifier, error) {
	switch strings.ToLower(strings.TrimSpace(policy)) {
	case "", PolicyStrict:
		return StrictCodeVerifier(a), nil
	case PolicyAcceptAny:
		return AcceptAnyCode, nil
	default:
		return nil, fmt.Errorf("unknown two-factor policy %q (want %q or %q)", policy, PolicyStrict, PolicyAcceptAny)
	}
}
