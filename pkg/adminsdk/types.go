package adminsdk

import (
	"encoding/json"
	"fmt"
	"time"
)

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// ============================================================================
// Authentication Types
// ============================================================================

// LoginRequest is the body of POST /api/auth/login. TwoFactorCode is left
// empty on the first submission.
type LoginRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	TwoFactorCode string `json:"twoFactorCode,omitempty"`
}

// LoginResponse covers every successful login step. Exactly one of the
// following shapes is returned:
//   - setup: RequiresTwoFactor, SetupRequired, Secret, ProvisioningURI, QRCode
//   - code prompt: RequiresTwoFactor only
//   - signed in: Token and ExpiresAt
type LoginResponse struct {
	RequiresTwoFactor bool       `json:"requiresTwoFactor,omitempty"`
	SetupRequired     bool       `json:"setupRequired,omitempty"`
	Secret            string     `json:"secret,omitempty"`
	ProvisioningURI   string     `json:"provisioningUri,omitempty"`
	QRCode            string     `json:"qrCode,omitempty"` // data:image/png;base64,...
	Token             string     `json:"token,omitempty"`
	ExpiresAt         *time.Time `json:"expiresAt,omitempty"`
	Message           string     `json:"message"`
}

// VerifyResponse is returned by GET /api/auth/verify for a live session.
type VerifyResponse struct {
	Valid bool `json:"valid"`
}

// ============================================================================
// Contact Types
// ============================================================================

// ContactRequest is the body of contact create and update calls.
type ContactRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	WorkField string `json:"workField"`
}

type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	WorkField string    `json:"workField"`
	CreatedAt time.Time `json:"createdAt"`
}

// ============================================================================
// Notification Types
// ============================================================================

// EmailRequest is the body of POST /api/email/send. ContactID takes
// precedence over Category; with neither set every contact is addressed.
type EmailRequest struct {
	Subject   string     `json:"subject"`
	Body      string     `json:"body"`
	Category  string     `json:"category,omitempty"`
	ContactID ContactRef `json:"contactId,omitempty"`
}

// ContactRef is a contact id on the wire. It is sent as a string but also
// decodes from a JSON number, the form browser clients with numeric ids use.
// null decodes to the empty ref.
type ContactRef string

func (r *ContactRef) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*r = ContactRef(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("contactId must be a string or a number: %w", err)
	}
	*r = ContactRef(n.String())
	return nil
}

type EmailResponse struct {
	Message    string `json:"message"`
	Recipients int    `json:"recipients"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz. Checks is only present
// on /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Sessions string `json:"sessions,omitempty"`
}
