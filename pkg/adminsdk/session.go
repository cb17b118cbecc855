package adminsdk

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Session is an authenticated view of the API bound to one bearer token.
// There is no refresh: once the server expires the token every call fails
// with ErrorCodeInvalidToken and a new Login is required.
type Session struct {
	client    *Client
	token     string
	expiresAt time.Time
}

func (s *Session) Token() string { return s.token }

// ExpiresAt is zero when the session was built from a bare token.
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

// Verify reports whether the server still accepts the token. An expired or
// unknown token yields false with a nil error.
func (s *Session) Verify(ctx context.Context) (bool, error) {
	resp, err := s.client.do(ctx, http.MethodGet, "/api/auth/verify", s.token, nil)
	if err != nil {
		return false, err
	}

	var out VerifyResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		if StatusCode(err) == http.StatusUnauthorized {
			return false, nil
		}
		return false, err
	}
	return out.Valid, nil
}

// Logout revokes the token on the server.
func (s *Session) Logout(ctx context.Context) error {
	resp, err := s.client.do(ctx, http.MethodPost, "/api/auth/logout", s.token, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}

func (s *Session) ListContacts(ctx context.Context) ([]Contact, error) {
	resp, err := s.client.do(ctx, http.MethodGet, "/api/contacts", s.token, nil)
	if err != nil {
		return nil, err
	}

	var out []Contact
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// Categories returns the distinct work fields in use.
func (s *Session) Categories(ctx context.Context) ([]string, error) {
	resp, err := s.client.do(ctx, http.MethodGet, "/api/contacts/categories", s.token, nil)
	if err != nil {
		return nil, err
	}

	var out []string
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) CreateContact(ctx context.Context, req ContactRequest) (*Contact, error) {
	resp, err := s.client.do(ctx, http.MethodPost, "/api/contacts", s.token, req)
	if err != nil {
		return nil, err
	}

	var out Contact
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) UpdateContact(ctx context.Context, id string, req ContactRequest) (*Contact, error) {
	resp, err := s.client.do(ctx, http.MethodPut, "/api/contacts/"+url.PathEscape(id), s.token, req)
	if err != nil {
		return nil, err
	}

	var out Contact
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) DeleteContact(ctx context.Context, id string) error {
	resp, err := s.client.do(ctx, http.MethodDelete, "/api/contacts/"+url.PathEscape(id), s.token, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusNoContent)
}

// SendEmail dispatches a notification and returns the number of recipients.
func (s *Session) SendEmail(ctx context.Context, req EmailRequest) (int, error) {
	resp, err := s.client.do(ctx, http.MethodPost, "/api/email/send", s.token, req)
	if err != nil {
		return 0, err
	}

	var out EmailResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return 0, err
	}
	return out.Recipients, nil
}
