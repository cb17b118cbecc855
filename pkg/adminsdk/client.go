package adminsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Client talks to an admindesk server. It performs the unauthenticated calls
// and opens Sessions for the rest.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login submits one step of the login flow. A wrong password or code comes
// back as an *APIError with ErrorCodeInvalidCredentials or
// ErrorCodeInvalidCode.
func (c *Client) Login(ctx context.Context, username, password, code string) (*LoginResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Username:      username,
		Password:      password,
		TwoFactorCode: code,
	})
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Authenticate runs Login and wraps the issued token in a Session. It fails
// with ErrNoSession when the server still wants a code or a setup step.
func (c *Client) Authenticate(ctx context.Context, username, password, code string) (*Session, error) {
	out, err := c.Login(ctx, username, password, code)
	if err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, ErrNoSession
	}

	s := c.NewSession(out.Token)
	if out.ExpiresAt != nil {
		s.expiresAt = *out.ExpiresAt
	}
	return s, nil
}

// NewSession wraps a token obtained elsewhere.
func (c *Client) NewSession(token string) *Session {
	return &Session{client: c, token: token}
}

// Livez calls GET /livez.
func (c *Client) Livez(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// Readyz calls GET /readyz. A degraded server answers 503, which is
// returned as an *APIError.
func (c *Client) Readyz(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *Client) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}

	var out HealthResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
