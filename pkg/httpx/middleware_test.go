package httpx_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bioisac/admindesk/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"Bearer   padded  ", "padded"},
		{"Basic abc", ""},
		{"bearer abc", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		require.Equal(t, tt.want, httpx.BearerToken(req), "header %q", tt.header)
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler(), mw("first"), mw("second"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"first", "second"}, order)
}

func TestSessionAuth(t *testing.T) {
	check := func(ctx context.Context, token string) (string, bool, error) {
		switch token {
		case "good":
			return "user-1", true, nil
		case "broken":
			return "", false, errors.New("db down")
		default:
			return "", false, nil
		}
	}

	var gotUser string
	h := httpx.SessionAuth(check)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = httpx.UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	do := func(authz string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := do("Bearer good")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "user-1", gotUser)

	for _, authz := range []string{"", "Bearer garbage", "Token good"} {
		rec := do(authz)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "authz %q", authz)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	}

	rec = do("Bearer broken")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "db down", "internal detail must not leak")
}
