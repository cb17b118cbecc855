package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/bioisac/admindesk/pkg/slogx"
)

// TokenCheck resolves a bearer token to the user it was issued to. valid is
// false for unknown or expired tokens; err is reserved for failures to
// reach the backing store.
type TokenCheck func(ctx context.Context, token string) (userID string, valid bool, err error)

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. It returns "" when the header is missing or uses another scheme.
func BearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authz[len("Bearer "):])
}

// SessionAuth rejects requests without a live session before they reach next.
// The user id of the session is injected under CtxKeyUserID.
func SessionAuth(check TokenCheck) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			token := BearerToken(r)
			if token == "" {
				writeBearerError(w, "missing bearer token")
				return
			}

			userID, valid, err := check(ctx, token)
			if err != nil {
				log.Error("session lookup failed", "err", err)
				ErrServerError.WriteError(w)
				return
			}
			if !valid {
				writeBearerError(w, "session expired or unknown")
				return
			}

			ctx = context.WithValue(ctx, CtxKeyUserID, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750-style error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	ErrUnauthorized.WriteError(w)
}
