package slogx

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/bioisac/admindesk/pkg/idx"
)

// maxRequestIDLen bounds caller-supplied X-Request-ID values.
const maxRequestIDLen = 64

// quietPaths are polled by orchestrators every few seconds and only logged at
// debug level.
var quietPaths = map[string]bool{
	"/livez":  true,
	"/readyz": true,
}

// HTTPMiddleware attaches a request-scoped logger carrying req_id to the
// request context and writes one access line per request. The line's level
// follows the response status: 5xx at error, 4xx at warn, everything else at
// info (debug for health checks).
func HTTPMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			reqID := requestID(r)
			rw.Header().Set("X-Request-ID", reqID)

			logger := base.With(
				"req_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"client_ip", clientIP(r.RemoteAddr),
			)

			next.ServeHTTP(rw, r.WithContext(WithContext(r.Context(), logger)))

			logger.Log(r.Context(), accessLevel(r.URL.Path, rw.status), "http_request",
				"status", rw.status,
				"bytes", rw.written,
				"duration_ms", time.Since(start).Milliseconds(),
				"user_agent", r.UserAgent(),
			)
		})
	}
}

// requestID reuses the caller's X-Request-ID when it is short and printable,
// and mints a ULID otherwise.
func requestID(r *http.Request) string {
	id := r.Header.Get("X-Request-ID")
	if id == "" || len(id) > maxRequestIDLen {
		return idx.New()
	}
	for _, c := range id {
		if c < 0x21 || c > 0x7e {
			return idx.New()
		}
	}
	return id
}

func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

func accessLevel(path string, status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	case quietPaths[path]:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

type responseWriter struct {
	http.ResponseWriter

	status  int
	written int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += n
	return n, err
}
