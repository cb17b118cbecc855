package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bioisac/admindesk/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.ErrInvalidCredentials.WriteError(rec)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, map[string]string{"error": "invalid_credentials", "message": "Invalid credentials"}, body)
}

func TestWithMessageCopies(t *testing.T) {
	custom := httpx.ErrInvalidRequest.WithMessage("Name is required")
	require.Equal(t, "Name is required", custom.Message)
	require.NotEqual(t, custom.Message, httpx.ErrInvalidRequest.Message)
	require.Equal(t, httpx.ErrInvalidRequest.Code, custom.Code)
}

func TestDecodeJSON(t *testing.T) {
	var v struct{ Name string }

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	require.NoError(t, httpx.DecodeJSON(req, &v))
	require.Equal(t, "x", v.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	require.ErrorIs(t, httpx.DecodeJSON(req, &v), httpx.ErrEmptyBody)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	require.Error(t, httpx.DecodeJSON(req, &v))
}
