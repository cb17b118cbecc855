package http

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"net/http"

	"github.com/pquerna/otp"

	"github.com/bioisac/admindesk/internal/admin/domain"
	"github.com/bioisac/admindesk/internal/admin/service"
	"github.com/bioisac/admindesk/pkg/adminsdk"
	"github.com/bioisac/admindesk/pkg/httpx"
	"github.com/bioisac/admindesk/pkg/slogx"
)

// qrCodeSize is the edge length in pixels of the provisioning QR code.
const qrCodeSize = 200

// AuthHandler serves the login flow and session endpoints.
type AuthHandler struct {
	LoginFlow      *service.LoginFlow
	SessionManager *service.SessionManager
}

// HandleLogin handles POST /api/auth/login
//
//	@Summary		Log in
//	@Description	Runs one step of the login flow. The first successful password check of an account without a
//	@Description	two-factor secret returns the new secret and its QR code. Later attempts need a TOTP code.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		adminsdk.LoginRequest	true	"Credentials and optional code"
//	@Success		200		{object}	adminsdk.LoginResponse	"Setup data, code prompt or session token"
//	@Failure		400		{object}	adminsdk.ErrorResponse	"Malformed body"
//	@Failure		401		{object}	adminsdk.ErrorResponse	"Invalid credentials or code"
//	@Failure		429		{object}	adminsdk.ErrorResponse	"Rate limit exceeded"
//	@Failure		500		{object}	adminsdk.ErrorResponse	"Internal server error"
//	@Router			/api/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req adminsdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}

	res, err := h.LoginFlow.Login(ctx, domain.LoginAttempt{
		Username: req.Username,
		Password: req.Password,
		Code:     req.TwoFactorCode,
	})
	if err != nil {
		log.Error("login failed", "err", err)
		httpx.ErrServerError.WriteError(w)
		return
	}

	switch res.Outcome {
	case domain.LoginRejected:
		httpx.ErrInvalidCredentials.WriteError(w)

	case domain.LoginNeedsProvisioning:
		qr, err := qrCodeDataURI(res.Provisioning.URI)
		if err != nil {
			// The secret and URI are still usable for manual entry.
			log.Warn("failed to render provisioning QR code", "err", err)
		}
		httpx.WriteJSON(w, http.StatusOK, adminsdk.LoginResponse{
			RequiresTwoFactor: true,
			SetupRequired:     true,
			Secret:            res.Provisioning.Secret,
			ProvisioningURI:   res.Provisioning.URI,
			QRCode:            qr,
			Message:           "Please set up two-factor authentication and enter the code",
		})

	case domain.LoginNeedsCode:
		httpx.WriteJSON(w, http.StatusOK, adminsdk.LoginResponse{
			RequiresTwoFactor: true,
			Message:           "Please enter your two-factor code",
		})

	case domain.LoginInvalidCode:
		httpx.ErrInvalidCode.WriteError(w)

	case domain.LoginAuthenticated:
		expiresAt := res.ExpiresAt
		httpx.WriteJSON(w, http.StatusOK, adminsdk.LoginResponse{
			Token:     res.Token,
			ExpiresAt: &expiresAt,
			Message:   "Login successful",
		})

	default:
		log.Error("login ended in unexpected state", "outcome", res.Outcome.String())
		httpx.ErrServerError.WriteError(w)
	}
}

// HandleVerify handles GET /api/auth/verify
//
//	@Summary		Verify session
//	@Description	Reports whether the bearer token belongs to a live session.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	adminsdk.VerifyResponse	"Session is live"
//	@Failure		401	{object}	adminsdk.ErrorResponse	"Missing, unknown or expired token"
//	@Router			/api/auth/verify [get].
func (h *AuthHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	// SessionAuth already rejected anything that is not live.
	httpx.WriteJSON(w, http.StatusOK, adminsdk.VerifyResponse{Valid: true})
}

// HandleLogout handles POST /api/auth/logout
//
//	@Summary		Log out
//	@Description	Revokes the session behind the bearer token.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	adminsdk.MessageResponse	"Session revoked"
//	@Failure		401	{object}	adminsdk.ErrorResponse		"Missing, unknown or expired token"
//	@Failure		500	{object}	adminsdk.ErrorResponse		"Internal server error"
//	@Router			/api/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.SessionManager.RevokeSession(ctx, httpx.BearerToken(r)); err != nil {
		slogx.FromContext(ctx).Error("failed to revoke session", "err", err)
		httpx.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, adminsdk.MessageResponse{Message: "Logged out"})
}

// qrCodeDataURI renders uri as a PNG QR code and returns it as a data URI.
func qrCodeDataURI(uri string) (string, error) {
	key, err := otp.NewKeyFromURL(uri)
	if err != nil {
		return "", err
	}
	img, err := key.Image(qrCodeSize, qrCodeSize)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
