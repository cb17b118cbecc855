package http

import (
	"errors"
	"net/http"

	"github.com/bioisac/admindesk/internal/admin/domain"
	"github.com/bioisac/admindesk/internal/admin/service"
	"github.com/bioisac/admindesk/pkg/adminsdk"
	"github.com/bioisac/admindesk/pkg/httpx"
	"github.com/bioisac/admindesk/pkg/slogx"
)

var (
	errInvalidEmail = httpx.ErrInvalidRequest.WithMessage("Subject and body are required")
	errSendFailed   = httpx.ErrInvalidRequest.WithMessage("Failed to send email. Check recipients and email configuration.")
)

type EmailHandler struct {
	NotificationService *service.NotificationService
}

// HandleSend handles POST /api/email/send
//
//	@Summary		Send notification
//	@Description	Sends a message to one contact when contactId is set, else to every contact in category,
//	@Description	else to every contact.
//	@Tags			Email
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		adminsdk.EmailRequest	true	"Message and recipients"
//	@Success		200		{object}	adminsdk.EmailResponse	"Message dispatched"
//	@Failure		400		{object}	adminsdk.ErrorResponse	"Invalid message, no recipients or dispatch failure"
//	@Failure		401		{object}	adminsdk.ErrorResponse	"Missing, unknown or expired token"
//	@Failure		500		{object}	adminsdk.ErrorResponse	"Internal server error"
//	@Router			/api/email/send [post].
func (h *EmailHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	userID, _ := httpx.UserIDFromContext(r.Context())
	ctx, log := slogx.With(r.Context(), "user_id", userID)

	var req adminsdk.EmailRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}

	sent, err := h.NotificationService.Send(ctx, domain.Notification{
		Subject:   req.Subject,
		Body:      req.Body,
		Category:  req.Category,
		ContactID: string(req.ContactID),
	})
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusOK, adminsdk.EmailResponse{
			Message:    "Email sent successfully",
			Recipients: sent,
		})
	case errors.Is(err, service.ErrInvalidNotification):
		errInvalidEmail.WriteError(w)
	case errors.Is(err, service.ErrPersistenceUnavailable):
		log.Error("failed to resolve recipients", "err", err)
		httpx.ErrServerError.WriteError(w)
	default:
		log.Warn("notification not delivered", "sent", sent, "err", err)
		errSendFailed.WriteError(w)
	}
}
