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

var errInvalidContact = httpx.ErrInvalidRequest.WithMessage("Name, a valid email and work field are required")

type ContactsHandler struct {
	ContactService *service.ContactService
}

// HandleList handles GET /api/contacts
//
//	@Summary		List contacts
//	@Description	Returns every contact ordered by work field, then name.
//	@Tags			Contacts
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		adminsdk.Contact		"Contacts"
//	@Failure		401	{object}	adminsdk.ErrorResponse	"Missing, unknown or expired token"
//	@Failure		500	{object}	adminsdk.ErrorResponse	"Internal server error"
//	@Router			/api/contacts [get].
func (h *ContactsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	contacts, err := h.ContactService.List(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list contacts", "err", err)
		httpx.ErrServerError.WriteError(w)
		return
	}

	out := make([]adminsdk.Contact, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, toContactResponse(c))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCategories handles GET /api/contacts/categories
//
//	@Summary		List work fields
//	@Description	Returns the distinct work fields in use, sorted.
//	@Tags			Contacts
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		string					"Work fields"
//	@Failure		401	{object}	adminsdk.ErrorResponse	"Missing, unknown or expired token"
//	@Failure		500	{object}	adminsdk.ErrorResponse	"Internal server error"
//	@Router			/api/contacts/categories [get].
func (h *ContactsHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	fields, err := h.ContactService.Categories(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list categories", "err", err)
		httpx.ErrServerError.WriteError(w)
		return
	}
	if fields == nil {
		fields = []string{}
	}
	httpx.WriteJSON(w, http.StatusOK, fields)
}

// HandleCreate handles POST /api/contacts
//
//	@Summary		Create contact
//	@Tags			Contacts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		adminsdk.ContactRequest	true	"Contact"
//	@Success		201		{object}	adminsdk.Contact		"Created contact"
//	@Failure		400		{object}	adminsdk.ErrorResponse	"Missing or malformed fields"
//	@Failure		401		{object}	adminsdk.ErrorResponse	"Missing, unknown or expired token"
//	@Failure		500		{object}	adminsdk.ErrorResponse	"Internal server error"
//	@Router			/api/contacts [post].
func (h *ContactsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req adminsdk.ContactRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}

	c, err := h.ContactService.Create(ctx, toContactInput(req))
	if err != nil {
		h.writeError(w, r, "failed to create contact", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toContactResponse(c))
}

// HandleUpdate handles PUT /api/contacts/{id}
//
//	@Summary		Update contact
//	@Tags			Contacts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Contact ID"
//	@Param			request	body		adminsdk.ContactRequest	true	"Contact"
//	@Success		200		{object}	adminsdk.Contact		"Updated contact"
//	@Failure		400		{object}	adminsdk.ErrorResponse	"Missing or malformed fields"
//	@Failure		401		{object}	adminsdk.ErrorResponse	"Missing, unknown or expired token"
//	@Failure		404		{object}	adminsdk.ErrorResponse	"Contact not found"
//	@Failure		500		{object}	adminsdk.ErrorResponse	"Internal server error"
//	@Router			/api/contacts/{id} [put].
func (h *ContactsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req adminsdk.ContactRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.ErrInvalidRequest.WriteError(w)
		return
	}

	c, err := h.ContactService.Update(ctx, r.PathValue("id"), toContactInput(req))
	if err != nil {
		h.writeError(w, r, "failed to update contact", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toContactResponse(c))
}

// HandleDelete handles DELETE /api/contacts/{id}
//
//	@Summary		Delete contact
//	@Tags			Contacts
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Contact ID"
//	@Success		204	"Contact deleted"
//	@Failure		401	{object}	adminsdk.ErrorResponse	"Missing, unknown or expired token"
//	@Failure		404	{object}	adminsdk.ErrorResponse	"Contact not found"
//	@Failure		500	{object}	adminsdk.ErrorResponse	"Internal server error"
//	@Router			/api/contacts/{id} [delete].
func (h *ContactsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.ContactService.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, r, "failed to delete contact", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ContactsHandler) writeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidContact):
		errInvalidContact.WriteError(w)
	case errors.Is(err, service.ErrContactNotFound):
		httpx.ErrNotFound.WithMessage("Contact not found").WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error(msg, "err", err)
		httpx.ErrServerError.WriteError(w)
	}
}

func toContactInput(req adminsdk.ContactRequest) service.ContactInput {
	return service.ContactInput{
		Name:      req.Name,
		Email:     req.Email,
		WorkField: req.WorkField,
	}
}

func toContactResponse(c domain.Contact) adminsdk.Contact {
	return adminsdk.Contact{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		WorkField: c.WorkField,
		CreatedAt: c.CreatedAt,
	}
}
