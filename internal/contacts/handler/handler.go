package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"phonebook_backend/internal/contacts/domain"
	"phonebook_backend/internal/contacts/service"
	"phonebook_backend/internal/contacts/transport"
	"phonebook_backend/platform/httpkit"
	"phonebook_backend/platform/validator"
)

// Handler handles HTTP requests for contacts.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid contact id"
	msgContactNotFound  = "contact not found"
	msgNoMatches        = "no contacts match this number"
	msgNumberNotFound   = "phone number not found"
)

// New creates a new contacts handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListContacts returns every contact.
// GET /api/v1/contacts
func (h *Handler) ListContacts(c *gin.Context) {
	contacts, err := h.svc.FindAllContacts(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, h.svc.ToContactListResponse(contacts))
}

// FindByNumber returns the contacts owning a matching number.
// GET /api/v1/contacts/find_by_number?phone_number=...&match=true
func (h *Handler) FindByNumber(c *gin.Context) {
	var req transport.FindByNumberRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	contacts, err := h.svc.FindContactsByNumber(c.Request.Context(), req.PhoneNumber, req.Match)
	if httpkit.HandleError(c, err) {
		return
	}
	if len(contacts) == 0 {
		httpkit.Error(c, http.StatusNotFound, msgNoMatches, nil)
		return
	}
	httpkit.OK(c, h.svc.ToContactListResponse(contacts))
}

// GetContact returns one contact.
// GET /api/v1/contact/:id
func (h *Handler) GetContact(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}

	contact, err := h.svc.FindContact(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, h.svc.ToContactResponse(contact))
}

// CreateContact stores a new contact and points Location at it.
// POST /api/v1/contact
func (h *Handler) CreateContact(c *gin.Context) {
	req, ok := h.bindContact(c)
	if !ok {
		return
	}

	contact, err := h.svc.CreateContact(c.Request.Context(), deref(req.FirstName), deref(req.LastName))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, contactLocation(c, contact.ID), h.svc.ToContactResponse(contact))
}

// UpdateContact merges names onto a contact. An unknown id creates a new
// contact, answered with 201 and the new Location.
// PUT /api/v1/contact/:id
func (h *Handler) UpdateContact(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}
	req, ok := h.bindContact(c)
	if !ok {
		return
	}

	result, err := h.svc.UpdateContact(c.Request.Context(), id, req.FirstName, req.LastName)
	if httpkit.HandleError(c, err) {
		return
	}
	if result.Created {
		httpkit.Created(c, contactLocation(c, result.Contact.ID), h.svc.ToContactResponse(result.Contact))
		return
	}
	httpkit.NoContent(c)
}

// DeleteContact removes a contact and its numbers.
// DELETE /api/v1/contact/:id
func (h *Handler) DeleteContact(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}

	deleted, err := h.svc.DeleteContact(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	if !deleted {
		httpkit.Error(c, http.StatusNotFound, msgContactNotFound, nil)
		return
	}
	httpkit.NoContent(c)
}

// AddPhoneNumber attaches a number to a contact. A number already stored for
// another contact is a conflict; one already stored for this contact is
// returned unchanged.
// POST /api/v1/contact/:id/add_number
func (h *Handler) AddPhoneNumber(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}

	var req transport.AddPhoneNumberRequest
	if err := c.ShouldBind(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	ctx := c.Request.Context()
	existing, err := h.svc.FindPhoneNumber(ctx, req.Number)
	switch {
	case err == nil && existing.ContactID == id:
		httpkit.OK(c, h.svc.ToPhoneNumberResponse(existing))
		return
	case err == nil:
		httpkit.HandleError(c, domain.DuplicateNumber(existing.Number))
		return
	case !errors.Is(err, domain.ErrNotFound):
		httpkit.HandleError(c, err)
		return
	}

	number, err := h.svc.AddPhoneNumber(ctx, id, req.Number, req.Type)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, "", h.svc.ToPhoneNumberResponse(number))
}

// DeletePhoneNumber detaches a number, given in any format, from a contact.
// DELETE /api/v1/contact/:id/:phone_number
func (h *Handler) DeletePhoneNumber(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}

	deleted, err := h.svc.DeletePhoneNumber(c.Request.Context(), id, c.Param("phone_number"))
	if httpkit.HandleError(c, err) {
		return
	}
	if !deleted {
		httpkit.Error(c, http.StatusNotFound, msgNumberNotFound, nil)
		return
	}
	httpkit.NoContent(c)
}

func (h *Handler) bindContact(c *gin.Context) (transport.ContactRequest, bool) {
	var req transport.ContactRequest
	if err := c.ShouldBind(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return req, false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return req, false
	}
	return req, true
}

func contactID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return 0, false
	}
	return id, true
}

// contactLocation builds the contact URL from the matched route, so it holds
// for both POST .../contact and PUT .../contact/:id.
func contactLocation(c *gin.Context, id int64) string {
	base := strings.TrimSuffix(c.FullPath(), "/:id")
	return base + "/" + strconv.FormatInt(id, 10)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
