// internal/handlers/contact/contact_handler.go
package contact

import (
	"net/http"

	"tracksafe-service/internal/domain/contact"
	"tracksafe-service/internal/middleware"
	xerrors "tracksafe-service/internal/pkg/errors"
	"tracksafe-service/internal/pkg/response"
	contactUsecase "tracksafe-service/internal/service/contact"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ContactHandler struct {
	contactService *contactUsecase.ContactService
	logger         *zap.Logger
}

func NewContactHandler(contactService *contactUsecase.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		logger:         logger,
	}
}

// List returns the caller's emergency contacts (requires auth)
func (h *ContactHandler) List(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	contacts, err := h.contactService.ListContacts(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list contacts", err)
		return
	}

	response.Success(c, http.StatusOK, "contacts retrieved", contacts)
}

// Get returns one contact by ID (requires auth)
func (h *ContactHandler) Get(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)
	id := c.Param("id")

	ct, err := h.contactService.GetContact(c.Request.Context(), accountID, id)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "contact not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to get contact", err)
		return
	}

	response.Success(c, http.StatusOK, "contact retrieved", ct)
}

// Create adds a new emergency contact (requires auth)
func (h *ContactHandler) Create(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	var req contact.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	ct, err := h.contactService.CreateContact(c.Request.Context(), accountID, &req)
	if err != nil {
		h.logger.Error("contact creation failed",
			zap.String("account_id", accountID),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "failed to create contact", err)
		return
	}

	response.Success(c, http.StatusCreated, "contact created", ct)
}

// Update applies a partial edit to a contact (requires auth)
func (h *ContactHandler) Update(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)
	id := c.Param("id")

	var req contact.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	ct, err := h.contactService.UpdateContact(c.Request.Context(), accountID, id, &req)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "contact not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to update contact", err)
		return
	}

	response.Success(c, http.StatusOK, "contact updated", ct)
}

// Delete removes a contact (requires auth)
func (h *ContactHandler) Delete(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)
	id := c.Param("id")

	if err := h.contactService.DeleteContact(c.Request.Context(), accountID, id); err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "contact not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to delete contact", err)
		return
	}

	response.Success(c, http.StatusOK, "contact deleted", nil)
}
