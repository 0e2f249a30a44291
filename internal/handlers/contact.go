package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"wallpaper-catalog/internal/apperrors"
	"wallpaper-catalog/internal/models"
	"wallpaper-catalog/internal/services"
)

type ContactHandler struct {
	contact *services.ContactService
}

func NewContactHandler(contact *services.ContactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

// Submit godoc
// @Summary     Submit the contact form
// @Description Saves the message, then notifies the owner by email and SMS when configured.
// @Description Notification failures are reported but do not fail the request.
// @Tags        contact
// @Accept      json
// @Produce     json
// @Param       request body models.ContactRequest true "Contact form"
// @Success     200 {object} models.ContactResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /contact [post]
func (h *ContactHandler) Submit(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("Invalid request body", err.Error()))
		return
	}

	result, err := h.contact.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ContactResponse{
		Message:   "Contact form submitted successfully",
		EmailSent: result.EmailSent,
		SMSSent:   result.SMS,
	})
}

// ListMessages godoc
// @Summary     List contact messages
// @Tags        messages
// @Produce     json
// @Security    Bearer
// @Success     200 {array}  models.ContactMessage
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /messages [get]
func (h *ContactHandler) ListMessages(c *gin.Context) {
	messages, err := h.contact.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if messages == nil {
		messages = []models.ContactMessage{}
	}
	c.JSON(http.StatusOK, messages)
}

// DeleteMessage godoc
// @Summary     Delete a contact message
// @Tags        messages
// @Produce     json
// @Security    Bearer
// @Param       id path int true "Message ID"
// @Success     200 {object} models.MessageResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /messages/{id} [delete]
func (h *ContactHandler) DeleteMessage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.contact.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Message deleted successfully"})
}

// DeleteAllMessages godoc
// @Summary     Delete all contact messages
// @Tags        messages
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.DeleteMessagesResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /messages [delete]
func (h *ContactHandler) DeleteAllMessages(c *gin.Context) {
	n, err := h.contact.DeleteAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.DeleteMessagesResponse{
		Message: fmt.Sprintf("%d messages deleted successfully", n),
		Deleted: n,
	})
}
