package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appidentity "github.com/Assey1152/orders/internal/application/identity"
)

// ContactHandler handles the buyer's delivery address book
type ContactHandler struct {
	BaseHandler
	contactService *appidentity.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService *appidentity.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// ContactRequest represents a delivery address payload
type ContactRequest struct {
	City      string `json:"city" binding:"required,max=100"`
	Street    string `json:"street" binding:"required,max=200"`
	House     string `json:"house" binding:"max=50"`
	Structure string `json:"structure" binding:"max=50"`
	Building  string `json:"building" binding:"max=50"`
	Apartment string `json:"apartment" binding:"max=50"`
	Phone     string `json:"phone" binding:"required,max=30"`
}

func (r ContactRequest) toInput() appidentity.ContactInput {
	return appidentity.ContactInput{
		City:      r.City,
		Street:    r.Street,
		House:     r.House,
		Structure: r.Structure,
		Building:  r.Building,
		Apartment: r.Apartment,
		Phone:     r.Phone,
	}
}

// List returns all delivery addresses of the authenticated user
func (h *ContactHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	contacts, err := h.contactService.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contacts)
}

// Create adds a delivery address
func (h *ContactHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contact, err := h.contactService.Create(c.Request.Context(), userID, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, contact)
}

// Update replaces a delivery address
func (h *ContactHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contact ID")
		return
	}

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contact, err := h.contactService.Update(c.Request.Context(), userID, contactID, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contact)
}

// Delete removes a delivery address
func (h *ContactHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contact ID")
		return
	}

	if err := h.contactService.Delete(c.Request.Context(), userID, contactID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
