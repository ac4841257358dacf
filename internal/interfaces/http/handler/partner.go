package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/Assey1152/orders/internal/application/catalog"
	"github.com/Assey1152/orders/internal/application/importer"
	appordering "github.com/Assey1152/orders/internal/application/ordering"
)

// PartnerHandler serves the vendor side: price feed import, shop state
// and incoming orders. All routes require a vendor account.
type PartnerHandler struct {
	BaseHandler
	importService  *importer.ImportService
	catalogService *appcatalog.CatalogService
	orderService   *appordering.OrderService
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(
	importService *importer.ImportService,
	catalogService *appcatalog.CatalogService,
	orderService *appordering.OrderService,
) *PartnerHandler {
	return &PartnerHandler{
		importService:  importService,
		catalogService: catalogService,
		orderService:   orderService,
	}
}

// UpdateFeedRequest points at a vendor price feed to import
type UpdateFeedRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// SetStateRequest toggles whether the shop accepts orders
type SetStateRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// UpdateFeed downloads the price feed and replaces the vendor's catalog
// in a single transaction
func (h *PartnerHandler) UpdateFeed(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateFeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.importService.ImportFromURL(c.Request.Context(), userID, req.URL)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetState returns whether the vendor's shop is accepting orders
func (h *PartnerHandler) GetState(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	shop, err := h.catalogService.GetShopState(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, shop)
}

// SetState toggles order acceptance for the vendor's shop
func (h *PartnerHandler) SetState(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req SetStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	shop, err := h.catalogService.SetShopState(c.Request.Context(), userID, *req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, shop)
}

// Orders returns placed orders containing this vendor's goods. Each
// order carries only the vendor's own lines and their subtotal.
func (h *PartnerHandler) Orders(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orders, err := h.orderService.ListShopOrders(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}
