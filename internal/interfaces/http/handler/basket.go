package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appordering "github.com/Assey1152/orders/internal/application/ordering"
)

// BasketHandler manages the buyer's basket
type BasketHandler struct {
	BaseHandler
	orderService *appordering.OrderService
}

// NewBasketHandler creates a new BasketHandler
func NewBasketHandler(orderService *appordering.OrderService) *BasketHandler {
	return &BasketHandler{orderService: orderService}
}

// AddItemsRequest represents lines to add to the basket
type AddItemsRequest struct {
	Items []AddItemRequest `json:"items" binding:"required,min=1,dive"`
}

// AddItemRequest is one line to add
type AddItemRequest struct {
	ListingID string `json:"listing_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// UpdateItemsRequest represents quantity changes for existing lines
type UpdateItemsRequest struct {
	Items []UpdateItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateItemRequest is one quantity change
type UpdateItemRequest struct {
	ItemID   string `json:"item_id" binding:"required,uuid"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// Get returns the current basket, creating an empty one on first access
func (h *BasketHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	basket, err := h.orderService.GetBasket(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, basket)
}

// AddItems adds listings to the basket. The whole batch is validated
// before anything is stored, a bad line rejects the entire request.
func (h *BasketHandler) AddItems(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req AddItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items := make([]appordering.ItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, appordering.ItemInput{
			ListingID: uuid.MustParse(item.ListingID),
			Quantity:  item.Quantity,
		})
	}

	basket, err := h.orderService.AddItems(c.Request.Context(), userID, items)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, basket)
}

// UpdateItems changes quantities of existing basket lines. Lines that
// no longer exist are skipped, the response reports how many changed.
func (h *BasketHandler) UpdateItems(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updates := make([]appordering.ItemUpdate, 0, len(req.Items))
	for _, item := range req.Items {
		updates = append(updates, appordering.ItemUpdate{
			ItemID:   uuid.MustParse(item.ItemID),
			Quantity: item.Quantity,
		})
	}

	updated, err := h.orderService.UpdateItems(c.Request.Context(), userID, updates)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"updated": updated})
}

// RemoveItems deletes basket lines named by the comma separated "ids"
// query parameter
func (h *BasketHandler) RemoveItems(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	raw := c.Query("ids")
	if raw == "" {
		h.BadRequest(c, "Missing ids query parameter")
		return
	}

	var itemIDs []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			h.BadRequest(c, "Invalid item ID: "+part)
			return
		}
		itemIDs = append(itemIDs, id)
	}

	removed, err := h.orderService.RemoveItems(c.Request.Context(), userID, itemIDs)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"removed": removed})
}
