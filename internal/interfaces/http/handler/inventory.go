package handler

import (
	"github.com/gin-gonic/gin"
	appinv "github.com/ngocrm/backend/internal/application/inventory"
	"github.com/ngocrm/backend/internal/interfaces/http/middleware"
)

// InventoryHandler handles inventory item and ledger HTTP endpoints
type InventoryHandler struct {
	BaseHandler
	service *appinv.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(service *appinv.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// RegisterRoutes registers inventory routes on the given router group
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/items")
	{
		items.POST("", h.CreateItem)
		items.GET("", h.ListItems)
		items.GET("/low-stock", h.ListBelowReorderLevel)
		items.GET("/:id", h.GetItem)
		items.PUT("/:id", h.UpdateItem)
		items.DELETE("/:id", h.DeleteItem)
		items.POST("/:id/transactions", h.RecordTransaction)
		items.GET("/:id/transactions", h.ListTransactions)
		items.GET("/:id/reconciliation", h.Reconcile)
	}
}

// CreateItem handles POST /items
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req appinv.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.CreateItem(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetItem handles GET /items/:id
func (h *InventoryHandler) GetItem(c *gin.Context) {
	itemID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	resp, err := h.service.GetItem(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateItem handles PUT /items/:id
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	itemID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	var req appinv.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.UpdateItem(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// DeleteItem handles DELETE /items/:id
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	itemID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	if err := h.service.DeleteItem(c.Request.Context(), itemID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListItems handles GET /items
func (h *InventoryHandler) ListItems(c *gin.Context) {
	var filter appinv.ItemListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	result, err := h.service.ListItems(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListBelowReorderLevel handles GET /items/low-stock
func (h *InventoryHandler) ListBelowReorderLevel(c *gin.Context) {
	var filter appinv.ItemListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	result, err := h.service.ListBelowReorderLevel(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// RecordTransaction handles POST /items/:id/transactions.
// The optional Idempotency-Key header lets clients retry safely.
func (h *InventoryHandler) RecordTransaction(c *gin.Context) {
	itemID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	var req appinv.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	req.IdempotencyKey = c.GetHeader("Idempotency-Key")

	resp, err := h.service.RecordTransaction(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// ListTransactions handles GET /items/:id/transactions
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	itemID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	var filter appinv.TransactionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	result, err := h.service.ListTransactions(c.Request.Context(), itemID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Reconcile handles GET /items/:id/reconciliation
func (h *InventoryHandler) Reconcile(c *gin.Context) {
	itemID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	resp, err := h.service.Reconcile(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
