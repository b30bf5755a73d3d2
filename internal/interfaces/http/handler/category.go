package handler

import (
	"github.com/gin-gonic/gin"
	appinv "github.com/ngocrm/backend/internal/application/inventory"
	"github.com/ngocrm/backend/internal/interfaces/http/middleware"
)

// CategoryHandler handles inventory category HTTP endpoints
type CategoryHandler struct {
	BaseHandler
	service *appinv.InventoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(service *appinv.InventoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// RegisterRoutes registers category routes on the given router group
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	{
		categories.POST("", h.CreateCategory)
		categories.GET("", h.ListCategories)
	}
}

// CreateCategory handles POST /categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req appinv.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// ListCategories handles GET /categories
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	var filter appinv.ItemListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	result, err := h.service.ListCategories(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}
