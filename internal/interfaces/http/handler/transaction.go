package handler

import (
	"github.com/gin-gonic/gin"
	appinv "github.com/ngocrm/backend/internal/application/inventory"
	"github.com/ngocrm/backend/internal/domain/shared"
	"github.com/ngocrm/backend/internal/interfaces/http/dto"
)

// TransactionHandler handles ledger entry HTTP endpoints.
// The ledger is append-only, so mutation routes exist only to answer with an
// explicit error instead of a generic 404 or 405.
type TransactionHandler struct {
	BaseHandler
	service *appinv.InventoryService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(service *appinv.InventoryService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// RegisterRoutes registers transaction routes on the given router group
func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	transactions := rg.Group("/transactions")
	{
		transactions.GET("/:id", h.GetTransaction)
		transactions.PUT("/:id", h.RejectMutation)
		transactions.PATCH("/:id", h.RejectMutation)
		transactions.DELETE("/:id", h.RejectMutation)
	}
}

// GetTransaction handles GET /transactions/:id
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	transactionID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	resp, err := h.service.GetTransaction(c.Request.Context(), transactionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RejectMutation answers any attempt to update or delete a committed ledger
// entry. Corrections are made by recording an offsetting ADJUSTMENT.
func (h *TransactionHandler) RejectMutation(c *gin.Context) {
	h.Error(c, dto.GetHTTPStatus(dto.ErrCodeAppendOnly), dto.ErrCodeAppendOnly, shared.ErrAppendOnly.Message)
}
