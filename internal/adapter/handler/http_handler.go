package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ndquoc/inventory-api/internal/core/domain"
	"github.com/ndquoc/inventory-api/internal/core/service"
)

type HTTPHandler struct {
	inventoryService *service.InventoryService
}

func NewHTTPHandler(inventoryService *service.InventoryService) *HTTPHandler {
	return &HTTPHandler{inventoryService: inventoryService}
}

// Request schemas. Quantities that legitimately allow zero are pointers
// so binding can distinguish "absent" from "0".

type CreateInventoryRequest struct {
	ProductID         string `json:"product_id" binding:"required"`
	InitialQuantity   *int   `json:"initial_quantity" binding:"required"`
	MinimumStockLevel *int   `json:"minimum_stock_level" binding:"required"`
}

type ReserveInventoryRequest struct {
	Quantity int    `json:"quantity" binding:"required,gt=0"`
	OrderID  string `json:"order_id" binding:"required"`
}

type ReleaseInventoryRequest struct {
	Quantity int    `json:"quantity" binding:"required,gt=0"`
	OrderID  string `json:"order_id" binding:"required"`
	Reason   string `json:"reason" binding:"required"`
}

type AdjustInventoryRequest struct {
	NewQuantity *int   `json:"new_quantity" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
	AdjustedBy  string `json:"adjusted_by" binding:"required"`
}

// Response schemas.

type InventoryResponse struct {
	ProductID         string `json:"product_id"`
	TotalQuantity     int    `json:"total_quantity"`
	ReservedQuantity  int    `json:"reserved_quantity"`
	AvailableQuantity int    `json:"available_quantity"`
	MinimumStockLevel int    `json:"minimum_stock_level"`
}

type OperationResult struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Inventory InventoryResponse `json:"inventory"`
}

type LowStockItem struct {
	ProductID         string `json:"product_id"`
	AvailableQuantity int    `json:"available_quantity"`
	MinimumStockLevel int    `json:"minimum_stock_level"`
	Shortfall         int    `json:"shortfall"`
}

type LowStockResponse struct {
	Items []LowStockItem `json:"items"`
	Count int            `json:"count"`
}

type ErrorResponse struct {
	Error     string    `json:"error"`
	Detail    string    `json:"detail"`
	Timestamp time.Time `json:"timestamp"`
}

func toInventoryResponse(inv *domain.Inventory) InventoryResponse {
	return InventoryResponse{
		ProductID:         inv.ProductID,
		TotalQuantity:     inv.TotalQuantity,
		ReservedQuantity:  inv.ReservedQuantity,
		AvailableQuantity: inv.AvailableQuantity(),
		MinimumStockLevel: inv.MinimumStockLevel,
	}
}

func (h *HTTPHandler) GetInventory(c *gin.Context) {
	inv, err := h.inventoryService.GetInventory(c.Request.Context(), c.Param("product_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toInventoryResponse(inv))
}

func (h *HTTPHandler) CreateInventory(c *gin.Context) {
	var req CreateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}

	inv, err := h.inventoryService.CreateInventory(c.Request.Context(), req.ProductID, *req.InitialQuantity, *req.MinimumStockLevel)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, OperationResult{
		Success:   true,
		Message:   "Successfully created inventory for " + inv.ProductID,
		Inventory: toInventoryResponse(inv),
	})
}

func (h *HTTPHandler) ReserveInventory(c *gin.Context) {
	var req ReserveInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}

	inv, err := h.inventoryService.ReserveInventory(c.Request.Context(), c.Param("product_id"), req.Quantity, req.OrderID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, OperationResult{
		Success:   true,
		Message:   "Successfully reserved units",
		Inventory: toInventoryResponse(inv),
	})
}

func (h *HTTPHandler) ReleaseInventory(c *gin.Context) {
	var req ReleaseInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}

	inv, err := h.inventoryService.ReleaseInventory(c.Request.Context(), c.Param("product_id"), req.Quantity, req.OrderID, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, OperationResult{
		Success:   true,
		Message:   "Successfully released units",
		Inventory: toInventoryResponse(inv),
	})
}

func (h *HTTPHandler) AdjustInventory(c *gin.Context) {
	var req AdjustInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}

	inv, err := h.inventoryService.AdjustInventory(c.Request.Context(), c.Param("product_id"), *req.NewQuantity, req.Reason, req.AdjustedBy)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, OperationResult{
		Success:   true,
		Message:   "Successfully adjusted inventory",
		Inventory: toInventoryResponse(inv),
	})
}

func (h *HTTPHandler) GetLowStockItems(c *gin.Context) {
	items, err := h.inventoryService.GetLowStockItems(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	resp := LowStockResponse{Items: make([]LowStockItem, 0, len(items))}
	for _, inv := range items {
		resp.Items = append(resp.Items, LowStockItem{
			ProductID:         inv.ProductID,
			AvailableQuantity: inv.AvailableQuantity(),
			MinimumStockLevel: inv.MinimumStockLevel,
			Shortfall:         inv.MinimumStockLevel - inv.AvailableQuantity(),
		})
	}
	resp.Count = len(resp.Items)

	c.JSON(http.StatusOK, resp)
}

func (h *HTTPHandler) DeleteInventory(c *gin.Context) {
	if err := h.inventoryService.DeleteInventory(c.Request.Context(), c.Param("product_id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "inventory-api"})
}

// writeError translates domain errors to transport status codes:
// NotFound→404, InsufficientStock→409, AlreadyExists→409,
// InvalidQuantity→422, anything else→500.
func writeError(c *gin.Context, err error) {
	var (
		status int
		name   string
	)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, name = http.StatusNotFound, "NotFound"
	case errors.Is(err, domain.ErrInsufficientStock):
		status, name = http.StatusConflict, "InsufficientStock"
	case errors.Is(err, domain.ErrAlreadyExists):
		status, name = http.StatusConflict, "AlreadyExists"
	case errors.Is(err, domain.ErrInvalidQuantity):
		status, name = http.StatusUnprocessableEntity, "InvalidQuantity"
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:     "InternalError",
			Detail:    "Internal server error",
			Timestamp: time.Now().UTC(),
		})
		return
	}

	c.JSON(status, ErrorResponse{
		Error:     name,
		Detail:    err.Error(),
		Timestamp: time.Now().UTC(),
	})
}

func writeValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:     "ValidationError",
		Detail:    err.Error(),
		Timestamp: time.Now().UTC(),
	})
}
