package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ruffo_chat_backend/internal/catalog/service"
	"ruffo_chat_backend/internal/catalog/transport"
	"ruffo_chat_backend/platform/httpkit"
	"ruffo_chat_backend/platform/validator"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new catalog handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// SearchProducts ranks catalog products against a query.
// GET /api/v1/catalog/search
func (h *Handler) SearchProducts(c *gin.Context) {
	var req transport.SearchProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	items := h.svc.Search(c.Request.Context(), req.Query, req.PetType, req.MaxResults)
	httpkit.OK(c, transport.SearchProductsResponse{Items: items, Total: len(items)})
}

// ListByCategory returns products from one category.
// GET /api/v1/catalog/categories
func (h *Handler) ListByCategory(c *gin.Context) {
	var req transport.ListByCategoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	items := h.svc.ListByCategory(c.Request.Context(), req.Category, req.PetType, req.MaxResults)
	httpkit.OK(c, transport.SearchProductsResponse{Items: items, Total: len(items)})
}

// GetProductByID looks up a single product by key or barcode.
// GET /api/v1/catalog/products/:id
func (h *Handler) GetProductByID(c *gin.Context) {
	product, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, product)
}
