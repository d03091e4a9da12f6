// Package http 商品目录的 HTTP 接口层
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lootea/commerce/internal/catalog/application"
	"github.com/lootea/commerce/pkg/logger"
	"github.com/lootea/commerce/pkg/response"
)

// ProductHandler 商品 HTTP 处理器
type ProductHandler struct {
	service *application.ProductService
}

// NewProductHandler 创建商品处理器
func NewProductHandler(service *application.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// RegisterRoutes 注册路由
func (h *ProductHandler) RegisterRoutes(r *gin.RouterGroup) {
	products := r.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
		products.GET("/:id/quote", h.QuotePrice)
	}
}

// ListProducts 分页列出商品
// GET /api/v1/products?page=1&page_size=20
func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	products, total, err := h.service.ListProducts(c.Request.Context(), page, pageSize)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list products", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
		return
	}

	response.Success(c, gin.H{
		"products":  products,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetProduct 获取商品详情
// GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := pathProductID(c)
	if !ok {
		return
	}

	product, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, product)
}

// QuotePrice 指定数量报价
// GET /api/v1/products/:id/quote?quantity=50
func (h *ProductHandler) QuotePrice(c *gin.Context) {
	id, ok := pathProductID(c)
	if !ok {
		return
	}

	quantity, err := strconv.Atoi(c.DefaultQuery("quantity", "1"))
	if err != nil || quantity < 1 {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid quantity", "INVALID_REQUEST")
		return
	}

	quote, err := h.service.QuotePrice(c.Request.Context(), id, quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, quote)
}

func (h *ProductHandler) writeError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.ErrorWithStatus(c, http.StatusNotFound, "product not found", "PRODUCT_NOT_FOUND")
		return
	}
	logger.Error(c.Request.Context(), "Product request failed", "error", err)
	response.ErrorWithStatus(c, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}

func pathProductID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", "INVALID_REQUEST")
		return 0, false
	}
	return uint(id), true
}
