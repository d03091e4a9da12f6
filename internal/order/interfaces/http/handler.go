// Package http 订单模块的 HTTP 接口层
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	inventorydomain "github.com/lootea/commerce/internal/inventory/domain"
	"github.com/lootea/commerce/internal/order/application"
	"github.com/lootea/commerce/internal/order/domain"
	"github.com/lootea/commerce/pkg/logger"
	"github.com/lootea/commerce/pkg/response"
)

// OrderHandler 订单 HTTP 处理器
type OrderHandler struct {
	commands *application.OrderCommandService
	queries  *application.OrderQueryService
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(commands *application.OrderCommandService, queries *application.OrderQueryService) *OrderHandler {
	return &OrderHandler{commands: commands, queries: queries}
}

// RegisterRoutes 注册路由
func (h *OrderHandler) RegisterRoutes(r *gin.RouterGroup) {
	orders := r.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.POST("/:id/pay", h.PayOrder)
		orders.DELETE("/:id", h.CancelOrder)
	}
}

type createOrderRequest struct {
	CustomerEmail string `json:"customer_email" binding:"required,email"`
	CustomerName  string `json:"customer_name"`
	Currency      string `json:"currency" binding:"required"`
	Items         []struct {
		ProductID uint `json:"product_id" binding:"required"`
		Quantity  int  `json:"quantity" binding:"required"`
	} `json:"items" binding:"required,min=1"`
}

// CreateOrder 下单
// POST /api/v1/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "INVALID_REQUEST")
		return
	}

	cmd := application.CreateOrderCommand{
		UserID:        userID,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		Currency:      req.Currency,
	}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, application.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.commands.CreateOrder(c.Request.Context(), cmd)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, order)
}

// PayOrder 为订单发起支付
// POST /api/v1/orders/:id/pay
func (h *OrderHandler) PayOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := pathOrderID(c)
	if !ok {
		return
	}

	result, err := h.commands.PayOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, gin.H{
		"payment_id":  result.PaymentID,
		"payment_url": result.PaymentURL,
	})
}

// CancelOrder 取消订单
// DELETE /api/v1/orders/:id
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := pathOrderID(c)
	if !ok {
		return
	}

	if err := h.commands.CancelOrder(c.Request.Context(), userID, orderID); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, gin.H{"order_id": orderID, "status": domain.OrderStatusCancelled})
}

// GetOrder 查询订单详情
// GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := pathOrderID(c)
	if !ok {
		return
	}

	order, err := h.queries.GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, order)
}

// ListOrders 分页查询用户订单
// GET /api/v1/orders?page=1&page_size=20
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	orders, total, err := h.queries.ListOrders(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, gin.H{
		"orders":    orders,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// writeError 将领域错误映射为 HTTP 响应
func (h *OrderHandler) writeError(c *gin.Context, err error) {
	var validation *domain.ValidationError
	var unavailable *domain.ProductUnavailableError
	var insufficient *inventorydomain.InsufficientStockError
	var notPayable *domain.OrderNotPayableError

	switch {
	case errors.As(err, &validation):
		response.ErrorWithStatus(c, http.StatusBadRequest, validation.Error(), "VALIDATION_FAILED")
	case errors.As(err, &unavailable):
		response.ErrorWithStatus(c, http.StatusUnprocessableEntity, unavailable.Error(), "PRODUCT_UNAVAILABLE")
	case errors.As(err, &insufficient):
		response.ErrorWithStatus(c, http.StatusConflict, insufficient.Error(), "INSUFFICIENT_STOCK")
	case errors.As(err, &notPayable):
		response.ErrorWithStatus(c, http.StatusConflict, notPayable.Error(), "ORDER_NOT_PAYABLE")
	case errors.Is(err, domain.ErrOrderNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "ORDER_NOT_FOUND")
	case errors.Is(err, domain.ErrPaymentAlreadyExists):
		response.ErrorWithStatus(c, http.StatusConflict, err.Error(), "PAYMENT_ALREADY_EXISTS")
	case errors.Is(err, domain.ErrOrderNotCancellable):
		response.ErrorWithStatus(c, http.StatusConflict, err.Error(), "ORDER_NOT_CANCELLABLE")
	default:
		logger.Error(c.Request.Context(), "Order request failed", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

// currentUserID 从请求头解析用户身份；认证由上游网关完成
func currentUserID(c *gin.Context) (uint, bool) {
	raw := c.GetHeader("X-User-ID")
	if raw == "" {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "missing X-User-ID header", "UNAUTHORIZED")
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "invalid X-User-ID header", "UNAUTHORIZED")
		return 0, false
	}
	return uint(id), true
}

// pathOrderID 解析路径中的订单号
func pathOrderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid order id", "INVALID_REQUEST")
		return 0, false
	}
	return uint(id), true
}
