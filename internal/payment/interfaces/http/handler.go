// Package http 支付回调的 HTTP 接口层
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	orderdomain "github.com/lootea/commerce/internal/order/domain"
	"github.com/lootea/commerce/internal/payment/application"
	"github.com/lootea/commerce/internal/payment/domain"
	"github.com/lootea/commerce/pkg/logger"
	"github.com/lootea/commerce/pkg/metrics"
	"github.com/lootea/commerce/pkg/response"
)

// SignatureHeader 回调签名请求头
const SignatureHeader = "X-Signature"

// WebhookHandler 支付回调处理器
type WebhookHandler struct {
	service         *application.WebhookService
	secret          string
	verifySignature bool
	metrics         *metrics.Metrics
}

// NewWebhookHandler 创建回调处理器
// verifySignature 只允许在非生产环境关闭，配置层在加载时校验
func NewWebhookHandler(service *application.WebhookService, secret string, verifySignature bool, m *metrics.Metrics) *WebhookHandler {
	return &WebhookHandler{
		service:         service,
		secret:          secret,
		verifySignature: verifySignature,
		metrics:         m,
	}
}

// RegisterRoutes 注册路由
func (h *WebhookHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/webhooks/comgate", h.HandleComgateWebhook)
}

// HandleComgateWebhook 处理 Comgate 支付回调
// POST /api/v1/webhooks/comgate
func (h *WebhookHandler) HandleComgateWebhook(c *gin.Context) {
	var notification domain.Notification
	if err := c.ShouldBind(&notification); err != nil {
		h.count("malformed")
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "MALFORMED_WEBHOOK")
		return
	}

	if h.verifySignature {
		signature := c.GetHeader(SignatureHeader)
		if err := domain.VerifySignature(h.secret, &notification, signature); err != nil {
			h.count("unauthorized")
			logger.Warn(c.Request.Context(), "Webhook signature rejected",
				"transaction_id", notification.TransactionID,
			)
			response.ErrorWithStatus(c, http.StatusUnauthorized, "invalid signature", "UNAUTHORIZED")
			return
		}
	}

	result, err := h.service.Process(c.Request.Context(), &notification)
	if err != nil {
		h.writeError(c, &notification, err)
		return
	}

	h.count("processed")
	response.Success(c, result)
}

func (h *WebhookHandler) writeError(c *gin.Context, n *domain.Notification, err error) {
	var malformed *domain.MalformedWebhookError
	var idMismatch *domain.PaymentIDMismatchError
	var currMismatch *domain.CurrencyMismatchError
	var unknown *domain.UnknownStatusError
	var illegal *domain.IllegalTransitionError

	switch {
	case errors.As(err, &malformed):
		h.count("malformed")
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "MALFORMED_WEBHOOK")
	case errors.Is(err, orderdomain.ErrOrderNotFound):
		h.count("order_not_found")
		logger.Warn(c.Request.Context(), "Webhook for unknown order",
			"transaction_id", n.TransactionID,
			"reference_id", n.ReferenceID,
		)
		response.ErrorWithStatus(c, http.StatusNotFound, "order not found", "ORDER_NOT_FOUND")
	case errors.As(err, &idMismatch), errors.As(err, &currMismatch), errors.As(err, &unknown), errors.As(err, &illegal):
		h.count("rejected")
		logger.Warn(c.Request.Context(), "Webhook rejected",
			"transaction_id", n.TransactionID,
			"error", err,
		)
		response.ErrorWithStatus(c, http.StatusUnprocessableEntity, err.Error(), "WEBHOOK_REJECTED")
	default:
		// 内部错误不向外部网关泄露细节
		h.count("internal_error")
		logger.Error(c.Request.Context(), "Webhook processing failed",
			"transaction_id", n.TransactionID,
			"error", err,
		)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "internal processing error", "INTERNAL_ERROR")
	}
}

func (h *WebhookHandler) count(result string) {
	if h.metrics != nil {
		h.metrics.WebhookEventsTotal.WithLabelValues(result).Inc()
	}
}
