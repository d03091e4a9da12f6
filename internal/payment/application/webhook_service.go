// Package application 实现支付回调的对账用例
package application

import (
	"context"
	"strconv"
	"time"

	orderdomain "github.com/lootea/commerce/internal/order/domain"
	"github.com/lootea/commerce/internal/payment/domain"
	"github.com/lootea/commerce/pkg/logger"
	"github.com/lootea/commerce/pkg/metrics"
)

// ProcessResult 回调处理结果
type ProcessResult struct {
	OrderID   uint                      `json:"order_id"`
	OldStatus orderdomain.PaymentStatus `json:"old_status"`
	NewStatus orderdomain.PaymentStatus `json:"new_status"`
	Changed   bool                      `json:"changed"`
}

// WebhookService 支付回调对账服务
// 定位订单、交叉校验、状态迁移在单个数据库事务内完成，
// 并发的重复投递无法交错出部分更新。
type WebhookService struct {
	orders    orderdomain.OrderRepository
	publisher orderdomain.EventPublisher
	metrics   *metrics.Metrics
}

// NewWebhookService 创建回调服务；publisher 与 metrics 可为 nil
func NewWebhookService(orders orderdomain.OrderRepository, publisher orderdomain.EventPublisher, m *metrics.Metrics) *WebhookService {
	return &WebhookService{orders: orders, publisher: publisher, metrics: m}
}

// Process 处理一次支付回调。
// 签名校验由接口层在调用前完成；同状态重放视为幂等成功。
func (s *WebhookService) Process(ctx context.Context, n *domain.Notification) (*ProcessResult, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}

	newStatus, err := domain.MapStatus(n.Status)
	if err != nil {
		return nil, err
	}

	var result *ProcessResult

	err = s.orders.Transaction(ctx, func(txCtx context.Context) error {
		order, err := s.locateOrder(txCtx, n)
		if err != nil {
			return err
		}

		if err := s.crossCheck(txCtx, order, n); err != nil {
			return err
		}

		oldStatus := order.PaymentStatus

		// 同状态重放：幂等成功，不落任何变更
		if oldStatus == newStatus {
			result = &ProcessResult{OrderID: order.ID, OldStatus: oldStatus, NewStatus: newStatus}
			return nil
		}

		if !orderdomain.CanTransitionPayment(oldStatus, newStatus) {
			return &domain.IllegalTransitionError{OrderID: order.ID, From: oldStatus, To: newStatus}
		}

		// 回调先于 PayOrder 的落库到达，或经 refId 兜底定位时补记交易号
		if order.PaymentID == "" {
			order.PaymentID = n.TransactionID
		}
		order.PaymentStatus = newStatus
		order.Status = orderdomain.DeriveOrderStatus(order.Status, newStatus)

		if err := s.orders.Save(txCtx, order); err != nil {
			return err
		}

		result = &ProcessResult{OrderID: order.ID, OldStatus: oldStatus, NewStatus: newStatus, Changed: true}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Changed {
		logger.Info(ctx, "Payment status updated",
			"order_id", result.OrderID,
			"transaction_id", n.TransactionID,
			"old_status", result.OldStatus,
			"new_status", result.NewStatus,
			"test", n.IsTest(),
		)
		if s.publisher != nil {
			s.publisher.PublishPaymentStatusChanged(ctx, orderdomain.PaymentStatusChangedEvent{
				OrderID:   result.OrderID,
				PaymentID: n.TransactionID,
				OldStatus: result.OldStatus,
				NewStatus: result.NewStatus,
				ChangedAt: time.Now(),
			})
		}
	}

	return result, nil
}

// locateOrder 先按网关交易号定位，找不到时退回按订单号定位
func (s *WebhookService) locateOrder(ctx context.Context, n *domain.Notification) (*orderdomain.Order, error) {
	order, err := s.orders.GetByPaymentID(ctx, n.TransactionID)
	if err == nil {
		return order, nil
	}

	refID, parseErr := strconv.ParseUint(n.ReferenceID, 10, 64)
	if parseErr != nil || refID == 0 {
		return nil, orderdomain.ErrOrderNotFound
	}
	return s.orders.GetByID(ctx, uint(refID))
}

// crossCheck 校验回调与订单的一致性。
// 金额不一致只告警不失败，网关对金额的回显并不总是字节精确；
// 回显可能以最小单位或主单位表示，两种解释任一匹配即视为一致。
func (s *WebhookService) crossCheck(ctx context.Context, order *orderdomain.Order, n *domain.Notification) error {
	if order.PaymentID != "" && order.PaymentID != n.TransactionID {
		return &domain.PaymentIDMismatchError{Expected: order.PaymentID, Got: n.TransactionID}
	}

	if n.Currency != "" && order.Currency != n.Currency {
		return &domain.CurrencyMismatchError{Expected: order.Currency, Got: n.Currency}
	}

	if n.Price != "" {
		asMinor, minorErr := strconv.ParseInt(n.Price, 10, 64)
		asMajor, majorErr := strconv.ParseFloat(n.Price, 64)
		minorMatch := minorErr == nil && asMinor == order.TotalCents
		majorMatch := majorErr == nil && int64(asMajor*100) == order.TotalCents
		if !minorMatch && !majorMatch {
			logger.Warn(ctx, "Webhook price mismatch",
				"order_id", order.ID,
				"expected_cents", order.TotalCents,
				"received", n.Price,
			)
		}
	}

	return nil
}
