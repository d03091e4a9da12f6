package domain

import (
	"context"
	"time"
)

// 领域事件主题
const (
	TopicOrderCreated         = "order.created"
	TopicOrderCancelled       = "order.cancelled"
	TopicPaymentStatusChanged = "payment.status_changed"
)

// OrderCreatedEvent 订单创建事件
type OrderCreatedEvent struct {
	EventID    int64     `json:"event_id"`
	OrderID    uint      `json:"order_id"`
	UserID     uint      `json:"user_id"`
	TotalCents int64     `json:"total_cents"`
	Currency   string    `json:"currency"`
	ItemCount  int       `json:"item_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// OrderCancelledEvent 订单取消事件
type OrderCancelledEvent struct {
	EventID     int64     `json:"event_id"`
	OrderID     uint      `json:"order_id"`
	UserID      uint      `json:"user_id"`
	CancelledAt time.Time `json:"cancelled_at"`
}

// PaymentStatusChangedEvent 支付状态变化事件
type PaymentStatusChangedEvent struct {
	EventID   int64         `json:"event_id"`
	OrderID   uint          `json:"order_id"`
	PaymentID string        `json:"payment_id"`
	OldStatus PaymentStatus `json:"old_status"`
	NewStatus PaymentStatus `json:"new_status"`
	ChangedAt time.Time     `json:"changed_at"`
}

// EventPublisher 领域事件发布接口；发布失败不回滚已提交的业务事务
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event OrderCreatedEvent)
	PublishOrderCancelled(ctx context.Context, event OrderCancelledEvent)
	PublishPaymentStatusChanged(ctx context.Context, event PaymentStatusChangedEvent)
}
