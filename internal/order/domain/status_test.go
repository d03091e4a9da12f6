package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionPayment(t *testing.T) {
	tests := []struct {
		from    PaymentStatus
		to      PaymentStatus
		allowed bool
	}{
		{PaymentStatusNone, PaymentStatusPending, true},
		{PaymentStatusNone, PaymentStatusCompleted, true},
		{PaymentStatusNone, PaymentStatusFailed, true},
		{PaymentStatusNone, PaymentStatusCancelled, true},

		{PaymentStatusPending, PaymentStatusCompleted, true},
		{PaymentStatusPending, PaymentStatusFailed, true},
		{PaymentStatusPending, PaymentStatusCancelled, true},
		{PaymentStatusPending, PaymentStatusNone, false},

		// 终态：不允许任何离开迁移
		{PaymentStatusCompleted, PaymentStatusPending, false},
		{PaymentStatusCompleted, PaymentStatusFailed, false},
		{PaymentStatusCompleted, PaymentStatusCancelled, false},
		{PaymentStatusCompleted, PaymentStatusNone, false},

		// 失败/取消后允许重试
		{PaymentStatusFailed, PaymentStatusPending, true},
		{PaymentStatusFailed, PaymentStatusCompleted, true},
		{PaymentStatusFailed, PaymentStatusCancelled, false},
		{PaymentStatusCancelled, PaymentStatusPending, true},
		{PaymentStatusCancelled, PaymentStatusCompleted, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, CanTransitionPayment(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestSameStatusTransitionIsAlwaysAllowed(t *testing.T) {
	statuses := []PaymentStatus{
		PaymentStatusNone,
		PaymentStatusPending,
		PaymentStatusCompleted,
		PaymentStatusFailed,
		PaymentStatusCancelled,
	}
	for _, s := range statuses {
		assert.True(t, CanTransitionPayment(s, s), "%s -> %s", s, s)
	}
}

func TestDeriveOrderStatus(t *testing.T) {
	// 支付完成推进待处理订单
	assert.Equal(t, OrderStatusPaid, DeriveOrderStatus(OrderStatusPending, PaymentStatusCompleted))
	// 已发货订单不受支付完成影响
	assert.Equal(t, OrderStatusShipped, DeriveOrderStatus(OrderStatusShipped, PaymentStatusCompleted))
	// 支付失败把已支付订单退回待处理
	assert.Equal(t, OrderStatusPending, DeriveOrderStatus(OrderStatusPaid, PaymentStatusFailed))
	assert.Equal(t, OrderStatusPending, DeriveOrderStatus(OrderStatusPaid, PaymentStatusCancelled))
	// 待处理订单在支付失败时保持待处理
	assert.Equal(t, OrderStatusPending, DeriveOrderStatus(OrderStatusPending, PaymentStatusFailed))
	// 进行中的支付不改变订单状态
	assert.Equal(t, OrderStatusPending, DeriveOrderStatus(OrderStatusPending, PaymentStatusPending))
}

func TestOrderPredicates(t *testing.T) {
	pending := &Order{Status: OrderStatusPending, PaymentStatus: PaymentStatusNone}
	assert.True(t, pending.IsPending())
	assert.True(t, pending.CanBeCancelled())
	assert.False(t, pending.HasActivePayment())

	paying := &Order{Status: OrderStatusPending, PaymentStatus: PaymentStatusPending}
	assert.True(t, paying.CanBeCancelled())
	assert.True(t, paying.HasActivePayment())

	shipped := &Order{Status: OrderStatusShipped, PaymentStatus: PaymentStatusCompleted}
	assert.False(t, shipped.CanBeCancelled())

	paid := &Order{Status: OrderStatusPaid, PaymentStatus: PaymentStatusCompleted}
	assert.False(t, paid.CanBeCancelled())
	assert.True(t, paid.HasActivePayment())
}

func TestOrderItemTotal(t *testing.T) {
	item := &OrderItem{Quantity: 5, UnitPriceCents: 22000}
	assert.Equal(t, int64(110000), item.TotalCents())
}
