package domain

// allowedPaymentTransitions 支付状态机的合法迁移表。
// payment_completed 为终态；failed/cancelled 允许回到 pending 以支持重试。
var allowedPaymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusNone:      {PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled},
	PaymentStatusPending:   {PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled},
	PaymentStatusCompleted: {},
	PaymentStatusFailed:    {PaymentStatusPending, PaymentStatusCompleted},
	PaymentStatusCancelled: {PaymentStatusPending},
}

// CanTransitionPayment 判断支付状态迁移是否合法；迁移到相同状态恒为合法（幂等重放）
func CanTransitionPayment(from, to PaymentStatus) bool {
	if from == to {
		return true
	}
	for _, allowed := range allowedPaymentTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// DeriveOrderStatus 支付状态落定后推导订单状态：
// 支付完成把待处理订单推进到已支付；支付失败/取消把已支付订单退回待处理（允许重试），
// 其余情况订单状态不变。
func DeriveOrderStatus(current OrderStatus, payment PaymentStatus) OrderStatus {
	switch payment {
	case PaymentStatusCompleted:
		if current == OrderStatusPending {
			return OrderStatusPaid
		}
	case PaymentStatusFailed, PaymentStatusCancelled:
		if current == OrderStatusPaid {
			return OrderStatusPending
		}
	case PaymentStatusNone, PaymentStatusPending:
	}
	return current
}
