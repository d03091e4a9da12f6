package domain

import (
	"errors"
	"fmt"
	"strings"

	orderdomain "github.com/lootea/commerce/internal/order/domain"
)

// ErrUnauthorized 签名缺失或校验失败
var ErrUnauthorized = errors.New("webhook signature verification failed")

// MalformedWebhookError 回调缺少必填字段
type MalformedWebhookError struct {
	MissingFields []string
}

func (e *MalformedWebhookError) Error() string {
	return "missing required parameters: " + strings.Join(e.MissingFields, ", ")
}

// PaymentIDMismatchError 回调交易号与订单已记录的交易号不一致
type PaymentIDMismatchError struct {
	Expected string
	Got      string
}

func (e *PaymentIDMismatchError) Error() string {
	return fmt.Sprintf("payment id mismatch: expected %s, got %s", e.Expected, e.Got)
}

// CurrencyMismatchError 回调货币与订单货币不一致
type CurrencyMismatchError struct {
	Expected string
	Got      string
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("currency mismatch: expected %s, got %s", e.Expected, e.Got)
}

// UnknownStatusError 网关状态不在已知词汇表内
type UnknownStatusError struct {
	Status string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown gateway status: %s", e.Status)
}

// IllegalTransitionError 支付状态机不允许的迁移
type IllegalTransitionError struct {
	OrderID uint
	From    orderdomain.PaymentStatus
	To      orderdomain.PaymentStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition for order %d: %s -> %s", e.OrderID, e.From, e.To)
}
