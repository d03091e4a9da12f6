package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOrderNotFound 订单不存在或不属于请求者
var ErrOrderNotFound = errors.New("order not found")

// ErrPaymentAlreadyExists 订单已存在进行中或已完成的支付
var ErrPaymentAlreadyExists = errors.New("payment already exists for order")

// ErrOrderNotCancellable 订单当前状态不允许取消
var ErrOrderNotCancellable = errors.New("order cannot be cancelled in its current state")

// OrderNotPayableError 订单状态不允许发起支付
type OrderNotPayableError struct {
	OrderID uint
	Status  OrderStatus
}

func (e *OrderNotPayableError) Error() string {
	return fmt.Sprintf("order %d is not payable (status: %s)", e.OrderID, e.Status)
}

// ProductUnavailableError 部分请求的商品不存在或已下架
type ProductUnavailableError struct {
	ProductIDs []uint
}

func (e *ProductUnavailableError) Error() string {
	ids := make([]string, len(e.ProductIDs))
	for i, id := range e.ProductIDs {
		ids[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("products not available: %s", strings.Join(ids, ", "))
}

// ValidationError 输入校验失败，逐字段收集
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}
