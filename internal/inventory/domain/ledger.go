// Package domain 定义库存台账：对商品可用数量的原子预留与释放
package domain

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidQuantity 预留/释放数量必须为正数
var ErrInvalidQuantity = errors.New("quantity must be positive")

// ErrProductNotTracked 台账中不存在该商品
var ErrProductNotTracked = errors.New("product not tracked in stock ledger")

// InsufficientStockError 库存不足，携带请求量与实际可用量
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q (ID: %d): requested %d, available %d",
		e.ProductName, e.ProductID, e.Requested, e.Available)
}

// IsInsufficientStock 判断错误是否为库存不足
func IsInsufficientStock(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}

// StockLedger 库存台账接口
// Reserve 的检查-再-扣减序列必须在行级排它锁（或等价串行化原语）保护下执行，
// 并发预留同一商品时不允许基于过期读数超卖。
type StockLedger interface {
	// Reserve 原子扣减可用库存；不足时返回 *InsufficientStockError
	Reserve(ctx context.Context, productID uint, quantity int) error
	// Release 原子归还库存（订单取消时调用）
	Release(ctx context.Context, productID uint, quantity int) error
}

// LowStockAlert 库存降至阈值及以下时的告警事件
type LowStockAlert struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Threshold   int    `json:"threshold"`
}

// LowStockNotifier 低库存告警通知接口；通知失败不阻塞预留
type LowStockNotifier interface {
	NotifyLowStock(ctx context.Context, alert LowStockAlert)
}
