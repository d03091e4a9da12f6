// Package memory 提供内存版库存台账，用于测试与本地运行
package memory

import (
	"context"
	"sync"

	"github.com/lootea/commerce/internal/inventory/domain"
)

type productStock struct {
	name      string
	quantity  int
	threshold int
}

// StockLedger domain.StockLedger 的内存实现，互斥锁起到行锁的串行化作用
type StockLedger struct {
	mu       sync.Mutex
	products map[uint]*productStock
	notifier domain.LowStockNotifier
}

// NewStockLedger 创建内存台账；notifier 可为 nil
func NewStockLedger(notifier domain.LowStockNotifier) *StockLedger {
	return &StockLedger{
		products: make(map[uint]*productStock),
		notifier: notifier,
	}
}

// Seed 预置商品库存
func (l *StockLedger) Seed(productID uint, name string, quantity, threshold int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.products[productID] = &productStock{name: name, quantity: quantity, threshold: threshold}
}

// Quantity 返回当前可用库存；商品不存在时返回 false
func (l *StockLedger) Quantity(productID uint) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.products[productID]
	if !ok {
		return 0, false
	}
	return p.quantity, true
}

// Reserve 实现 domain.StockLedger.Reserve
func (l *StockLedger) Reserve(ctx context.Context, productID uint, quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}

	l.mu.Lock()
	p, ok := l.products[productID]
	if !ok {
		l.mu.Unlock()
		return domain.ErrProductNotTracked
	}

	if p.quantity < quantity {
		err := &domain.InsufficientStockError{
			ProductID:   productID,
			ProductName: p.name,
			Requested:   quantity,
			Available:   p.quantity,
		}
		l.mu.Unlock()
		return err
	}

	wasLow := p.quantity > 0 && p.quantity <= p.threshold
	p.quantity -= quantity
	remaining := p.quantity
	threshold := p.threshold
	name := p.name
	l.mu.Unlock()

	if !wasLow && remaining <= threshold && l.notifier != nil {
		l.notifier.NotifyLowStock(ctx, domain.LowStockAlert{
			ProductID:   productID,
			ProductName: name,
			Quantity:    remaining,
			Threshold:   threshold,
		})
	}

	return nil
}

// Release 实现 domain.StockLedger.Release
func (l *StockLedger) Release(ctx context.Context, productID uint, quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.products[productID]
	if !ok {
		return domain.ErrProductNotTracked
	}
	p.quantity += quantity
	return nil
}
